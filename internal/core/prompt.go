package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"recipe-studio-backend/internal/models"
)

// RecipesPerBook is how many recipes the generation prompt asks for.
const RecipesPerBook = 6

type schemaGroup struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type schemaMacros struct {
	Kcal     string `json:"kcal"`
	Sugar    string `json:"sugar"`
	NetCarbs string `json:"netCarbs"`
	Protein  string `json:"protein"`
	Fats     string `json:"fats"`
}

type schemaRecipe struct {
	Title            string        `json:"title"`
	Tags             []string      `json:"tags"`
	IngredientGroups []schemaGroup `json:"ingredientGroups"`
	Steps            []string      `json:"steps"`
	ChefNotes        string        `json:"chefNotes"`
	Macros           schemaMacros  `json:"macros"`
	Servings         string        `json:"servings"`
	TotalTime        string        `json:"totalTime"`
	Difficulty       string        `json:"difficulty"`
	Cost             string        `json:"cost"`
}

type schemaItems struct {
	Type       string       `json:"type"`
	Properties schemaRecipe `json:"properties"`
}

type recipeSchema struct {
	Type  string      `json:"type"`
	Items schemaItems `json:"items"`
}

func enumList[T ~string](values ...T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " | ")
}

// RecipeSchema returns the machine-readable import schema, indented, as it is
// embedded in the generation prompt.
func RecipeSchema() string {
	schema := recipeSchema{
		Type: "array",
		Items: schemaItems{
			Type: "object",
			Properties: schemaRecipe{
				Title:            "string",
				Tags:             []string{"string"},
				IngredientGroups: []schemaGroup{{Name: "string", Items: []string{"string"}}},
				Steps:            []string{"string"},
				ChefNotes:        "string",
				Macros: schemaMacros{
					Kcal:     "number",
					Sugar:    "number",
					NetCarbs: "number",
					Protein:  "number",
					Fats:     "number",
				},
				Servings:   "number",
				TotalTime:  "string",
				Difficulty: enumList(models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHigh),
				Cost:       enumList(models.CostBudget, models.CostMedium, models.CostGourmet),
			},
		},
	}
	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		// Static value; marshalling cannot fail.
		panic(err)
	}
	return string(out)
}

// BuildPrompt returns the text the user pastes into an external chat tool to
// generate a book about topic.
func BuildPrompt(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrTopicRequired
	}
	return fmt.Sprintf(`Actúa como un Chef de Alta Cocina y Nutricionista. Genera un recetario profesional de %d recetas creativas sobre "%s".
REGLA CRÍTICA: Debes responder ÚNICAMENTE con un bloque de código JSON puro que siga este esquema exacto:
%s

No incluyas introducciones ni explicaciones. Solo el JSON.`, RecipesPerBook, topic, RecipeSchema()), nil
}

// BuildReplicationPrompt returns a prompt that asks another tool to reproduce
// the structure and nutrition logic of book, using its first recipe as sample.
func BuildReplicationPrompt(book models.RecipeBook) (string, error) {
	if len(book.Recipes) == 0 {
		return "", ErrEmptyBook
	}
	sample, err := json.Marshal(book.Recipes[0])
	if err != nil {
		return "", fmt.Errorf("failed to encode sample recipe: %w", err)
	}
	return fmt.Sprintf(`DNA_REPLICATION_PROMPT:
FORMAT: JSON_RECIPE_V1
STYLE: KAWAII_GOURMET
SAMPLE_DATA: %s
INSTRUCTION: Follow this exact structure and nutrition logic for any new generation.`, sample), nil
}
