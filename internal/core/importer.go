package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"recipe-studio-backend/internal/models"
)

// Defaults applied to imported recipes that omit a field.
const (
	DefaultDifficulty = models.DifficultyMedium
	DefaultCost       = models.CostMedium
	defaultServings   = 1
)

// importedRecipe is the tolerant shape of one element of a pasted import.
// Anything the generator may leave out is optional here.
type importedRecipe struct {
	Title            string                   `json:"title"`
	Tags             []string                 `json:"tags"`
	IngredientGroups []models.IngredientGroup `json:"ingredientGroups"`
	Steps            []string                 `json:"steps"`
	ChefNotes        string                   `json:"chefNotes"`
	Macros           importedMacros           `json:"macros"`
	Servings         looseNumber              `json:"servings"`
	TotalTime        string                   `json:"totalTime"`
	Difficulty       models.Difficulty        `json:"difficulty"`
	Cost             models.Cost              `json:"cost"`
}

type importedMacros struct {
	Kcal     looseNumber `json:"kcal"`
	Sugar    looseNumber `json:"sugar"`
	NetCarbs looseNumber `json:"netCarbs"`
	Protein  looseNumber `json:"protein"`
	Fats     looseNumber `json:"fats"`
}

func (m importedMacros) toMacros() models.Macros {
	return models.Macros{
		Kcal:     float64(m.Kcal),
		Sugar:    float64(m.Sugar),
		NetCarbs: float64(m.NetCarbs),
		Protein:  float64(m.Protein),
		Fats:     float64(m.Fats),
	}
}

// looseNumber accepts a JSON number or a string holding one ("4", "250 kcal",
// "2,5"). Values that carry no leading number decode as 0.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = looseNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(leadingNumber(s))
	return nil
}

func leadingNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f
		}
		end--
	}
	return 0
}

// stripCodeFence removes a surrounding markdown code fence (```json ... ```)
// that chat tools tend to wrap JSON answers in.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimPrefix(s, "JSON")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ParseImport turns pasted generator output into enriched recipes. The input
// must be a JSON array; each element gets an id from newID, defaults for
// missing fields, and nutrition tags. Any failure wraps ErrInvalidImport.
func ParseImport(raw string, newID func() string) ([]models.Recipe, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: input is empty", ErrInvalidImport)
	}
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("%w: input is not valid JSON", ErrInvalidImport)
	}
	if cleaned[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value must be an array of recipes", ErrInvalidImport)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	recipes := make([]models.Recipe, 0, len(elements))
	for i, el := range elements {
		trimmed := bytes.TrimSpace(el)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrInvalidImport, i)
		}
		var in importedRecipe
		if err := json.Unmarshal(trimmed, &in); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidImport, i, err)
		}
		r := in.toRecipe()
		r.ID = newID()
		recipes = append(recipes, Enrich(r))
	}
	return recipes, nil
}

func (in importedRecipe) toRecipe() models.Recipe {
	r := models.Recipe{
		Title:            strings.TrimSpace(in.Title),
		Tags:             in.Tags,
		IngredientGroups: in.IngredientGroups,
		Steps:            in.Steps,
		ChefNotes:        in.ChefNotes,
		Macros:           clampMacros(in.Macros.toMacros()),
		Servings:         int(math.Round(float64(in.Servings))),
		TotalTime:        in.TotalTime,
		Difficulty:       in.Difficulty,
		Cost:             in.Cost,
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
	if r.IngredientGroups == nil {
		r.IngredientGroups = []models.IngredientGroup{}
	}
	for i := range r.IngredientGroups {
		if r.IngredientGroups[i].Items == nil {
			r.IngredientGroups[i].Items = []string{}
		}
	}
	if r.Servings < defaultServings {
		r.Servings = defaultServings
	}
	if !r.Difficulty.Valid() {
		r.Difficulty = DefaultDifficulty
	}
	if !r.Cost.Valid() {
		r.Cost = DefaultCost
	}
	return r
}

func clampMacros(m models.Macros) models.Macros {
	clamp := func(v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			return 0
		}
		return v
	}
	return models.Macros{
		Kcal:     clamp(m.Kcal),
		Sugar:    clamp(m.Sugar),
		NetCarbs: clamp(m.NetCarbs),
		Protein:  clamp(m.Protein),
		Fats:     clamp(m.Fats),
	}
}
