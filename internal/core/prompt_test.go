package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-studio-backend/internal/models"
)

func TestRecipeSchemaIsJSON(t *testing.T) {
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(RecipeSchema()), &schema))
	assert.Equal(t, "array", schema["type"])
	assert.Contains(t, RecipeSchema(), "Fácil | Media | Alta")
	assert.Contains(t, RecipeSchema(), "Económico | Medio | Gourmet")
	assert.Contains(t, RecipeSchema(), `"netCarbs"`)
}

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt("  Postres sin gluten ")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Postres sin gluten"`)
	assert.Contains(t, prompt, "6 recetas")
	assert.Contains(t, prompt, RecipeSchema())

	_, err = BuildPrompt("   ")
	assert.ErrorIs(t, err, ErrTopicRequired)
}

func TestBuildReplicationPrompt(t *testing.T) {
	book := models.RecipeBook{Recipes: []models.Recipe{{ID: "rcp-1", Title: "Flan"}, {ID: "rcp-2", Title: "Tarta"}}}
	prompt, err := BuildReplicationPrompt(book)
	require.NoError(t, err)
	assert.Contains(t, prompt, "DNA_REPLICATION_PROMPT")
	assert.Contains(t, prompt, `"title":"Flan"`)
	assert.NotContains(t, prompt, "Tarta")

	_, err = BuildReplicationPrompt(models.RecipeBook{})
	assert.ErrorIs(t, err, ErrEmptyBook)
}
