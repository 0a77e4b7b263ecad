package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-studio-backend/internal/models"
)

func recipeWith(m models.Macros, tags ...string) models.Recipe {
	return models.Recipe{Title: "Receta", Tags: tags, Macros: m, Servings: 2}
}

func TestEnrichRules(t *testing.T) {
	tests := []struct {
		name    string
		macros  models.Macros
		want    []string
		notWant []string
	}{
		{
			name:    "multi-rule independence",
			macros:  models.Macros{Kcal: 250, Sugar: 0, NetCarbs: 8, Protein: 25, Fats: 5},
			want:    []string{TagSugarFree, TagDiabetic, TagKeto, TagLowCarb, TagHighProtein, TagLowCalorie},
			notWant: []string{TagZero},
		},
		{
			name:    "sugar threshold is inclusive",
			macros:  models.Macros{Kcal: 500, Sugar: 1, NetCarbs: 30},
			want:    []string{TagSugarFree, TagLowCarb},
			notWant: []string{TagDiabetic, TagKeto, TagHighProtein, TagLowCalorie, TagZero},
		},
		{
			name:    "just over the sugar threshold",
			macros:  models.Macros{Kcal: 500, Sugar: 1.01, NetCarbs: 10},
			want:    []string{TagKeto, TagLowCarb},
			notWant: []string{TagSugarFree, TagDiabetic},
		},
		{
			name:    "strict carb and calorie bounds",
			macros:  models.Macros{Kcal: 300, Sugar: 5, NetCarbs: 50, Protein: 20},
			notWant: []string{TagKeto, TagLowCarb, TagHighProtein, TagLowCalorie, TagSugarFree},
		},
		{
			name:   "zero",
			macros: models.Macros{Kcal: 10},
			want:   []string{TagSugarFree, TagDiabetic, TagKeto, TagLowCarb, TagLowCalorie, TagZero},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Enrich(recipeWith(tt.macros)).Tags
			for _, tag := range tt.want {
				assert.Contains(t, got, tag)
			}
			for _, tag := range tt.notWant {
				assert.NotContains(t, got, tag)
			}
		})
	}
}

func TestEnrichNormalizesAndDeduplicates(t *testing.T) {
	r := recipeWith(models.Macros{Kcal: 800, Sugar: 10, NetCarbs: 10},
		"[keto]", "Postre", "POSTRE", "", " [ ]", "sin azúcar")

	got := Enrich(r).Tags

	assert.Equal(t, []string{"KETO", "POSTRE", TagSugarFree, TagLowCarb}, got)
	for _, tag := range got {
		assert.Equal(t, strings.ToUpper(tag), tag)
		assert.NotContains(t, tag, "[")
		assert.NotContains(t, tag, "]")
	}
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	tags := []string{"[casero]"}
	r := recipeWith(models.Macros{Kcal: 100}, tags...)
	r.Tags = tags

	_ = Enrich(r)

	assert.Equal(t, []string{"[casero]"}, tags)
	assert.Equal(t, []string{"[casero]"}, r.Tags)
}

func TestEnrichIsIdempotent(t *testing.T) {
	macros := []models.Macros{
		{Kcal: 250, Sugar: 0, NetCarbs: 8, Protein: 25, Fats: 5},
		{Kcal: 900, Sugar: 30, NetCarbs: 80, Protein: 5},
		{},
		{Kcal: 299.9, Sugar: 0.99, NetCarbs: 14.9, Protein: 20.1},
	}
	for _, m := range macros {
		once := Enrich(recipeWith(m, "vegano", "[VEGANO]"))
		twice := Enrich(once)
		assert.Equal(t, once.Tags, twice.Tags)
	}
}

func TestEnrichDiabeticProperty(t *testing.T) {
	for sugar := 0.0; sugar <= 1.0; sugar += 0.25 {
		for carbs := 0.0; carbs < 20; carbs += 2.5 {
			got := Enrich(recipeWith(models.Macros{Kcal: 400, Sugar: sugar, NetCarbs: carbs})).Tags
			require.Contains(t, got, TagSugarFree, "sugar=%v carbs=%v", sugar, carbs)
			require.Contains(t, got, TagDiabetic, "sugar=%v carbs=%v", sugar, carbs)
		}
	}
}

func TestCategorize(t *testing.T) {
	diabetic := models.Recipe{Tags: []string{TagDiabetic}}
	keto := models.Recipe{Tags: []string{TagKeto}}
	lowCarb := models.Recipe{Tags: []string{TagLowCarb}}
	protein := models.Recipe{Tags: []string{TagHighProtein}}
	plain := models.Recipe{Tags: []string{"POSTRE"}}

	tests := []struct {
		name    string
		recipes []models.Recipe
		want    string
	}{
		{"empty", nil, CategoryMixed},
		{"sugar free beats keto", []models.Recipe{keto, diabetic}, CategorySugarFree},
		{"sugar free tag alone", []models.Recipe{{Tags: []string{TagSugarFree}}}, CategorySugarFree},
		{"low carb", []models.Recipe{lowCarb, protein}, CategoryKetoLow},
		{"fitness", []models.Recipe{protein, plain}, CategoryFitness},
		{"gastronomy", []models.Recipe{plain}, CategoryGastronomy},
		{"no tags", []models.Recipe{{}}, CategoryGastronomy},
		{"case sensitive", []models.Recipe{{Tags: []string{"keto"}}}, CategoryGastronomy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.recipes))
		})
	}
}
