package core

import (
	"strings"

	"recipe-studio-backend/internal/models"
)

// Nutrition tags produced by Enrich. The vocabulary is upper-case and
// bracket-free, which is what Categorize matches against.
const (
	TagSugarFree   = "SIN AZÚCAR"
	TagDiabetic    = "DIABÉTICOS"
	TagKeto        = "KETO"
	TagLowCarb     = "LOW CARB"
	TagHighProtein = "ALTO EN PROTEÍNA"
	TagLowCalorie  = "BAJO EN CALORÍAS"
	TagZero        = "ZERO"
)

// Book categories returned by Categorize.
const (
	CategorySugarFree  = "SIN AZÚCAR"
	CategoryKetoLow    = "KETO / LOW CARB"
	CategoryFitness    = "FITNESS"
	CategoryGastronomy = "GASTRONOMÍA"
	CategoryMixed      = "VARIADO"
)

// Nutrition thresholds. Comparisons use the raw values, no rounding.
const (
	sugarFreeMaxSugar     = 1.0 // inclusive
	diabeticMaxNetCarbs   = 20.0
	ketoMaxNetCarbs       = 15.0
	lowCarbMaxNetCarbs    = 50.0
	highProteinMinProtein = 20.0
	lowCalorieMaxKcal     = 300.0
)

var bracketStripper = strings.NewReplacer("[", "", "]", "")

// NormalizeTag upper-cases a tag and removes literal square brackets and
// surrounding blanks.
func NormalizeTag(tag string) string {
	return strings.TrimSpace(strings.ToUpper(bracketStripper.Replace(tag)))
}

// autoTags returns the rule-derived tags for m. Every matching rule fires.
func autoTags(m models.Macros) []string {
	var tags []string
	if m.Sugar <= sugarFreeMaxSugar {
		tags = append(tags, TagSugarFree)
		if m.NetCarbs < diabeticMaxNetCarbs {
			tags = append(tags, TagDiabetic)
		}
	}
	if m.NetCarbs < ketoMaxNetCarbs {
		tags = append(tags, TagKeto)
	}
	if m.NetCarbs < lowCarbMaxNetCarbs {
		tags = append(tags, TagLowCarb)
	}
	if m.Protein > highProteinMinProtein {
		tags = append(tags, TagHighProtein)
	}
	if m.Kcal < lowCalorieMaxKcal {
		tags = append(tags, TagLowCalorie)
	}
	if m.Sugar == 0 && m.NetCarbs == 0 {
		tags = append(tags, TagZero)
	}
	return tags
}

// Enrich returns a copy of r whose tags are the union of its existing tags and
// the nutrition tags derived from its macros, normalized and deduplicated.
// Existing tags keep their relative order and come first. r is not modified.
func Enrich(r models.Recipe) models.Recipe {
	out := r.Clone()

	derived := autoTags(r.Macros)
	seen := make(map[string]struct{}, len(r.Tags)+len(derived))
	tags := make([]string, 0, len(r.Tags)+len(derived))
	for _, group := range [][]string{r.Tags, derived} {
		for _, t := range group {
			n := NormalizeTag(t)
			if n == "" {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			tags = append(tags, n)
		}
	}
	out.Tags = tags
	return out
}

// Categorize derives a single label for a collection of recipes from the union
// of their tags. The first matching rule wins.
func Categorize(recipes []models.Recipe) string {
	if len(recipes) == 0 {
		return CategoryMixed
	}

	tags := make(map[string]struct{})
	for _, r := range recipes {
		for _, t := range r.Tags {
			tags[t] = struct{}{}
		}
	}
	has := func(t string) bool {
		_, ok := tags[t]
		return ok
	}

	switch {
	case has(TagDiabetic) || has(TagSugarFree):
		return CategorySugarFree
	case has(TagKeto) || has(TagLowCarb):
		return CategoryKetoLow
	case has(TagHighProtein):
		return CategoryFitness
	default:
		return CategoryGastronomy
	}
}
