package models

// Difficulty is the preparation difficulty of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Fácil"
	DifficultyMedium Difficulty = "Media"
	DifficultyHigh   Difficulty = "Alta"
)

// Cost is the relative ingredient cost of a recipe.
type Cost string

const (
	CostBudget  Cost = "Económico"
	CostMedium  Cost = "Medio"
	CostGourmet Cost = "Gourmet"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHigh:
		return true
	}
	return false
}

// Valid reports whether c is one of the known cost levels.
func (c Cost) Valid() bool {
	switch c {
	case CostBudget, CostMedium, CostGourmet:
		return true
	}
	return false
}

// Macros holds the per-serving nutrition figures of a recipe. All values are
// non-negative and compared exactly as given.
type Macros struct {
	Kcal     float64 `json:"kcal" firestore:"kcal"`
	Sugar    float64 `json:"sugar" firestore:"sugar"`
	NetCarbs float64 `json:"netCarbs" firestore:"netCarbs"`
	Protein  float64 `json:"protein" firestore:"protein"`
	Fats     float64 `json:"fats" firestore:"fats"`
}

// IngredientGroup is a named (or unnamed) block of ingredient lines.
type IngredientGroup struct {
	// Name is optional, e.g. "Para la salsa".
	Name string `json:"name,omitempty" firestore:"name,omitempty"`

	// Items are free-text ingredient lines in display order.
	Items []string `json:"items" firestore:"items"`
}

// Recipe is a single page of a recipe book.
type Recipe struct {
	ID               string            `json:"id" firestore:"id"`
	Title            string            `json:"title" firestore:"title"`
	Tags             []string          `json:"tags" firestore:"tags"`
	IngredientGroups []IngredientGroup `json:"ingredientGroups" firestore:"ingredientGroups"`
	Steps            []string          `json:"steps" firestore:"steps"`
	ChefNotes        string            `json:"chefNotes,omitempty" firestore:"chefNotes,omitempty"`
	Macros           Macros            `json:"macros" firestore:"macros"`
	Servings         int               `json:"servings" firestore:"servings"`
	TotalTime        string            `json:"totalTime" firestore:"totalTime"`
	Difficulty       Difficulty        `json:"difficulty" firestore:"difficulty"`
	Cost             Cost              `json:"cost" firestore:"cost"`
}

// Clone returns a deep copy of r. Empty slices stay empty rather than nil so
// they keep encoding as [] in the stored document.
func (r Recipe) Clone() Recipe {
	out := r
	out.Tags = cloneStrings(r.Tags)
	out.Steps = cloneStrings(r.Steps)
	if r.IngredientGroups != nil {
		out.IngredientGroups = make([]IngredientGroup, len(r.IngredientGroups))
		for i, g := range r.IngredientGroups {
			out.IngredientGroups[i] = IngredientGroup{Name: g.Name, Items: cloneStrings(g.Items)}
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
