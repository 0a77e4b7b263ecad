package models

// RecipeBook is an ordered collection of recipes sharing a cover.
type RecipeBook struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	Recipes    []Recipe `json:"recipes"`
	CoverImage string   `json:"coverImage,omitempty"`
	// CreatedAt is a Unix timestamp in milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

// Clone returns a deep copy of b.
func (b RecipeBook) Clone() RecipeBook {
	out := b
	if b.Recipes != nil {
		out.Recipes = make([]Recipe, len(b.Recipes))
		for i, r := range b.Recipes {
			out.Recipes[i] = r.Clone()
		}
	}
	return out
}

// Library is every book a user owns, newest first. It is persisted as a single
// JSON array document.
type Library []RecipeBook

// Clone returns a deep copy of l. A nil library clones to an empty one.
func (l Library) Clone() Library {
	out := make(Library, len(l))
	for i, b := range l {
		out[i] = b.Clone()
	}
	return out
}

// Find returns the index of the book with the given id, or -1.
func (l Library) Find(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}
