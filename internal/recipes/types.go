package recipes

import "strings"

// Difficulty of a generated recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty normalizes a wire value (received lower-case) into the
// enum. Unrecognized values fall back to Medium rather than failing.
func ParseDifficulty(s string) Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy
	case "medium":
		return DifficultyMedium
	case "hard":
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// Category of a generated recipe.
type Category string

const (
	CategoryBreakfast Category = "Breakfast"
	CategoryLunch     Category = "Lunch"
	CategoryDinner    Category = "Dinner"
	CategorySnack     Category = "Snack"
	CategoryDessert   Category = "Dessert"
	CategorySoup      Category = "Soup"
	CategorySalad     Category = "Salad"
	CategoryOther     Category = "Other"
)

// ParseCategory normalizes a wire value into the enum, falling back to
// Other for anything unrecognized.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast":
		return CategoryBreakfast
	case "lunch":
		return CategoryLunch
	case "dinner":
		return CategoryDinner
	case "snack":
		return CategorySnack
	case "dessert":
		return CategoryDessert
	case "soup":
		return CategorySoup
	case "salad":
		return CategorySalad
	default:
		return CategoryOther
	}
}

// Candidate is one recipe decoded from the recommendation endpoint.
// Identity is the generated opaque ID, not the content: two textually
// identical recipes are distinct candidates. Immutable once decoded.
type Candidate struct {
	ID              string
	Title           string
	CookingTime     string
	Servings        int
	IngredientLines []string
	Instructions    []string
	Difficulty      Difficulty
	Category        Category

	// MatchedIngredients holds the lower-cased inventory ingredient names
	// this recipe is judged to use.
	MatchedIngredients map[string]bool
}

// MatchesAny reports whether the candidate uses at least one of the given
// lower-cased ingredient names.
func (c *Candidate) MatchesAny(names map[string]bool) bool {
	for name := range names {
		if c.MatchedIngredients[name] {
			return true
		}
	}
	return false
}
