package recipe

import (
	"fmt"
	"strings"
	"time"
)

// DietType is a normalized diet category assigned to a recipe.
type DietType string

const (
	DietLowCarb       DietType = "low-carb"
	DietVegetarian    DietType = "vegetarian"
	DietVegan         DietType = "vegan"
	DietHighProtein   DietType = "high-protein"
	DietKeto          DietType = "keto"
	DietMediterranean DietType = "mediterranean"
	DietGlutenFree    DietType = "gluten-free"
	DietPaleo         DietType = "paleo"
)

// DietTypes lists every supported diet type.
var DietTypes = []DietType{
	DietLowCarb, DietVegetarian, DietVegan, DietHighProtein,
	DietKeto, DietMediterranean, DietGlutenFree, DietPaleo,
}

// ParseDietType maps a string to a DietType. The empty string is valid and
// means "no diet type".
func ParseDietType(s string) (DietType, error) {
	if s == "" {
		return "", nil
	}
	for _, dt := range DietTypes {
		if string(dt) == strings.ToLower(s) {
			return dt, nil
		}
	}
	return "", fmt.Errorf("invalid diet type %q", s)
}

// Difficulty is a recipe difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Ingredient is a single recipe ingredient. It has no identity of its own;
// it is always owned by exactly one recipe or shopping item context.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

func (i Ingredient) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", i.Quantity, i.Unit, i.Name))
}

// Recipe is a stored recipe with ingredients, instructions and metadata.
// ID is zero until the recipe has been persisted. (Title, UserID) is unique.
type Recipe struct {
	ID              int64        `json:"id,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	Instructions    string       `json:"instructions"`
	PrepTimeMinutes int          `json:"prep_time_minutes,omitempty"`
	CookTimeMinutes int          `json:"cook_time_minutes,omitempty"`
	Servings        int          `json:"servings,omitempty"`
	Difficulty      Difficulty   `json:"difficulty,omitempty"`
	DietType        DietType     `json:"diet_type,omitempty"`
	UserID          string       `json:"user_id,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Tags            []string     `json:"tags"`
	CreatedAt       time.Time    `json:"created_at,omitempty"`
	UpdatedAt       time.Time    `json:"updated_at,omitempty"`
}

// Validate checks the invariants a recipe must hold before it can be saved.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("recipe title cannot be empty")
	}
	if r.PrepTimeMinutes < 0 {
		return fmt.Errorf("prep_time_minutes cannot be negative")
	}
	if r.CookTimeMinutes < 0 {
		return fmt.Errorf("cook_time_minutes cannot be negative")
	}
	if r.Servings < 0 {
		return fmt.Errorf("servings cannot be negative")
	}
	return nil
}

// TotalTimeMinutes returns prep plus cook time.
func (r *Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// HasTag reports whether the recipe carries the given tag, case-insensitively.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
