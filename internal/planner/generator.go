package planner

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"chef-agent/internal/recipe"
)

// MinDays and MaxDays bound the supported plan length.
const (
	MinDays = 3
	MaxDays = 7
)

// ValidationError reports rejected generator input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid meal plan request: " + e.Reason
}

// Generate builds a meal plan from the available recipes.
//
// Recipes are filtered by the diet goal; when nothing survives the filter the
// whole pool is used instead and the returned fallback flag is set. A pool
// smaller than days*3 is expanded by repeated shuffled copies, then shuffled
// once more so repeats spread across the week instead of rotating in lockstep.
func Generate(recipes []recipe.Recipe, dietGoal string, days int, rng *rand.Rand) (*MealPlan, bool, error) {
	if days < MinDays || days > MaxDays {
		return nil, false, &ValidationError{
			Reason: fmt.Sprintf("day count %d is outside %d..%d", days, MinDays, MaxDays),
		}
	}
	if len(recipes) == 0 {
		return nil, false, &ValidationError{Reason: "no recipes available"}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pool := filterByDiet(recipes, dietGoal)
	usedFallback := false
	if len(pool) == 0 {
		pool = recipes
		usedFallback = true
	}

	needed := days * MealsPerDay
	expanded := expandPool(pool, needed, rng)

	plan := &MealPlan{
		DietType:  DietTypeForGoal(dietGoal),
		TotalDays: days,
		CreatedAt: time.Now(),
	}
	idx := 0
	for dayNum := 1; dayNum <= days; dayNum++ {
		day := MenuDay{
			DayNumber: dayNum,
			Notes:     dayNotes(dayNum, dietGoal),
		}
		for _, slot := range mealSlots {
			rec := expanded[idx]
			idx++
			meal := Meal{
				Slot:     slot,
				Recipe:   rec,
				Notes:    mealNotes(rec),
				Calories: EstimateCalories(rec.Ingredients),
			}
			day.Meals = append(day.Meals, meal)
			day.TotalCalories += meal.Calories
		}
		plan.Days = append(plan.Days, day)
	}
	return plan, usedFallback, nil
}

// GoalAccepts reports whether a recipe with the given diet type satisfies
// the diet goal. Untagged recipes satisfy every goal except vegan, which
// demands an explicit tag; goals without matching rules accept everything.
func GoalAccepts(dietGoal string, dt recipe.DietType) bool {
	switch strings.ToLower(strings.TrimSpace(dietGoal)) {
	case "vegetarian", "veggie":
		return dt == recipe.DietVegetarian || dt == recipe.DietVegan || dt == ""
	case "vegan":
		return dt == recipe.DietVegan
	case "low-carb", "keto":
		return dt == recipe.DietLowCarb || dt == recipe.DietKeto || dt == ""
	case "gluten-free":
		return dt == recipe.DietGlutenFree || dt == ""
	default:
		return true
	}
}

// filterByDiet keeps the recipes compatible with the diet goal.
func filterByDiet(recipes []recipe.Recipe, dietGoal string) []recipe.Recipe {
	var filtered []recipe.Recipe
	for _, r := range recipes {
		if GoalAccepts(dietGoal, r.DietType) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// expandPool grows the pool to at least n recipes by concatenating shuffled
// copies, then shuffles the result and trims it to exactly n.
func expandPool(pool []recipe.Recipe, n int, rng *rand.Rand) []recipe.Recipe {
	expanded := make([]recipe.Recipe, 0, n+len(pool))
	for len(expanded) < n {
		batch := make([]recipe.Recipe, len(pool))
		copy(batch, pool)
		rng.Shuffle(len(batch), func(i, j int) {
			batch[i], batch[j] = batch[j], batch[i]
		})
		expanded = append(expanded, batch...)
	}
	rng.Shuffle(len(expanded), func(i, j int) {
		expanded[i], expanded[j] = expanded[j], expanded[i]
	})
	return expanded[:n]
}

func mealNotes(rec recipe.Recipe) string {
	var notes []string
	if rec.PrepTimeMinutes > 0 {
		notes = append(notes, fmt.Sprintf("Prep time: %d minutes", rec.PrepTimeMinutes))
	}
	if rec.CookTimeMinutes > 0 {
		notes = append(notes, fmt.Sprintf("Cook time: %d minutes", rec.CookTimeMinutes))
	}
	if rec.Servings > 0 {
		notes = append(notes, fmt.Sprintf("Serves: %d", rec.Servings))
	}
	if rec.Difficulty != "" {
		notes = append(notes, fmt.Sprintf("Difficulty: %s", rec.Difficulty))
	}
	return strings.Join(notes, "; ")
}

func dayNotes(dayNum int, dietGoal string) string {
	notes := []string{fmt.Sprintf("Day %d of %s meal plan", dayNum, dietGoal)}
	switch dayNum {
	case 1:
		notes = append(notes, "Start of your meal plan journey!")
	case 7:
		notes = append(notes, "Final day - great job sticking to your plan!")
	}
	return strings.Join(notes, " | ")
}

// DietTypeForGoal maps a diet goal string onto a stored diet type, returning
// the empty type for goals with no direct equivalent.
func DietTypeForGoal(dietGoal string) recipe.DietType {
	dt, err := recipe.ParseDietType(strings.ToLower(strings.TrimSpace(dietGoal)))
	if err != nil {
		return ""
	}
	return dt
}
