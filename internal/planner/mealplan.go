package planner

import (
	"time"

	"chef-agent/internal/recipe"
)

// MealSlot names a meal within a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// mealSlots is the fixed per-day order.
var mealSlots = [3]MealSlot{SlotBreakfast, SlotLunch, SlotDinner}

// MealsPerDay is how many recipes a full day consumes.
const MealsPerDay = len(mealSlots)

// Meal is one slot of a day with its assigned recipe.
type Meal struct {
	Slot     MealSlot      `json:"slot"`
	Recipe   recipe.Recipe `json:"recipe"`
	Notes    string        `json:"notes,omitempty"`
	Calories int           `json:"calories"`
}

// MenuDay is one day of a meal plan.
type MenuDay struct {
	DayNumber     int    `json:"day_number"`
	Meals         []Meal `json:"meals"`
	Notes         string `json:"notes,omitempty"`
	TotalCalories int    `json:"total_calories"`
}

// MealPlan is a multi-day menu.
type MealPlan struct {
	Days      []MenuDay       `json:"days"`
	DietType  recipe.DietType `json:"diet_type,omitempty"`
	TotalDays int             `json:"total_days"`
	CreatedAt time.Time       `json:"created_at"`
}

// FindMeal returns the meal at the given day and slot, or nil.
func (p *MealPlan) FindMeal(dayNumber int, slot MealSlot) *Meal {
	for i := range p.Days {
		if p.Days[i].DayNumber != dayNumber {
			continue
		}
		for j := range p.Days[i].Meals {
			if p.Days[i].Meals[j].Slot == slot {
				return &p.Days[i].Meals[j]
			}
		}
	}
	return nil
}

// ReplaceMeal swaps the recipe at the given day and slot, recomputing meal
// and day calories. It reports whether the slot existed.
func (p *MealPlan) ReplaceMeal(dayNumber int, slot MealSlot, rec recipe.Recipe) bool {
	for i := range p.Days {
		if p.Days[i].DayNumber != dayNumber {
			continue
		}
		for j := range p.Days[i].Meals {
			if p.Days[i].Meals[j].Slot != slot {
				continue
			}
			meal := &p.Days[i].Meals[j]
			meal.Recipe = rec
			meal.Notes = mealNotes(rec)
			meal.Calories = EstimateCalories(rec.Ingredients)
			total := 0
			for _, m := range p.Days[i].Meals {
				total += m.Calories
			}
			p.Days[i].TotalCalories = total
			return true
		}
	}
	return false
}

// ParseMealSlot validates a meal slot name.
func ParseMealSlot(s string) (MealSlot, bool) {
	for _, slot := range mealSlots {
		if string(slot) == s {
			return slot, true
		}
	}
	return "", false
}
