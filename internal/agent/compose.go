package agent

import (
	"fmt"
	"strings"

	"chef-agent/internal/i18n"
	"chef-agent/internal/planner"
	"chef-agent/internal/shopping"
)

// Composer renders user-facing messages from conversation state.
type Composer struct {
	tr *i18n.Translator
}

// NewComposer creates a Composer over the given translator.
func NewComposer(tr *i18n.Translator) *Composer {
	return &Composer{tr: tr}
}

func (c *Composer) Welcome(lang string) string {
	return c.tr.T("welcome", lang)
}

func (c *Composer) AskDiet(lang string) string {
	return c.tr.T("ask_diet", lang)
}

func (c *Composer) AskDays(lang string) string {
	return c.tr.T("ask_days", lang)
}

// DaysClarification phrases the follow-up for a day count that was invalid
// or absent.
func (c *Composer) DaysClarification(lang string, n int, status DaysStatus) string {
	switch status {
	case DaysTooFew:
		return c.tr.T("days_too_few", lang, n)
	case DaysTooMany:
		return c.tr.T("days_too_many", lang, n)
	default:
		return c.tr.T("days_not_found", lang)
	}
}

func (c *Composer) Apology(lang string) string {
	return c.tr.T("apology", lang)
}

func (c *Composer) TryAgain(lang string) string {
	return c.tr.T("try_again", lang)
}

func (c *Composer) Cleared(lang string) string {
	return c.tr.T("conversation_cleared", lang)
}

func (c *Composer) ReplacementPrompt(lang string, rc *ReplacementContext) string {
	return c.tr.T("replacement_prompt", lang, c.mealName(lang, rc.MealSlot), rc.Day)
}

func (c *Composer) ReplacementDone(lang, title string, day int, slot planner.MealSlot) string {
	return c.tr.T("replacement_done", lang, title, c.mealName(lang, slot), day)
}

// PlanMessage renders the full plan announcement: header, per-day meals,
// the fallback disclaimer when the diet filter came up empty, and the
// shopping list when one exists.
func (c *Composer) PlanMessage(state *State) string {
	plan := state.MenuPlan
	if plan == nil {
		return c.Apology(state.Language)
	}
	lang := state.Language

	var b strings.Builder
	b.WriteString(c.tr.T("plan_ready", lang, plan.TotalDays, state.DietGoal))
	b.WriteString("\n")

	for _, day := range plan.Days {
		b.WriteString("\n")
		b.WriteString(c.tr.T("day_label", lang, day.DayNumber))
		if day.TotalCalories > 0 {
			b.WriteString(" (")
			b.WriteString(c.tr.T("calories_label", lang, day.TotalCalories))
			b.WriteString(")")
		}
		b.WriteString("\n")
		for _, meal := range day.Meals {
			fmt.Fprintf(&b, "- %s: %s\n", c.mealName(lang, meal.Slot), meal.Recipe.Title)
		}
	}

	if state.FallbackUsed {
		b.WriteString("\n")
		b.WriteString(c.tr.T("fallback_notice", lang))
		b.WriteString("\n")
	}

	if state.ShoppingList != nil && len(state.ShoppingList.Items) > 0 {
		b.WriteString("\n")
		b.WriteString(c.ShoppingMessage(lang, state.ShoppingList))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ShoppingMessage renders the list grouped by store section.
func (c *Composer) ShoppingMessage(lang string, list *shopping.List) string {
	if list == nil || len(list.Items) == 0 {
		return c.tr.T("shopping_empty", lang)
	}

	var b strings.Builder
	b.WriteString(c.tr.T("shopping_ready", lang))
	b.WriteString("\n")
	order, grouped := list.ItemsByCategory()
	for _, category := range order {
		fmt.Fprintf(&b, "\n%s:\n", shopping.CategoryDisplayName(category))
		for _, item := range grouped[category] {
			fmt.Fprintf(&b, "- %s\n", item)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (c *Composer) mealName(lang string, slot planner.MealSlot) string {
	return c.tr.T("meal_"+string(slot), lang)
}
