package agent

import (
	"strconv"
	"strings"
	"unicode"

	"chef-agent/internal/planner"
)

// dietCategories maps diet goals to their natural-language synonyms.
// Order matters: vegan is checked before vegetarian so "strict vegetarian"
// style phrasing ("vegan", "plant-based") is not swallowed by the broader
// vegetarian match.
var dietCategories = []struct {
	goal     string
	keywords []string
}{
	{"vegan", []string{"vegan", "plant-based", "plant based", "strict vegetarian"}},
	{"vegetarian", []string{"vegetarian", "veggie", "no meat", "meatless"}},
	{"keto", []string{"keto", "ketogenic"}},
	{"low-carb", []string{"low-carb", "low carb", "no carbs", "fewer carbs"}},
	{"high-protein", []string{"high-protein", "high protein", "protein-rich", "lots of protein", "more protein"}},
	{"gluten-free", []string{"gluten-free", "gluten free", "no gluten", "celiac"}},
	{"mediterranean", []string{"mediterranean"}},
	{"paleo", []string{"paleo", "paleolithic", "caveman"}},
	{"traditional", []string{"traditional", "classic", "home-style", "home style", "homestyle"}},
	{"regular", []string{"regular", "normal", "no diet", "anything", "everything"}},
}

// fallbackBuckets catch broader intent phrasing when no diet category
// matches, checked in priority order.
var fallbackBuckets = []struct {
	goal     string
	keywords []string
}{
	{"low-carb", []string{"lose weight", "weight loss", "slim down", "get lean", "cut weight"}},
	{"high-protein", []string{"muscle", "bulk up", "gain mass", "get strong", "workout", "gym"}},
	{"mediterranean", []string{"healthy", "health", "feel better", "balanced", "wellness"}},
}

// ExtractDietGoal finds a diet goal in free-form text. It reports the
// normalized goal and whether anything matched.
func ExtractDietGoal(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, cat := range dietCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				return cat.goal, true
			}
		}
	}
	for _, bucket := range fallbackBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.goal, true
			}
		}
	}
	return "", false
}

// DaysStatus reports the outcome of day-count extraction.
type DaysStatus int

const (
	DaysFound DaysStatus = iota
	DaysTooFew
	DaysTooMany
	DaysNotFound
)

// dayPhrases are fixed natural-language spans that resolve directly to a
// day count, checked before any number scanning.
var dayPhrases = []struct {
	phrase string
	days   int
}{
	// "weekend" must precede "week", which it contains.
	{"weekend", 3},
	{"whole week", 7},
	{"full week", 7},
	{"one week", 7},
	{"a week", 7},
	{"week", 7},
	{"few days", 5},
	{"couple of days", 3},
}

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var dayContextWords = []string{"day", "days", "tag", "tage", "jour", "jours", "день", "дня", "дней"}

// ExtractDays finds a day count in free-form text.
//
// The resolution order is fixed: known phrases first, then numbers adjacent
// to a day keyword, then the first bare number in scan order. With several
// candidate numbers the first context-matched one wins; this mirrors the
// conversational reading where "2 and 5 days" means 5 days. An out-of-range
// number is reported as too few or too many rather than not found, so the
// caller can phrase the clarification.
func ExtractDays(text string) (int, DaysStatus) {
	lower := strings.ToLower(text)

	for _, p := range dayPhrases {
		if strings.Contains(lower, p.phrase) {
			return classifyDays(p.days)
		}
	}

	tokens := tokenize(lower)
	numbers := make([]int, len(tokens))
	for i, tok := range tokens {
		if n, err := strconv.Atoi(tok); err == nil {
			numbers[i] = n
		} else if n, ok := wordNumbers[tok]; ok {
			numbers[i] = n
		} else {
			numbers[i] = -1
		}
	}

	// A number directly before or after a day keyword wins.
	for i, tok := range tokens {
		if !isDayWord(tok) {
			continue
		}
		if i > 0 && numbers[i-1] >= 0 {
			return classifyDays(numbers[i-1])
		}
		if i+1 < len(tokens) && numbers[i+1] >= 0 {
			return classifyDays(numbers[i+1])
		}
	}

	for _, n := range numbers {
		if n >= 0 {
			return classifyDays(n)
		}
	}
	return 0, DaysNotFound
}

func classifyDays(n int) (int, DaysStatus) {
	switch {
	case n < planner.MinDays:
		return n, DaysTooFew
	case n > planner.MaxDays:
		return n, DaysTooMany
	default:
		return n, DaysFound
	}
}

func isDayWord(tok string) bool {
	for _, w := range dayContextWords {
		if tok == w {
			return true
		}
	}
	return false
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// isClearRequest detects a request to discard the conversation. Single-word
// keywords match whole tokens only, so "presets" does not wipe the thread.
func isClearRequest(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range []string{"start over", "start again", "clear conversation", "forget everything", "new conversation"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, tok := range tokenize(lower) {
		if tok == "reset" {
			return true
		}
	}
	return false
}
