package planner

import (
	"strconv"
	"strings"

	"chef-agent/internal/recipe"
)

// caloriesPer100g maps ingredient name fragments onto approximate calories
// per 100 grams. The first fragment found at a word start wins.
var caloriesPer100g = []struct {
	keyword  string
	calories int
}{
	{"butter", 717},
	{"oil", 884},
	{"bacon", 541},
	{"cheese", 402},
	{"chocolate", 546},
	{"sugar", 387},
	{"flour", 364},
	{"rice", 360},
	{"pasta", 370},
	{"oats", 389},
	{"quinoa", 368},
	{"bread", 265},
	{"nuts", 607},
	{"almond", 579},
	{"walnut", 654},
	{"avocado", 160},
	{"beef", 250},
	{"pork", 242},
	{"lamb", 294},
	{"chicken", 165},
	{"turkey", 189},
	{"salmon", 208},
	{"tuna", 144},
	{"shrimp", 99},
	{"fish", 140},
	{"egg", 155},
	{"beans", 127},
	{"lentils", 116},
	{"chickpea", 164},
	{"potato", 77},
	{"corn", 86},
	{"banana", 89},
	{"apple", 52},
	{"milk", 61},
	{"yogurt", 59},
	{"onion", 40},
	{"carrot", 41},
	{"pepper", 31},
	{"broccoli", 34},
	{"mushroom", 22},
	{"spinach", 23},
	{"tomato", 18},
	{"lettuce", 15},
	{"cucumber", 15},
	{"zucchini", 17},
	{"cream", 340},
	{"honey", 304},
}

// unitToGrams converts common recipe units to grams. Volume units use a
// water-ish density, which is close enough for a rough estimate.
var unitToGrams = map[string]float64{
	"g":      1,
	"gram":   1,
	"grams":  1,
	"kg":     1000,
	"lb":     453.6,
	"lbs":    453.6,
	"pound":  453.6,
	"pounds": 453.6,
	"oz":     28.35,
	"ounce":  28.35,
	"ounces": 28.35,
	"cup":    240,
	"cups":   240,
	"tbsp":   15,
	"tsp":    5,
	"ml":     1,
	"l":      1000,
	"liter":  1000,
}

const defaultIngredientGrams = 50

// EstimateCalories sums a rough calorie estimate over the ingredients.
// Unknown ingredients contribute nothing; unparsable quantities are assumed
// to weigh 50 grams.
func EstimateCalories(ingredients []recipe.Ingredient) int {
	total := 0.0
	for _, ing := range ingredients {
		per100g := lookupCalories(ing.Name)
		if per100g == 0 {
			continue
		}
		total += float64(per100g) * ingredientGrams(ing) / 100
	}
	return int(total)
}

func lookupCalories(name string) int {
	lower := strings.ToLower(name)
	for _, entry := range caloriesPer100g {
		if containsAtWordStart(lower, entry.keyword) {
			return entry.calories
		}
	}
	return 0
}

// containsAtWordStart reports whether sub occurs in s starting at a word
// boundary, so "corn" matches "corn flakes" and "sweet corn" but not
// "unicorn". Matching the start only keeps plurals like "tomatoes".
func containsAtWordStart(s, sub string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			return false
		}
		j += i
		if j == 0 || s[j-1] < 'a' || s[j-1] > 'z' {
			return true
		}
		i = j + 1
	}
}

func ingredientGrams(ing recipe.Ingredient) float64 {
	qty, ok := parseQuantity(ing.Quantity)
	if !ok {
		return defaultIngredientGrams
	}
	factor, ok := unitToGrams[strings.ToLower(strings.TrimSpace(ing.Unit))]
	if !ok {
		return defaultIngredientGrams
	}
	return qty * factor
}

// parseQuantity handles plain numbers and simple fractions like "1/2".
func parseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if num, den, found := strings.Cut(s, "/"); found {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
