package planner

import (
	"testing"

	"chef-agent/internal/recipe"
)

func TestEstimateCalories(t *testing.T) {
	cases := []struct {
		name        string
		ingredients []recipe.Ingredient
		want        int
	}{
		{
			name: "grams",
			ingredients: []recipe.Ingredient{
				{Name: "chicken breast", Quantity: "200", Unit: "g"},
			},
			want: 330,
		},
		{
			name: "kilograms",
			ingredients: []recipe.Ingredient{
				{Name: "potato", Quantity: "1", Unit: "kg"},
			},
			want: 770,
		},
		{
			name: "fraction of a cup",
			ingredients: []recipe.Ingredient{
				{Name: "white rice", Quantity: "1/2", Unit: "cup"},
			},
			want: 432,
		},
		{
			name: "unparsable quantity assumes 50g",
			ingredients: []recipe.Ingredient{
				{Name: "cheddar cheese", Quantity: "a chunk", Unit: ""},
			},
			want: 201,
		},
		{
			name: "unknown unit assumes 50g",
			ingredients: []recipe.Ingredient{
				{Name: "sugar", Quantity: "2", Unit: "handfuls"},
			},
			want: 193,
		},
		{
			name: "unknown ingredient contributes nothing",
			ingredients: []recipe.Ingredient{
				{Name: "unicorn dust", Quantity: "100", Unit: "g"},
			},
			want: 0,
		},
		{
			name: "fragment inside a word does not match",
			ingredients: []recipe.Ingredient{
				{Name: "unicorn sprinkles", Quantity: "100", Unit: "g"},
			},
			want: 0,
		},
		{
			name: "fragment at a word start matches",
			ingredients: []recipe.Ingredient{
				{Name: "sweet corn", Quantity: "100", Unit: "g"},
			},
			want: 86,
		},
		{
			name: "sums across ingredients",
			ingredients: []recipe.Ingredient{
				{Name: "pasta", Quantity: "100", Unit: "g"},
				{Name: "tomato", Quantity: "100", Unit: "g"},
			},
			want: 388,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateCalories(tc.ingredients); got != tc.want {
				t.Errorf("EstimateCalories() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"1.5", 1.5, true},
		{"1/2", 0.5, true},
		{" 3 / 4 ", 0.75, true},
		{"1/0", 0, false},
		{"a pinch", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseQuantity(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseQuantity(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
