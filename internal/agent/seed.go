package agent

import (
	"context"

	"chef-agent/internal/recipe"
)

// seedStarterRecipes creates a small set of basic recipes when searching
// turned up nothing, so plan generation always has a pool to draw from.
// Starters the user already has are kept in the pool as the in-memory copy;
// the generator only needs their titles and ingredients.
func (a *Agent) seedStarterRecipes(ctx context.Context, state *State) ([]recipe.Recipe, error) {
	seeded := make([]recipe.Recipe, 0, len(starterRecipes))
	for _, starter := range starterRecipes {
		rec := starter
		rec.UserID = state.UserID
		err := a.recipes.Save(ctx, &rec)
		if err != nil && !recipe.IsDuplicate(err) {
			return nil, err
		}
		seeded = append(seeded, rec)
	}
	a.logger.Info("seeded starter recipes",
		"thread_id", state.ThreadID, "count", len(seeded))
	return seeded, nil
}

// starterRecipes is the built-in pool of last resort, spread across diet
// types so every goal's filter keeps at least a few.
var starterRecipes = []recipe.Recipe{
	{
		Title:           "Vegetable Omelette",
		Description:     "Fluffy eggs with sautéed vegetables",
		Instructions:    "Whisk the eggs, sauté the vegetables, pour the eggs over and cook until set.",
		PrepTimeMinutes: 5,
		CookTimeMinutes: 10,
		Servings:        2,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietVegetarian,
		Ingredients: []recipe.Ingredient{
			{Name: "eggs", Quantity: "4", Unit: ""},
			{Name: "bell pepper", Quantity: "1", Unit: ""},
			{Name: "onion", Quantity: "1/2", Unit: ""},
			{Name: "olive oil", Quantity: "1", Unit: "tbsp"},
		},
		Tags: []string{"breakfast", "quick"},
	},
	{
		Title:           "Chickpea Curry",
		Description:     "Creamy coconut chickpea curry",
		Instructions:    "Fry onion and spices, add chickpeas and coconut milk, simmer for 15 minutes.",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        4,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietVegan,
		Ingredients: []recipe.Ingredient{
			{Name: "chickpeas", Quantity: "400", Unit: "g"},
			{Name: "coconut milk", Quantity: "1", Unit: "cup"},
			{Name: "onion", Quantity: "1", Unit: ""},
			{Name: "curry powder", Quantity: "1", Unit: "tbsp"},
		},
		Tags: []string{"dinner", "vegan"},
	},
	{
		Title:           "Grilled Chicken Salad",
		Description:     "Grilled chicken breast over mixed greens",
		Instructions:    "Grill the chicken, slice it and serve over dressed greens.",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 15,
		Servings:        2,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietHighProtein,
		Ingredients: []recipe.Ingredient{
			{Name: "chicken breast", Quantity: "300", Unit: "g"},
			{Name: "lettuce", Quantity: "1", Unit: "head"},
			{Name: "tomato", Quantity: "2", Unit: ""},
			{Name: "olive oil", Quantity: "2", Unit: "tbsp"},
		},
		Tags: []string{"lunch", "salad"},
	},
	{
		Title:           "Zucchini Noodles with Pesto",
		Description:     "Spiralized zucchini with basil pesto",
		Instructions:    "Spiralize the zucchini, warm briefly in a pan and toss with pesto.",
		PrepTimeMinutes: 15,
		CookTimeMinutes: 5,
		Servings:        2,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietLowCarb,
		Ingredients: []recipe.Ingredient{
			{Name: "zucchini", Quantity: "3", Unit: ""},
			{Name: "basil", Quantity: "1", Unit: "cup"},
			{Name: "parmesan", Quantity: "50", Unit: "g"},
			{Name: "olive oil", Quantity: "3", Unit: "tbsp"},
		},
		Tags: []string{"dinner", "light"},
	},
	{
		Title:           "Baked Salmon with Vegetables",
		Description:     "Oven-baked salmon fillet with roasted vegetables",
		Instructions:    "Season the salmon, roast with the vegetables at 200C for 20 minutes.",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        2,
		Difficulty:      recipe.DifficultyMedium,
		DietType:        recipe.DietMediterranean,
		Ingredients: []recipe.Ingredient{
			{Name: "salmon", Quantity: "300", Unit: "g"},
			{Name: "broccoli", Quantity: "1", Unit: "head"},
			{Name: "carrot", Quantity: "2", Unit: ""},
			{Name: "lemon", Quantity: "1", Unit: ""},
		},
		Tags: []string{"dinner", "fish"},
	},
	{
		Title:           "Overnight Oats with Berries",
		Description:     "No-cook oats soaked in milk with fresh berries",
		Instructions:    "Mix oats with milk and honey, refrigerate overnight, top with berries.",
		PrepTimeMinutes: 5,
		Servings:        1,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietVegetarian,
		Ingredients: []recipe.Ingredient{
			{Name: "oats", Quantity: "1/2", Unit: "cup"},
			{Name: "milk", Quantity: "1", Unit: "cup"},
			{Name: "blueberry", Quantity: "1/2", Unit: "cup"},
			{Name: "honey", Quantity: "1", Unit: "tsp"},
		},
		Tags: []string{"breakfast", "no-cook"},
	},
	{
		Title:           "Quinoa Buddha Bowl",
		Description:     "Quinoa with roasted vegetables and tahini dressing",
		Instructions:    "Cook the quinoa, roast the vegetables and assemble with the dressing.",
		PrepTimeMinutes: 15,
		CookTimeMinutes: 25,
		Servings:        2,
		Difficulty:      recipe.DifficultyMedium,
		DietType:        recipe.DietVegan,
		Ingredients: []recipe.Ingredient{
			{Name: "quinoa", Quantity: "1", Unit: "cup"},
			{Name: "sweet potato", Quantity: "1", Unit: ""},
			{Name: "chickpeas", Quantity: "200", Unit: "g"},
			{Name: "spinach", Quantity: "2", Unit: "cups"},
		},
		Tags: []string{"lunch", "bowl"},
	},
	{
		Title:           "Beef Stir Fry",
		Description:     "Quick beef and vegetable stir fry",
		Instructions:    "Sear the beef strips, add vegetables and sauce, stir fry on high heat.",
		PrepTimeMinutes: 15,
		CookTimeMinutes: 10,
		Servings:        3,
		Difficulty:      recipe.DifficultyMedium,
		DietType:        recipe.DietHighProtein,
		Ingredients: []recipe.Ingredient{
			{Name: "beef", Quantity: "400", Unit: "g"},
			{Name: "broccoli", Quantity: "1", Unit: "head"},
			{Name: "soy sauce", Quantity: "3", Unit: "tbsp"},
			{Name: "ginger", Quantity: "1", Unit: "tbsp"},
		},
		Tags: []string{"dinner", "quick"},
	},
	{
		Title:           "Gluten-Free Banana Pancakes",
		Description:     "Three-ingredient banana and egg pancakes",
		Instructions:    "Mash the bananas, whisk in the eggs and fry small pancakes in butter.",
		PrepTimeMinutes: 5,
		CookTimeMinutes: 10,
		Servings:        2,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietGlutenFree,
		Ingredients: []recipe.Ingredient{
			{Name: "banana", Quantity: "2", Unit: ""},
			{Name: "eggs", Quantity: "2", Unit: ""},
			{Name: "butter", Quantity: "1", Unit: "tbsp"},
		},
		Tags: []string{"breakfast", "sweet"},
	},
}
