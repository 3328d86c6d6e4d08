package recipe

import (
	"encoding/json"
	"fmt"
)

// ingredientsCodecVersion tags the JSON blob stored in recipe_ingredients so a
// future schema change has an explicit migration path instead of
// parse-with-fallback.
const ingredientsCodecVersion = 1

type ingredientsEnvelope struct {
	Version int          `json:"v"`
	Items   []Ingredient `json:"items"`
}

func encodeIngredients(items []Ingredient) (string, error) {
	if items == nil {
		items = []Ingredient{}
	}
	data, err := json.Marshal(ingredientsEnvelope{Version: ingredientsCodecVersion, Items: items})
	if err != nil {
		return "", fmt.Errorf("failed to encode ingredients: %w", err)
	}
	return string(data), nil
}

func decodeIngredients(data string) ([]Ingredient, error) {
	if data == "" {
		return nil, nil
	}
	var env ingredientsEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	if env.Version != ingredientsCodecVersion {
		return nil, fmt.Errorf("unsupported ingredients codec version %d", env.Version)
	}
	return env.Items, nil
}
