package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"chef-agent/internal/llm"
	"chef-agent/internal/planner"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
)

// maxToolCalls bounds one batch. Excess calls are dropped, not rejected.
const maxToolCalls = 10

// ErrRecipeNotFound marks a replacement query that matched nothing.
var ErrRecipeNotFound = errors.New("recipe not found")

// ToolCall is one requested operation.
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// ToolResult is the structured outcome of one call.
type ToolResult struct {
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

type toolFunc func(ctx context.Context, state *State, args map[string]any) (any, error)

// Executor runs tool batches against the stores. Calls run strictly in
// order because later calls may depend on earlier side effects.
type Executor struct {
	recipes  *recipe.Repository
	shopping *shopping.Repository
	logger   *slog.Logger
	handlers map[string]toolFunc
}

// NewExecutor creates an Executor over the given stores.
func NewExecutor(recipes *recipe.Repository, shoppingRepo *shopping.Repository, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{recipes: recipes, shopping: shoppingRepo, logger: logger}
	e.handlers = map[string]toolFunc{
		"search_recipes":              e.searchRecipes,
		"create_shopping_list":        e.createShoppingList,
		"add_to_shopping_list":        e.addToShoppingList,
		"get_shopping_list":           e.getShoppingList,
		"clear_shopping_list":         e.clearShoppingList,
		"replace_recipe_in_meal_plan": e.replaceRecipeInMealPlan,
	}
	return e
}

// Schemas describes the available tools for a chat model.
func (e *Executor) Schemas() []llm.ToolSchema {
	return []llm.ToolSchema{
		{
			Name:        "search_recipes",
			Description: "Search for recipes by keywords, tags, diet type, time limits and servings.",
			Parameters: map[string]string{
				"query":         "Free-text search over title, description and instructions",
				"tags":          "Comma-separated recipe tags",
				"diet_type":     "Diet type filter, e.g. vegetarian or low-carb",
				"max_prep_time": "Maximum preparation time in minutes",
				"max_cook_time": "Maximum cooking time in minutes",
				"servings":      "Desired number of servings",
				"limit":         "Maximum number of recipes to return",
			},
		},
		{
			Name:        "create_shopping_list",
			Description: "Create an empty shopping list for the current conversation.",
			Parameters:  map[string]string{"thread_id": "Conversation thread id"},
		},
		{
			Name:        "add_to_shopping_list",
			Description: "Add items to the conversation's shopping list, creating it if needed.",
			Parameters: map[string]string{
				"thread_id": "Conversation thread id",
				"items":     "JSON array of items with name, quantity and unit",
			},
		},
		{
			Name:        "get_shopping_list",
			Description: "Fetch the conversation's shopping list.",
			Parameters:  map[string]string{"thread_id": "Conversation thread id"},
		},
		{
			Name:        "clear_shopping_list",
			Description: "Remove every item from the conversation's shopping list.",
			Parameters:  map[string]string{"thread_id": "Conversation thread id"},
		},
		{
			Name:        "replace_recipe_in_meal_plan",
			Description: "Swap one meal of the current plan for a recipe matching a new query.",
			Parameters: map[string]string{
				"day_number": "Day of the plan to change",
				"meal_type":  "breakfast, lunch or dinner",
				"new_query":  "Search query for the replacement recipe",
				"diet_type":  "Optional diet type filter",
			},
		},
	}
}

// Execute runs the batch in order. A failing call never aborts the batch;
// every call gets a result and failures are summarized separately via
// FailureSummary.
func (e *Executor) Execute(ctx context.Context, state *State, calls []ToolCall) []ToolResult {
	if len(calls) > maxToolCalls {
		e.logger.Warn("truncating tool batch",
			"requested", len(calls), "limit", maxToolCalls)
		calls = calls[:maxToolCalls]
	}

	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, e.runOne(ctx, state, call))
	}
	return results
}

func (e *Executor) runOne(ctx context.Context, state *State, call ToolCall) (res ToolResult) {
	res = ToolResult{Name: call.Name}
	// A panicking tool fails its own call only; the rest of the batch
	// still runs.
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("tool panicked: %v", r)
			e.logger.Error("tool call panicked", "tool", call.Name, "panic", r)
		}
	}()

	handler, ok := e.handlers[call.Name]
	if !ok {
		res.Error = fmt.Sprintf("unknown tool %q", call.Name)
		return res
	}

	payload, err := handler(ctx, state, call.Args)
	if err != nil {
		res.Error = err.Error()
		e.logger.Warn("tool call failed", "tool", call.Name, "error", err)
		return res
	}
	res.Success = true
	res.Payload = payload
	return res
}

// FailureSummary aggregates the failed calls of a batch into one
// human-readable line, or "" when everything succeeded.
func FailureSummary(results []ToolResult) string {
	var failures []string
	for _, r := range results {
		if !r.Success {
			failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Error))
		}
	}
	if len(failures) == 0 {
		return ""
	}
	return fmt.Sprintf("%d of %d tool calls failed (%s)",
		len(failures), len(results), strings.Join(failures, "; "))
}

func (e *Executor) searchRecipes(ctx context.Context, state *State, args map[string]any) (any, error) {
	filter := recipe.Filter{
		Query:       argString(args, "query"),
		DietType:    recipe.DietType(argString(args, "diet_type")),
		MaxPrepTime: argInt(args, "max_prep_time"),
		MaxCookTime: argInt(args, "max_cook_time"),
		Servings:    argInt(args, "servings"),
		Limit:       argInt(args, "limit"),
		UserID:      state.UserID,
	}

	var (
		found []recipe.Recipe
		err   error
	)
	if tags := argStrings(args, "tags"); len(tags) > 0 {
		found, err = e.recipes.SearchByTags(ctx, tags, filter.Limit)
	} else {
		found, err = e.recipes.SearchRecipes(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	state.FoundRecipes = found
	return map[string]any{
		"recipes":     found,
		"total_found": len(found),
	}, nil
}

func (e *Executor) createShoppingList(ctx context.Context, state *State, args map[string]any) (any, error) {
	list := &shopping.List{ThreadID: e.threadID(state, args), UserID: state.UserID}
	if err := e.shopping.Save(ctx, list); err != nil {
		return nil, err
	}
	state.ShoppingList = list
	return map[string]any{"message": "shopping list created"}, nil
}

func (e *Executor) addToShoppingList(ctx context.Context, state *State, args map[string]any) (any, error) {
	items, err := argItems(args, "items")
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Category == "" {
			items[i].Category = shopping.Categorize(items[i].Name)
		}
	}

	threadID := e.threadID(state, args)
	if err := e.shopping.AddItems(ctx, threadID, state.UserID, items); err != nil {
		return nil, err
	}
	list, err := e.shopping.GetByThread(ctx, threadID, state.UserID)
	if err != nil {
		return nil, err
	}
	state.ShoppingList = list
	return map[string]any{"message": fmt.Sprintf("added %d items", len(items))}, nil
}

func (e *Executor) getShoppingList(ctx context.Context, state *State, args map[string]any) (any, error) {
	list, err := e.shopping.GetByThread(ctx, e.threadID(state, args), state.UserID)
	if err != nil {
		return nil, err
	}
	state.ShoppingList = list
	return map[string]any{"items": list.Items}, nil
}

func (e *Executor) clearShoppingList(ctx context.Context, state *State, args map[string]any) (any, error) {
	if err := e.shopping.Clear(ctx, e.threadID(state, args), state.UserID); err != nil {
		return nil, err
	}
	if state.ShoppingList != nil {
		state.ShoppingList.Items = nil
	}
	return map[string]any{"message": "shopping list cleared"}, nil
}

// replaceRecipeInMealPlan swaps one meal slot. A query with no matching
// recipe routes the conversation into the replacement-retry state with the
// slot remembered, so the next message can try a different query.
func (e *Executor) replaceRecipeInMealPlan(ctx context.Context, state *State, args map[string]any) (any, error) {
	if state.MenuPlan == nil {
		return nil, errors.New("no meal plan to modify")
	}
	day := argInt(args, "day_number")
	slot, ok := planner.ParseMealSlot(argString(args, "meal_type"))
	if !ok {
		return nil, fmt.Errorf("unknown meal type %q", argString(args, "meal_type"))
	}
	query := argString(args, "new_query")
	dietFilter := argString(args, "diet_type")

	// The diet filter is the conversation's goal, not an exact stored diet
	// type, so candidates are matched by query alone and then checked for
	// compatibility the way the generator filters its pool. A vegan recipe
	// named verbatim in a vegetarian conversation stays eligible.
	candidates, err := e.recipes.SearchRecipes(ctx, recipe.Filter{
		Query:  query,
		UserID: state.UserID,
		Limit:  5,
	})
	if err != nil {
		return nil, err
	}
	var match *recipe.Recipe
	for i := range candidates {
		if planner.GoalAccepts(dietFilter, candidates[i].DietType) {
			match = &candidates[i]
			break
		}
	}
	if match == nil {
		state.Conversation = StateWaitingForRecipeReplacement
		state.ReplacementContext = &ReplacementContext{
			Day:        day,
			MealSlot:   slot,
			DietFilter: dietFilter,
		}
		suggestions, _ := e.recipes.GetAll(ctx, 3, 0, state.UserID)
		titles := make([]string, 0, len(suggestions))
		for _, s := range suggestions {
			titles = append(titles, s.Title)
		}
		return map[string]any{"error_type": "recipe_not_found", "suggestions": titles},
			fmt.Errorf("%w for query %q", ErrRecipeNotFound, query)
	}

	newRecipe := *match
	if !state.MenuPlan.ReplaceMeal(day, slot, newRecipe) {
		return nil, fmt.Errorf("meal plan has no %s on day %d", slot, day)
	}
	state.ReplacementContext = nil
	return map[string]any{"new_recipe": newRecipe}, nil
}

func (e *Executor) threadID(state *State, args map[string]any) string {
	if id := argString(args, "thread_id"); id != "" {
		return id
	}
	return state.ThreadID
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func argStrings(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return nil
}

func argItems(args map[string]any, key string) ([]shopping.Item, error) {
	raw, ok := args[key]
	if !ok {
		return nil, errors.New("missing items argument")
	}
	switch v := raw.(type) {
	case []shopping.Item:
		return v, nil
	case []any:
		items := make([]shopping.Item, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unexpected item shape %T", entry)
			}
			items = append(items, shopping.Item{
				Name:     argString(m, "name"),
				Quantity: argString(m, "quantity"),
				Unit:     argString(m, "unit"),
				Category: argString(m, "category"),
			})
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unexpected items argument type %T", raw)
	}
}
