// Package agent drives the meal planning conversation: it tracks per-thread
// state, extracts intent from user messages, runs tool batches and composes
// the reply.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chef-agent/internal/i18n"
	"chef-agent/internal/llm"
	"chef-agent/internal/metrics"
	"chef-agent/internal/planner"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
)

const (
	defaultTurnTimeout = 45 * time.Second
	defaultLLMTimeout  = 20 * time.Second
	maxSearchAttempts  = 2
	agentName          = "chef"
)

// Response is the outcome of one conversation turn.
type Response struct {
	ThreadID     string            `json:"thread_id"`
	Message      string            `json:"message"`
	MealPlan     *planner.MealPlan `json:"meal_plan,omitempty"`
	ShoppingList *shopping.List    `json:"shopping_list,omitempty"`
}

// Options configures optional Agent collaborators.
type Options struct {
	Model       llm.ChatModel // nil disables model consultation
	Metrics     *metrics.Store
	Logger      *slog.Logger
	TurnTimeout time.Duration
	LLMTimeout  time.Duration
}

// Agent processes conversation turns. All collaborators are injected; the
// agent holds no global state beyond its dependencies.
type Agent struct {
	checkpoints *CheckpointStore
	executor    *Executor
	recipes     *recipe.Repository
	shopping    *shopping.Repository
	composer    *Composer
	tr          *i18n.Translator
	model       llm.ChatModel
	metrics     *metrics.Store
	logger      *slog.Logger
	turnTimeout time.Duration
	llmTimeout  time.Duration
}

// New creates an Agent.
func New(
	checkpoints *CheckpointStore,
	recipes *recipe.Repository,
	shoppingRepo *shopping.Repository,
	tr *i18n.Translator,
	opts Options,
) *Agent {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	turnTimeout := opts.TurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = defaultTurnTimeout
	}
	llmTimeout := opts.LLMTimeout
	if llmTimeout <= 0 {
		llmTimeout = defaultLLMTimeout
	}
	return &Agent{
		checkpoints: checkpoints,
		executor:    NewExecutor(recipes, shoppingRepo, logger),
		recipes:     recipes,
		shopping:    shoppingRepo,
		composer:    NewComposer(tr),
		tr:          tr,
		model:       opts.Model,
		metrics:     opts.Metrics,
		logger:      logger,
		turnTimeout: turnTimeout,
		llmTimeout:  llmTimeout,
	}
}

// Process runs one conversation turn. Every failure mode resolves to a
// user-facing message: a timeout produces the try-again message, anything
// else the generic apology. The checkpoint is only written when the turn
// succeeds, so a failed turn never leaves a half-updated state behind.
func (a *Agent) Process(ctx context.Context, threadID, message, language, userID string) (resp *Response, err error) {
	ctx, cancel := context.WithTimeout(ctx, a.turnTimeout)
	defer cancel()

	state, loadErr := a.loadState(ctx, threadID, language, userID)
	if loadErr != nil {
		a.logger.Error("failed to load conversation state", "thread_id", threadID, "error", loadErr)
		if llm.IsTimeout(loadErr) || ctx.Err() != nil {
			return &Response{ThreadID: threadID, Message: a.composer.TryAgain(language)}, nil
		}
		return &Response{ThreadID: threadID, Message: a.composer.Apology(language)}, nil
	}
	if language != "" {
		state.Language = language
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("turn panicked", "thread_id", threadID, "panic", r)
			resp = &Response{ThreadID: threadID, Message: a.composer.Apology(state.Language)}
			err = nil
		}
	}()

	if isClearRequest(message) {
		return a.clearConversation(ctx, state)
	}

	state.AddMessage(llm.RoleUser, message)
	reply, turnErr := a.handleTurn(ctx, state, message)
	if turnErr != nil {
		if llm.IsTimeout(turnErr) || ctx.Err() != nil {
			a.logger.Warn("turn timed out", "thread_id", threadID)
			return &Response{ThreadID: threadID, Message: a.composer.TryAgain(state.Language)}, nil
		}
		a.logger.Error("turn failed", "thread_id", threadID, "error", turnErr)
		state.Error = turnErr.Error()
		return &Response{ThreadID: threadID, Message: a.composer.Apology(state.Language)}, nil
	}

	state.Error = ""
	state.AddMessage(llm.RoleAssistant, reply)
	if err := a.checkpoints.Save(ctx, state); err != nil {
		a.logger.Error("failed to save checkpoint", "thread_id", threadID, "error", err)
		return &Response{ThreadID: threadID, Message: a.composer.Apology(state.Language)}, nil
	}

	return &Response{
		ThreadID:     threadID,
		Message:      reply,
		MealPlan:     state.MenuPlan,
		ShoppingList: state.ShoppingList,
	}, nil
}

func (a *Agent) loadState(ctx context.Context, threadID, language, userID string) (*State, error) {
	state, err := a.checkpoints.Load(ctx, threadID)
	if errors.Is(err, ErrCheckpointNotFound) {
		return NewState(threadID, language, userID), nil
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (a *Agent) clearConversation(ctx context.Context, state *State) (*Response, error) {
	if err := a.checkpoints.Delete(ctx, state.ThreadID); err != nil {
		return nil, err
	}
	if _, err := a.shopping.Delete(ctx, state.ThreadID, state.UserID); err != nil {
		return nil, err
	}
	return &Response{
		ThreadID: state.ThreadID,
		Message:  a.composer.Cleared(state.Language),
	}, nil
}

func (a *Agent) handleTurn(ctx context.Context, state *State, message string) (string, error) {
	switch state.Conversation {
	case StateInitial, StateWaitingForDiet:
		return a.handleDietInput(ctx, state, message)
	case StateWaitingForDays:
		return a.handleDaysInput(ctx, state, message)
	case StateWaitingForRecipeReplacement:
		return a.handleReplacementRetry(ctx, state, message)
	case StateCompleted:
		return a.handleCompleted(ctx, state, message)
	default:
		return "", fmt.Errorf("cannot handle conversation state %q", state.Conversation)
	}
}

// handleDietInput covers INITIAL and WAITING_FOR_DIET. A message carrying
// both a diet goal and a valid day count jumps straight to plan generation.
func (a *Agent) handleDietInput(ctx context.Context, state *State, message string) (string, error) {
	goal, found := ExtractDietGoal(message)
	if !found {
		if state.Conversation == StateInitial {
			state.Conversation = StateWaitingForDiet
			return a.composer.Welcome(state.Language), nil
		}
		return a.composer.AskDiet(state.Language), nil
	}

	state.DietGoal = goal
	n, status := ExtractDays(message)
	switch status {
	case DaysFound:
		state.DaysCount = n
		return a.generatePlan(ctx, state)
	case DaysTooFew, DaysTooMany:
		state.Conversation = StateWaitingForDays
		return a.composer.DaysClarification(state.Language, n, status), nil
	default:
		state.Conversation = StateWaitingForDays
		return a.composer.AskDays(state.Language), nil
	}
}

func (a *Agent) handleDaysInput(ctx context.Context, state *State, message string) (string, error) {
	n, status := ExtractDays(message)
	if status != DaysFound {
		return a.composer.DaysClarification(state.Language, n, status), nil
	}
	state.DaysCount = n
	return a.generatePlan(ctx, state)
}

// handleReplacementRetry retries the remembered meal slot with the new
// message as search query.
func (a *Agent) handleReplacementRetry(ctx context.Context, state *State, message string) (string, error) {
	rc := state.ReplacementContext
	if rc == nil {
		state.Conversation = StateCompleted
		return a.composer.Apology(state.Language), nil
	}
	return a.replaceMeal(ctx, state, rc.Day, rc.MealSlot, message, rc.DietFilter)
}

// handleCompleted covers follow-ups after a plan exists: meal swaps, a
// brand-new plan request, or a free-form question for the model.
func (a *Agent) handleCompleted(ctx context.Context, state *State, message string) (string, error) {
	if day, slot, ok := parseReplacementRequest(message); ok {
		return a.replaceMeal(ctx, state, day, slot, message, state.DietGoal)
	}

	if goal, found := ExtractDietGoal(message); found {
		// Starting over with a new goal resets the plan-related fields.
		state.DietGoal = goal
		state.DaysCount = 0
		state.MenuPlan = nil
		state.ShoppingList = nil
		state.FoundRecipes = nil
		state.FallbackUsed = false
		state.SearchAttempts = 0
		if n, status := ExtractDays(message); status == DaysFound {
			state.DaysCount = n
			return a.generatePlan(ctx, state)
		}
		state.Conversation = StateWaitingForDays
		return a.composer.AskDays(state.Language), nil
	}

	if reply, ok := a.consultModel(ctx, state, message); ok {
		return reply, nil
	}
	return a.composer.PlanMessage(state), nil
}

func (a *Agent) replaceMeal(ctx context.Context, state *State, day int, slot planner.MealSlot, query, dietFilter string) (string, error) {
	results := a.executor.Execute(ctx, state, []ToolCall{{
		Name: "replace_recipe_in_meal_plan",
		Args: map[string]any{
			"day_number": day,
			"meal_type":  string(slot),
			"new_query":  query,
			"diet_type":  dietFilter,
		},
	}})

	res := results[0]
	if res.Success {
		state.Conversation = StateCompleted
		meal := state.MenuPlan.FindMeal(day, slot)
		title := ""
		if meal != nil {
			title = meal.Recipe.Title
		}
		return a.composer.ReplacementDone(state.Language, title, day, slot), nil
	}

	// The executor already routed the state machine for a missing recipe;
	// anything else is a real failure.
	if state.Conversation == StateWaitingForRecipeReplacement && state.ReplacementContext != nil {
		return a.composer.ReplacementPrompt(state.Language, state.ReplacementContext), nil
	}
	return "", errors.New(res.Error)
}

// generatePlan runs the GENERATING_PLAN phase: gather a recipe pool with
// bounded search attempts, fall back to creating starter recipes, generate
// the plan and derive the shopping list.
func (a *Agent) generatePlan(ctx context.Context, state *State) (string, error) {
	state.Conversation = StateGeneratingPlan

	// Searching goes through the tool executor like any other recipe
	// lookup. The first attempt filters by the mapped diet type, the second
	// widens to every stored recipe. The attempt counter persists across
	// turns so a retried generation does not search forever.
	pool := state.FoundRecipes
	for len(pool) == 0 && state.SearchAttempts < maxSearchAttempts {
		state.SearchAttempts++
		args := map[string]any{"limit": 50}
		if dt := planner.DietTypeForGoal(state.DietGoal); state.SearchAttempts == 1 && dt != "" {
			args["diet_type"] = string(dt)
		}
		results := a.executor.Execute(ctx, state, []ToolCall{{Name: "search_recipes", Args: args}})
		if !results[0].Success {
			return "", errors.New(results[0].Error)
		}
		pool = state.FoundRecipes
	}

	if len(pool) == 0 {
		seeded, err := a.seedStarterRecipes(ctx, state)
		if err != nil {
			return "", err
		}
		pool = seeded
	}
	state.FoundRecipes = pool

	plan, usedFallback, err := planner.Generate(pool, state.DietGoal, state.DaysCount, nil)
	if err != nil {
		return "", err
	}
	state.MenuPlan = plan
	state.FallbackUsed = usedFallback

	if err := a.buildShoppingList(ctx, state); err != nil {
		return "", err
	}

	state.Conversation = StateCompleted
	return a.composer.PlanMessage(state), nil
}

// buildShoppingList collects every plan ingredient into the thread's
// shopping list, categorized by store section.
func (a *Agent) buildShoppingList(ctx context.Context, state *State) error {
	var items []shopping.Item
	for _, day := range state.MenuPlan.Days {
		for _, meal := range day.Meals {
			for _, ing := range meal.Recipe.Ingredients {
				items = append(items, shopping.Item{
					Name:     ing.Name,
					Quantity: ing.Quantity,
					Unit:     ing.Unit,
					Category: shopping.Categorize(ing.Name),
				})
			}
		}
	}

	list := &shopping.List{
		ThreadID: state.ThreadID,
		UserID:   state.UserID,
		Items:    items,
	}
	if err := a.shopping.Save(ctx, list); err != nil {
		return err
	}
	state.ShoppingList = list
	return nil
}

// consultModel asks the chat model for a free-form answer, executing any
// tool calls it requests. The model is strictly best-effort: a missing
// client or a failed call just reports not-ok.
func (a *Agent) consultModel(ctx context.Context, state *State, message string) (string, bool) {
	if a.model == nil {
		return "", false
	}
	ctx, cancel := context.WithTimeout(ctx, a.llmTimeout)
	defer cancel()

	messages := []llm.Message{{Role: llm.RoleSystem, Content: a.tr.SystemPrompt(state.Language)}}
	for _, m := range transcriptTail(state.Messages, 20) {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	started := time.Now()
	reply, err := a.model.Chat(ctx, messages, a.executor.Schemas())
	if err != nil {
		a.logger.Warn("model consultation failed", "thread_id", state.ThreadID, "error", err)
		return "", false
	}
	a.recordUsage(ctx, reply, time.Since(started))

	if len(reply.ToolCalls) > 0 {
		calls := make([]ToolCall, 0, len(reply.ToolCalls))
		for _, tc := range reply.ToolCalls {
			calls = append(calls, ToolCall{Name: tc.Name, Args: tc.Args})
		}
		results := a.executor.Execute(ctx, state, calls)
		if summary := FailureSummary(results); summary != "" {
			a.logger.Warn("tool batch had failures", "thread_id", state.ThreadID, "summary", summary)
		}
	}

	if strings.TrimSpace(reply.Content) == "" {
		return "", false
	}
	return reply.Content, true
}

func (a *Agent) recordUsage(ctx context.Context, reply *llm.Reply, latency time.Duration) {
	if a.metrics == nil {
		return
	}
	err := a.metrics.Record(ctx, metrics.Execution{
		AgentName:        agentName,
		Model:            reply.Model,
		PromptTokens:     reply.Usage.PromptTokens,
		CompletionTokens: reply.Usage.CompletionTokens,
		Latency:          latency,
	})
	if err != nil {
		a.logger.Warn("failed to record model usage", "error", err)
	}
}

func transcriptTail(messages []ChatMessage, n int) []ChatMessage {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// parseReplacementRequest detects phrasing like "replace the dinner on day 2"
// in a completed conversation. Both a swap keyword and a meal slot are
// required; the day defaults to 1 when none is named.
func parseReplacementRequest(message string) (int, planner.MealSlot, bool) {
	lower := strings.ToLower(message)

	hasVerb := false
	for _, verb := range []string{"replace", "swap", "change", "different", "another"} {
		if strings.Contains(lower, verb) {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		return 0, "", false
	}

	var slot planner.MealSlot
	for _, s := range []planner.MealSlot{planner.SlotBreakfast, planner.SlotLunch, planner.SlotDinner} {
		if strings.Contains(lower, string(s)) {
			slot = s
			break
		}
	}
	if slot == "" {
		return 0, "", false
	}

	day := 1
	tokens := tokenize(lower)
	for i, tok := range tokens {
		if tok != "day" {
			continue
		}
		if i+1 < len(tokens) {
			if n, ok := parseSmallNumber(tokens[i+1]); ok {
				day = n
				break
			}
		}
		if i > 0 {
			if n, ok := parseSmallNumber(tokens[i-1]); ok {
				day = n
				break
			}
		}
	}
	return day, slot, true
}

func parseSmallNumber(tok string) (int, bool) {
	if n, ok := wordNumbers[tok]; ok {
		return n, true
	}
	var n int
	if _, err := fmt.Sscanf(tok, "%d", &n); err == nil {
		return n, true
	}
	return 0, false
}
