package agent

import (
	"fmt"

	"chef-agent/internal/planner"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
)

// ConversationState is the phase of a meal planning conversation.
type ConversationState string

const (
	StateInitial                     ConversationState = "initial"
	StateWaitingForDiet              ConversationState = "waiting_for_diet"
	StateWaitingForDays              ConversationState = "waiting_for_days"
	StateGeneratingPlan              ConversationState = "generating_plan"
	StateWaitingForRecipeReplacement ConversationState = "waiting_for_recipe_replacement"
	StateCompleted                   ConversationState = "completed"
)

var knownStates = map[ConversationState]bool{
	StateInitial:                     true,
	StateWaitingForDiet:              true,
	StateWaitingForDays:              true,
	StateGeneratingPlan:              true,
	StateWaitingForRecipeReplacement: true,
	StateCompleted:                   true,
}

// maxMessages caps the stored transcript. When exceeded, the first message
// is kept and the middle is dropped.
const maxMessages = 100

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReplacementContext remembers which meal slot a failed replacement was
// aimed at so the next user message can retry it.
type ReplacementContext struct {
	Day        int              `json:"day"`
	MealSlot   planner.MealSlot `json:"meal_slot"`
	DietFilter string           `json:"diet_filter,omitempty"`
}

// State is the persisted conversation state for one thread.
type State struct {
	ThreadID           string              `json:"thread_id"`
	UserID             string              `json:"user_id,omitempty"`
	Messages           []ChatMessage       `json:"messages,omitempty"`
	Conversation       ConversationState   `json:"conversation_state"`
	DietGoal           string              `json:"diet_goal,omitempty"`
	DaysCount          int                 `json:"days_count,omitempty"`
	FoundRecipes       []recipe.Recipe     `json:"found_recipes,omitempty"`
	MenuPlan           *planner.MealPlan   `json:"menu_plan,omitempty"`
	ShoppingList       *shopping.List      `json:"shopping_list,omitempty"`
	FallbackUsed       bool                `json:"fallback_used,omitempty"`
	SearchAttempts     int                 `json:"search_attempts,omitempty"`
	ReplacementContext *ReplacementContext `json:"replacement_context,omitempty"`
	Language           string              `json:"language,omitempty"`
	Error              string              `json:"error,omitempty"`
}

// NewState creates a fresh conversation state for a thread.
func NewState(threadID, language, userID string) *State {
	return &State{
		ThreadID:     threadID,
		UserID:       userID,
		Language:     language,
		Conversation: StateInitial,
	}
}

// AddMessage appends a transcript entry, trimming the middle of the
// transcript once it exceeds the cap. The first message survives trimming.
func (s *State) AddMessage(role, content string) {
	s.Messages = append(s.Messages, ChatMessage{Role: role, Content: content})
	if len(s.Messages) <= maxMessages {
		return
	}
	trimmed := make([]ChatMessage, 0, maxMessages)
	trimmed = append(trimmed, s.Messages[0])
	trimmed = append(trimmed, s.Messages[len(s.Messages)-(maxMessages-1):]...)
	s.Messages = trimmed
}

// validate rejects field combinations inconsistent with the current state,
// so a corrupt checkpoint is caught at load time instead of surfacing as
// odd behavior turns later.
func (s *State) validate() error {
	if s.ThreadID == "" {
		return fmt.Errorf("conversation state has no thread id")
	}
	if !knownStates[s.Conversation] {
		return fmt.Errorf("unknown conversation state %q", s.Conversation)
	}
	if s.DaysCount != 0 && (s.DaysCount < planner.MinDays || s.DaysCount > planner.MaxDays) {
		return fmt.Errorf("day count %d is outside %d..%d", s.DaysCount, planner.MinDays, planner.MaxDays)
	}
	switch s.Conversation {
	case StateWaitingForDays:
		if s.DietGoal == "" {
			return fmt.Errorf("waiting for days without a diet goal")
		}
	case StateWaitingForRecipeReplacement:
		if s.ReplacementContext == nil {
			return fmt.Errorf("waiting for recipe replacement without context")
		}
		if s.MenuPlan == nil {
			return fmt.Errorf("waiting for recipe replacement without a meal plan")
		}
	case StateCompleted:
		if s.MenuPlan == nil {
			return fmt.Errorf("completed conversation without a meal plan")
		}
	}
	return nil
}
