// Package api exposes the agent over HTTP. The surface is intentionally
// small: one chat endpoint driving the conversation, read endpoints for
// recipes and shopping lists, and a health probe.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"chef-agent/internal/agent"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"

	"github.com/google/uuid"
)

// Server routes HTTP requests to the agent and repositories.
type Server struct {
	agent    *agent.Agent
	recipes  *recipe.Repository
	shopping *shopping.Repository
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(a *agent.Agent, recipes *recipe.Repository, shoppingRepo *shopping.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{agent: a, recipes: recipes, shopping: shoppingRepo, logger: logger}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("GET /recipes", s.handleListRecipes)
	mux.HandleFunc("GET /recipes/{id}", s.handleGetRecipe)
	mux.HandleFunc("GET /shopping-lists/{thread}", s.handleGetShoppingList)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

type chatRequest struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
	Language string `json:"language"`
	UserID   string `json:"user_id"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	// A missing thread id starts a new conversation.
	if req.ThreadID == "" {
		req.ThreadID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = "default"
	}

	resp, err := s.agent.Process(r.Context(), req.ThreadID, req.Message, req.Language, req.UserID)
	if err != nil {
		s.logger.Error("chat turn failed", "thread_id", req.ThreadID, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	var (
		recipes []recipe.Recipe
		err     error
	)
	if dt := q.Get("diet_type"); dt != "" {
		parsed, perr := recipe.ParseDietType(dt)
		if perr != nil {
			s.writeError(w, http.StatusBadRequest, perr.Error())
			return
		}
		recipes, err = s.recipes.SearchByDietType(r.Context(), parsed, limit)
	} else {
		recipes, err = s.recipes.GetAll(r.Context(), limit, offset, q.Get("user_id"))
	}
	if err != nil {
		s.logger.Error("failed to list recipes", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"recipes": recipes})
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid recipe id")
		return
	}
	rec, err := s.recipes.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "recipe not found")
			return
		}
		s.logger.Error("failed to get recipe", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetShoppingList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "default"
	}
	list, err := s.shopping.GetByThread(r.Context(), r.PathValue("thread"), userID)
	if err != nil {
		if errors.Is(err, shopping.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "shopping list not found")
			return
		}
		s.logger.Error("failed to get shopping list", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
