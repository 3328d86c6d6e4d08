package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"chef-agent/internal/agent"
	"chef-agent/internal/api"
	"chef-agent/internal/database"
	"chef-agent/internal/i18n"
	"chef-agent/internal/recipe"
	"chef-agent/internal/shopping"
)

func newTestServer(t *testing.T) (*api.Server, *recipe.Repository) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	recipes := recipe.NewRepository(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)
	checkpoints := agent.NewCheckpointStore(db.SQL)
	tr := i18n.NewTranslator("en")
	a := agent.New(checkpoints, recipes, shoppingRepo, tr, agent.Options{})

	return api.NewServer(a, recipes, shoppingRepo, nil), recipes
}

func TestChatGeneratesThreadID(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body := `{"message": "vegetarian for 4 days"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ThreadID string          `json:"thread_id"`
		Message  string          `json:"message"`
		MealPlan json.RawMessage `json:"meal_plan"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ThreadID == "" {
		t.Error("expected a generated thread id")
	}
	if len(resp.MealPlan) == 0 {
		t.Errorf("expected a meal plan, got message %q", resp.Message)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"thread_id": "t1"}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetRecipe(t *testing.T) {
	srv, recipes := newTestServer(t)
	saved := &recipe.Recipe{
		Title:        "Tomato Soup",
		DietType:     recipe.DietVegetarian,
		Instructions: "Simmer tomatoes.",
		Ingredients:  []recipe.Ingredient{{Name: "tomato", Quantity: "4"}},
	}
	if err := recipes.Save(context.Background(), saved); err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/recipes/1", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got recipe.Recipe
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode recipe: %v", err)
	}
	if got.Title != "Tomato Soup" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestGetRecipeNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/recipes/999", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetShoppingListAfterChat(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body := `{"thread_id": "t1", "message": "vegan for 3 days"}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/shopping-lists/t1", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("shopping list status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var list shopping.List
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list.Items) == 0 {
		t.Error("expected items on the derived shopping list")
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
