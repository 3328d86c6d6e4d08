package clipper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"chef-agent/internal/database"
	"chef-agent/internal/llm"
	"chef-agent/internal/recipe"
)

// --- Mocks ---

type MockChatModel struct {
	Response    string
	ShouldError bool
}

func (m *MockChatModel) Chat(ctx context.Context, messages []llm.Message, tools []llm.ToolSchema) (*llm.Reply, error) {
	if m.ShouldError {
		return nil, fmt.Errorf("mock ai error")
	}
	return &llm.Reply{Content: m.Response}, nil
}

func newTestRepository(t *testing.T) *recipe.Repository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return recipe.NewRepository(db.SQL)
}

const fixtureHTML = `
<html>
	<head><script>alert('bad');</script></head>
	<body>
		<h1>Tomato Pasta</h1>
		<div class="ads">Buy stuff!</div>
		<p>A simple weeknight pasta.</p>
		<ul><li>200 g pasta</li><li>2 tomatoes</li></ul>
		<script>more_bad_stuff()</script>
		<footer>Copyright 2024</footer>
	</body>
</html>`

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureHTML))
	}))
	defer ts.Close()

	c := NewClipper(newTestRepository(t), &MockChatModel{})

	cleanText, err := c.fetchAndCleanHTML(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("fetchAndCleanHTML returned error: %v", err)
	}

	if strings.Contains(cleanText, "alert('bad')") {
		t.Error("script content not removed")
	}
	if strings.Contains(cleanText, "Buy stuff!") {
		t.Error(".ads content not removed")
	}
	if strings.Contains(cleanText, "Copyright 2024") {
		t.Error("footer content not removed")
	}
	if !strings.Contains(cleanText, "Tomato Pasta") {
		t.Error("page text lost")
	}
}

func TestClipURLSavesRecipe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureHTML))
	}))
	defer ts.Close()

	model := &MockChatModel{Response: `{
		"title": "Tomato Pasta",
		"description": "A simple weeknight pasta",
		"ingredients": ["200 g pasta", "2 tomatoes", "1 tbsp olive oil"],
		"steps": ["Boil the pasta.", "Make the sauce.", "Combine."],
		"prep_time_minutes": 10,
		"cook_time_minutes": 15,
		"servings": 2,
		"diet_type": "vegetarian",
		"tags": ["dinner", "quick"]
	}`}
	repo := newTestRepository(t)
	c := NewClipper(repo, model)

	rec, err := c.ClipURL(context.Background(), ts.URL, "user-1")
	if err != nil {
		t.Fatalf("ClipURL returned error: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("clipped recipe was not saved")
	}

	stored, err := repo.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Title != "Tomato Pasta" || stored.DietType != recipe.DietVegetarian {
		t.Errorf("unexpected stored recipe: %+v", stored)
	}
	if len(stored.Ingredients) != 3 {
		t.Fatalf("ingredients = %d, want 3", len(stored.Ingredients))
	}
	first := stored.Ingredients[0]
	if first.Name != "pasta" || first.Quantity != "200" || first.Unit != "g" {
		t.Errorf("ingredient line not parsed: %+v", first)
	}
}

func TestClipURLRejectsNonRecipePage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>Nothing to cook here.</p></body></html>"))
	}))
	defer ts.Close()

	model := &MockChatModel{Response: `{"title": "", "steps": []}`}
	c := NewClipper(newTestRepository(t), model)

	if _, err := c.ClipURL(context.Background(), ts.URL, ""); err == nil {
		t.Fatal("expected error for a page without a recipe")
	}
}

func TestClipURLModelFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixtureHTML))
	}))
	defer ts.Close()

	c := NewClipper(newTestRepository(t), &MockChatModel{ShouldError: true})

	if _, err := c.ClipURL(context.Background(), ts.URL, ""); err == nil {
		t.Fatal("expected error when the model fails")
	}
}

func TestStripCodeFence(t *testing.T) {
	fenced := "```json\n{\"title\":\"x\"}\n```"
	if got := stripCodeFence(fenced); got != `{"title":"x"}` {
		t.Errorf("stripCodeFence = %q", got)
	}
	plain := `{"title":"x"}`
	if got := stripCodeFence(plain); got != plain {
		t.Errorf("stripCodeFence altered plain input: %q", got)
	}
}
