package recipe_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"chef-agent/internal/database"
	"chef-agent/internal/recipe"
)

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

func sampleRecipe(title string) *recipe.Recipe {
	return &recipe.Recipe{
		Title:           title,
		Description:     "A quick weeknight dinner",
		Instructions:    "Chop everything, cook it, serve.",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        4,
		Difficulty:      recipe.DifficultyEasy,
		DietType:        recipe.DietVegetarian,
		Ingredients: []recipe.Ingredient{
			{Name: "tomato", Quantity: "2", Unit: "pieces"},
			{Name: "pasta", Quantity: "200", Unit: "g"},
		},
		Tags: []string{"dinner", "quick"},
	}
}

func TestRepositorySaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := sampleRecipe("Tomato Pasta")
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected Save to set the recipe ID")
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Title != "Tomato Pasta" {
		t.Errorf("title = %q, want %q", got.Title, "Tomato Pasta")
	}
	if got.DietType != recipe.DietVegetarian {
		t.Errorf("diet type = %q, want %q", got.DietType, recipe.DietVegetarian)
	}
	if len(got.Ingredients) != 2 {
		t.Fatalf("ingredients = %d, want 2", len(got.Ingredients))
	}
	if got.Ingredients[1].Name != "pasta" {
		t.Errorf("second ingredient = %q, want %q", got.Ingredients[1].Name, "pasta")
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags = %d, want 2", len(got.Tags))
	}
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetByID(context.Background(), 9999)
	if !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryDuplicateTitle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.Save(ctx, sampleRecipe("Lentil Soup")); err != nil {
		t.Fatalf("first Save returned error: %v", err)
	}

	err := repo.Save(ctx, sampleRecipe("Lentil Soup"))
	if !recipe.IsDuplicate(err) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	// Same title under a different user is allowed.
	other := sampleRecipe("Lentil Soup")
	other.UserID = "user-2"
	if err := repo.Save(ctx, other); err != nil {
		t.Fatalf("Save for other user returned error: %v", err)
	}
}

func TestRepositoryConcurrentCreates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Save(ctx, sampleRecipe("Shakshuka"))
		}(i)
	}
	wg.Wait()

	var created, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case recipe.IsDuplicate(err):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if duplicates != workers-1 {
		t.Errorf("duplicates = %d, want %d", duplicates, workers-1)
	}
}

func TestRepositoryUpdateReplacesIngredientsAndTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := sampleRecipe("Green Curry")
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	rec.Description = "Now with extra vegetables"
	rec.Ingredients = []recipe.Ingredient{{Name: "broccoli", Quantity: "1", Unit: "head"}}
	rec.Tags = []string{"spicy"}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("update Save returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Description != "Now with extra vegetables" {
		t.Errorf("description not updated: %q", got.Description)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0].Name != "broccoli" {
		t.Errorf("ingredients not replaced: %+v", got.Ingredients)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "spicy" {
		t.Errorf("tags not replaced: %+v", got.Tags)
	}
}

func TestRepositoryUpdateMissingRecipe(t *testing.T) {
	repo := newTestRepository(t)

	rec := sampleRecipe("Ghost Dish")
	rec.ID = 4242
	err := repo.Save(context.Background(), rec)
	if !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositorySearchByDietType(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	vegan := sampleRecipe("Chickpea Bowl")
	vegan.DietType = recipe.DietVegan
	for _, rec := range []*recipe.Recipe{sampleRecipe("Veggie Lasagna"), vegan} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	found, err := repo.SearchByDietType(ctx, recipe.DietVegan, 10)
	if err != nil {
		t.Fatalf("SearchByDietType returned error: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Chickpea Bowl" {
		t.Fatalf("unexpected results: %+v", found)
	}
}

func TestRepositorySearchByKeywords(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	for _, title := range []string{"Mushroom Risotto", "Beef Stew"} {
		if err := repo.Save(ctx, sampleRecipe(title)); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	found, err := repo.SearchByKeywords(ctx, []string{"risotto"}, 10)
	if err != nil {
		t.Fatalf("SearchByKeywords returned error: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Mushroom Risotto" {
		t.Fatalf("unexpected results: %+v", found)
	}

	// LIKE wildcards in the keyword must not match everything.
	found, err = repo.SearchByKeywords(ctx, []string{"%"}, 10)
	if err != nil {
		t.Fatalf("SearchByKeywords returned error: %v", err)
	}
	if len(found) != 0 {
		t.Fatalf("wildcard keyword matched %d recipes, want 0", len(found))
	}
}

func TestRepositorySearchByTags(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	spicy := sampleRecipe("Harissa Chicken")
	spicy.Tags = []string{"spicy"}
	for _, rec := range []*recipe.Recipe{sampleRecipe("Plain Rice"), spicy} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	found, err := repo.SearchByTags(ctx, []string{"spicy", "smoky"}, 10)
	if err != nil {
		t.Fatalf("SearchByTags returned error: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Harissa Chicken" {
		t.Fatalf("unexpected results: %+v", found)
	}
}

func TestRepositorySearchRecipesFilter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	quick := sampleRecipe("Quick Salad")
	quick.PrepTimeMinutes = 5
	quick.CookTimeMinutes = 0
	slow := sampleRecipe("Slow Roast")
	slow.PrepTimeMinutes = 30
	slow.CookTimeMinutes = 180
	for _, rec := range []*recipe.Recipe{quick, slow} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	found, err := repo.SearchRecipes(ctx, recipe.Filter{MaxPrepTime: 10})
	if err != nil {
		t.Fatalf("SearchRecipes returned error: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Quick Salad" {
		t.Fatalf("unexpected results: %+v", found)
	}

	// Servings filter matches within a 25% window.
	found, err = repo.SearchRecipes(ctx, recipe.Filter{Servings: 4})
	if err != nil {
		t.Fatalf("SearchRecipes returned error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("servings window matched %d recipes, want 2", len(found))
	}

	if _, err := repo.SearchRecipes(ctx, recipe.Filter{DietType: "carnivore"}); err == nil {
		t.Fatal("expected error for unknown diet type")
	}
}

func TestRepositoryDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	rec := sampleRecipe("Doomed Dish")
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	removed, err := repo.Delete(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if !removed {
		t.Fatal("expected Delete to report removal")
	}

	if _, err := repo.GetByID(ctx, rec.ID); !errors.Is(err, recipe.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	removed, err = repo.Delete(ctx, rec.ID)
	if err != nil {
		t.Fatalf("second Delete returned error: %v", err)
	}
	if removed {
		t.Fatal("second Delete should report nothing removed")
	}
}
