package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Repository is a SQLite-backed store for recipes.
//
// A per-repository mutex narrows the check-then-insert window for the
// (title, user_id) natural key, but the database UNIQUE constraint is the
// actual source of truth under true concurrency, including across processes.
type Repository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Filter holds the optional criteria for SearchRecipes.
type Filter struct {
	Query       string
	DietType    DietType
	Difficulty  Difficulty
	MaxPrepTime int
	MaxCookTime int
	Servings    int
	UserID      string
	Limit       int
}

const recipeColumns = `r.id, r.title, r.description, r.instructions,
	r.prep_time_minutes, r.cook_time_minutes, r.servings, r.difficulty,
	r.diet_type, r.user_id, r.created_at, r.updated_at, ri.ingredients`

const recipeBaseQuery = `SELECT ` + recipeColumns + `
	FROM recipes r
	LEFT JOIN recipe_ingredients ri ON r.id = ri.recipe_id`

// Save creates the recipe when its ID is zero, otherwise updates it in place.
// Creation inserts the recipe, its ingredients and its tags as one
// transaction; update fully replaces ingredients and tags.
func (r *Repository) Save(ctx context.Context, rec *Recipe) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if rec.ID == 0 {
		err = r.create(ctx, tx, rec)
	} else {
		err = r.update(ctx, tx, rec)
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe: %w", err)
	}
	return nil
}

func (r *Repository) create(ctx context.Context, tx *sql.Tx, rec *Recipe) error {
	// Pre-check keeps the common collision readable; the UNIQUE constraint
	// catches the race the check cannot.
	var existing int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM recipes WHERE title = ? AND user_id = ?`,
		rec.Title, rec.UserID,
	).Scan(&existing)
	if err == nil {
		return &DuplicateError{Title: rec.Title, UserID: rec.UserID}
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("failed to check for duplicate recipe: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO recipes (
			title, description, instructions, prep_time_minutes,
			cook_time_minutes, servings, difficulty, diet_type, user_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Title, nullString(rec.Description), rec.Instructions,
		nullInt(rec.PrepTimeMinutes), nullInt(rec.CookTimeMinutes),
		nullInt(rec.Servings), nullString(string(rec.Difficulty)),
		nullString(string(rec.DietType)), rec.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &DuplicateError{Title: rec.Title, UserID: rec.UserID}
		}
		return fmt.Errorf("failed to insert recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read recipe id: %w", err)
	}

	if err := r.saveIngredients(ctx, tx, id, rec.Ingredients); err != nil {
		return err
	}
	if err := r.saveTags(ctx, tx, id, rec.Tags); err != nil {
		return err
	}

	rec.ID = id
	return nil
}

func (r *Repository) update(ctx context.Context, tx *sql.Tx, rec *Recipe) error {
	// The user_id guard in the WHERE clause prevents cross-user updates.
	res, err := tx.ExecContext(ctx, `
		UPDATE recipes
		SET title = ?, description = ?, instructions = ?,
			prep_time_minutes = ?, cook_time_minutes = ?, servings = ?,
			difficulty = ?, diet_type = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		rec.Title, nullString(rec.Description), rec.Instructions,
		nullInt(rec.PrepTimeMinutes), nullInt(rec.CookTimeMinutes),
		nullInt(rec.Servings), nullString(string(rec.Difficulty)),
		nullString(string(rec.DietType)), rec.ID, rec.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &DuplicateError{Title: rec.Title, UserID: rec.UserID}
		}
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_ingredients WHERE recipe_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("failed to clear ingredients: %w", err)
	}
	if err := r.saveIngredients(ctx, tx, rec.ID, rec.Ingredients); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recipe_tags WHERE recipe_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	return r.saveTags(ctx, tx, rec.ID, rec.Tags)
}

func (r *Repository) saveIngredients(ctx context.Context, tx *sql.Tx, recipeID int64, items []Ingredient) error {
	if len(items) == 0 {
		return nil
	}
	encoded, err := encodeIngredients(items)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recipe_ingredients (recipe_id, ingredients) VALUES (?, ?)`,
		recipeID, encoded); err != nil {
		return fmt.Errorf("failed to insert ingredients: %w", err)
	}
	return nil
}

func (r *Repository) saveTags(ctx context.Context, tx *sql.Tx, recipeID int64, tags []string) error {
	for _, name := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", name, err)
		}
		var tagID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT id FROM tags WHERE name = ?`, name).Scan(&tagID); err != nil {
			return fmt.Errorf("failed to look up tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)`,
			recipeID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}

// GetByID retrieves a recipe with its ingredients and tags.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx, recipeBaseQuery+` WHERE r.id = ?`, id)
	rec, err := r.scanRecipe(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	if err := r.loadTags(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SearchByTags returns recipes linked to any of the given tags.
func (r *Repository) SearchByTags(ctx context.Context, tags []string, limit int) ([]Recipe, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	query := `SELECT DISTINCT ` + recipeColumns + `
		FROM recipes r
		LEFT JOIN recipe_ingredients ri ON r.id = ri.recipe_id
		INNER JOIN recipe_tags rt ON r.id = rt.recipe_id
		INNER JOIN tags t ON rt.tag_id = t.id
		WHERE t.name IN (` + placeholders + `)
		LIMIT ?`
	args := make([]any, 0, len(tags)+1)
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, normalizeLimit(limit))
	return r.queryRecipes(ctx, query, args...)
}

// SearchByDietType returns recipes with the given diet type.
func (r *Repository) SearchByDietType(ctx context.Context, dt DietType, limit int) ([]Recipe, error) {
	return r.queryRecipes(ctx,
		recipeBaseQuery+` WHERE r.diet_type = ? ORDER BY r.created_at DESC LIMIT ?`,
		string(dt), normalizeLimit(limit))
}

// SearchByKeywords returns recipes whose title or description contains any of
// the keywords.
func (r *Repository) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]Recipe, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	var conditions []string
	var args []any
	for _, kw := range keywords {
		conditions = append(conditions, `(r.title LIKE ? ESCAPE '\' OR r.description LIKE ? ESCAPE '\')`)
		term := "%" + escapeLike(kw) + "%"
		args = append(args, term, term)
	}
	query := recipeBaseQuery + ` WHERE ` + strings.Join(conditions, " OR ") + ` LIMIT ?`
	args = append(args, normalizeLimit(limit))
	return r.queryRecipes(ctx, query, args...)
}

// SearchRecipes applies the combined filter set. Servings match within a 25%
// window of the requested amount.
func (r *Repository) SearchRecipes(ctx context.Context, f Filter) ([]Recipe, error) {
	var conditions []string
	var args []any

	if f.UserID != "" {
		conditions = append(conditions, "r.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Query != "" {
		conditions = append(conditions,
			`(r.title LIKE ? ESCAPE '\' OR r.description LIKE ? ESCAPE '\' OR r.instructions LIKE ? ESCAPE '\')`)
		term := "%" + escapeLike(f.Query) + "%"
		args = append(args, term, term, term)
	}
	if f.DietType != "" {
		if _, err := ParseDietType(string(f.DietType)); err != nil {
			return nil, err
		}
		conditions = append(conditions, "r.diet_type = ?")
		args = append(args, string(f.DietType))
	}
	if f.Difficulty != "" {
		conditions = append(conditions, "r.difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if f.MaxPrepTime > 0 {
		conditions = append(conditions, "r.prep_time_minutes <= ?")
		args = append(args, f.MaxPrepTime)
	}
	if f.MaxCookTime > 0 {
		conditions = append(conditions, "r.cook_time_minutes <= ?")
		args = append(args, f.MaxCookTime)
	}
	if f.Servings > 0 {
		minServings := f.Servings * 3 / 4
		if minServings < 1 {
			minServings = 1
		}
		maxServings := f.Servings * 5 / 4
		conditions = append(conditions, "r.servings BETWEEN ? AND ?")
		args = append(args, minServings, maxServings)
	}

	query := recipeBaseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY r.created_at DESC LIMIT ?"
	args = append(args, normalizeLimit(f.Limit))

	return r.queryRecipes(ctx, query, args...)
}

// GetAll lists recipes, newest first, optionally restricted to one user.
func (r *Repository) GetAll(ctx context.Context, limit, offset int, userID string) ([]Recipe, error) {
	if userID != "" {
		return r.queryRecipes(ctx,
			recipeBaseQuery+` WHERE r.user_id = ? ORDER BY r.created_at DESC LIMIT ? OFFSET ?`,
			userID, normalizeLimit(limit), offset)
	}
	return r.queryRecipes(ctx,
		recipeBaseQuery+` ORDER BY r.created_at DESC LIMIT ? OFFSET ?`,
		normalizeLimit(limit), offset)
}

// Delete removes a recipe and its tag links and ingredients, in referential
// order, as one transaction. It reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM recipes WHERE id = ?`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check recipe %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete tag links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete ingredients: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete recipe: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete: %w", err)
	}
	return affected > 0, nil
}

// Count returns the number of stored recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

func (r *Repository) queryRecipes(ctx context.Context, query string, args ...any) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := r.scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	for i := range recipes {
		if err := r.loadTags(ctx, &recipes[i]); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanRecipe(row rowScanner) (*Recipe, error) {
	var (
		rec         Recipe
		description sql.NullString
		prep        sql.NullInt64
		cook        sql.NullInt64
		servings    sql.NullInt64
		difficulty  sql.NullString
		dietType    sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		ingredients sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.Title, &description, &rec.Instructions,
		&prep, &cook, &servings, &difficulty, &dietType, &rec.UserID,
		&createdAt, &updatedAt, &ingredients,
	)
	if err != nil {
		return nil, err
	}

	rec.Description = description.String
	rec.PrepTimeMinutes = int(prep.Int64)
	rec.CookTimeMinutes = int(cook.Int64)
	rec.Servings = int(servings.Int64)
	rec.Difficulty = Difficulty(difficulty.String)
	rec.CreatedAt = createdAt
	rec.UpdatedAt = updatedAt

	// Invalid diet types stored by older writers degrade to "no diet type"
	// rather than failing the whole read.
	if dt, err := ParseDietType(dietType.String); err == nil {
		rec.DietType = dt
	}

	if ingredients.Valid {
		items, err := decodeIngredients(ingredients.String)
		if err != nil {
			return nil, err
		}
		rec.Ingredients = items
	}
	return &rec, nil
}

func (r *Repository) loadTags(ctx context.Context, rec *Recipe) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.name
		FROM tags t
		INNER JOIN recipe_tags rt ON t.id = rt.tag_id
		WHERE rt.recipe_id = ?
		ORDER BY t.name`, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	rec.Tags = tags
	return rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
