package shopping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when no shopping list exists for a thread.
var ErrNotFound = errors.New("shopping list not found")

// Repository is a SQLite-backed store for shopping lists, keyed by
// conversation thread. The mutex serializes read-modify-write cycles such as
// AddItems within this process; the UNIQUE(thread_id, user_id) constraint
// backs it up across processes.
type Repository struct {
	db *sql.DB
	mu sync.Mutex
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save stores the list for its thread, replacing any existing items.
// Last write wins.
func (r *Repository) Save(ctx context.Context, list *List) error {
	if list.ThreadID == "" {
		return errors.New("shopping list thread id is required")
	}
	encoded, err := encodeItems(list.Items)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO shopping_lists (thread_id, user_id, items)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id, user_id) DO UPDATE
		SET items = excluded.items, updated_at = CURRENT_TIMESTAMP`,
		list.ThreadID, list.UserID, encoded,
	)
	if err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	if list.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			list.ID = id
		}
	}
	return nil
}

// GetByThread returns the list for a thread, or ErrNotFound.
func (r *Repository) GetByThread(ctx context.Context, threadID, userID string) (*List, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, thread_id, user_id, items, created_at, updated_at
		FROM shopping_lists
		WHERE thread_id = ? AND user_id = ?`,
		threadID, userID,
	)

	list, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping list for thread %s: %w", threadID, err)
	}
	return list, nil
}

// AddItems appends items to the thread's list, creating the list first when
// none exists. The whole cycle runs in one transaction under the mutex so
// concurrent callers never drop each other's items.
func (r *Repository) AddItems(ctx context.Context, threadID, userID string, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT items FROM shopping_lists WHERE thread_id = ? AND user_id = ?`,
		threadID, userID,
	).Scan(&existing)

	var current []Item
	switch err {
	case nil:
		current, err = decodeItems(existing)
		if err != nil {
			return err
		}
	case sql.ErrNoRows:
		// First items for this thread.
	default:
		return fmt.Errorf("failed to read shopping list: %w", err)
	}

	encoded, err := encodeItems(append(current, items...))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO shopping_lists (thread_id, user_id, items)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id, user_id) DO UPDATE
		SET items = excluded.items, updated_at = CURRENT_TIMESTAMP`,
		threadID, userID, encoded,
	); err != nil {
		return fmt.Errorf("failed to add shopping items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping items: %w", err)
	}
	return nil
}

// Clear empties the thread's list. Clearing a missing list is a no-op.
func (r *Repository) Clear(ctx context.Context, threadID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	empty, err := encodeItems(nil)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `
		UPDATE shopping_lists
		SET items = ?, updated_at = CURRENT_TIMESTAMP
		WHERE thread_id = ? AND user_id = ?`,
		empty, threadID, userID,
	); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

// Delete removes the thread's list entirely, reporting whether one existed.
func (r *Repository) Delete(ctx context.Context, threadID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_lists WHERE thread_id = ? AND user_id = ?`,
		threadID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete shopping list: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func scanList(row *sql.Row) (*List, error) {
	var (
		list      List
		itemsData string
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&list.ID, &list.ThreadID, &list.UserID, &itemsData, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	items, err := decodeItems(itemsData)
	if err != nil {
		return nil, err
	}
	list.Items = items
	list.CreatedAt = createdAt
	list.UpdatedAt = updatedAt
	return &list, nil
}
