package agent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCheckpointNotFound is returned when a thread has no saved state.
var ErrCheckpointNotFound = errors.New("conversation checkpoint not found")

const checkpointVersion = 1

type checkpointEnvelope struct {
	Version int    `json:"v"`
	State   *State `json:"state"`
}

// CheckpointStore persists conversation state per thread. Each Save replaces
// the thread's previous checkpoint in one statement, so a failed turn that
// never reaches Save leaves the stored state untouched.
type CheckpointStore struct {
	db *sql.DB
}

// NewCheckpointStore creates a CheckpointStore.
func NewCheckpointStore(db *sql.DB) *CheckpointStore {
	return &CheckpointStore{db: db}
}

// Save writes the thread's state, replacing any previous checkpoint.
func (c *CheckpointStore) Save(ctx context.Context, state *State) error {
	if err := state.validate(); err != nil {
		return fmt.Errorf("refusing to checkpoint invalid state: %w", err)
	}
	data, err := json.Marshal(checkpointEnvelope{Version: checkpointVersion, State: state})
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO conversations (thread_id, state_data)
		VALUES (?, ?)
		ON CONFLICT(thread_id) DO UPDATE
		SET state_data = excluded.state_data, updated_at = CURRENT_TIMESTAMP`,
		state.ThreadID, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint for thread %s: %w", state.ThreadID, err)
	}
	return nil
}

// Load reads the thread's state, or ErrCheckpointNotFound. A checkpoint
// written by an unknown codec version is an error, not silently reset.
func (c *CheckpointStore) Load(ctx context.Context, threadID string) (*State, error) {
	var data string
	err := c.db.QueryRowContext(ctx,
		`SELECT state_data FROM conversations WHERE thread_id = ?`, threadID,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrCheckpointNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint for thread %s: %w", threadID, err)
	}

	var envelope checkpointEnvelope
	if err := json.Unmarshal([]byte(data), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint for thread %s: %w", threadID, err)
	}
	if envelope.Version != checkpointVersion {
		return nil, fmt.Errorf("unsupported checkpoint version %d for thread %s", envelope.Version, threadID)
	}
	if envelope.State == nil {
		return nil, fmt.Errorf("empty checkpoint for thread %s", threadID)
	}
	if err := envelope.State.validate(); err != nil {
		return nil, fmt.Errorf("corrupt checkpoint for thread %s: %w", threadID, err)
	}
	return envelope.State, nil
}

// Delete removes the thread's checkpoint. Deleting a missing checkpoint is
// a no-op.
func (c *CheckpointStore) Delete(ctx context.Context, threadID string) error {
	_, err := c.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE thread_id = ?`, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint for thread %s: %w", threadID, err)
	}
	return nil
}
