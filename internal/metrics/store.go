// Package metrics records language model usage so token spend and latency
// can be inspected per day.
package metrics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Execution is one recorded model call.
type Execution struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Latency          time.Duration
}

// DailyUsage is a per-day rollup of model calls.
type DailyUsage struct {
	Day              string
	Calls            int
	PromptTokens     int
	CompletionTokens int
	AvgLatencyMS     int
}

// Store persists execution metrics in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore creates a metrics Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record stores one model call.
func (s *Store) Record(ctx context.Context, e Execution) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO llm_executions (agent_name, model, prompt_tokens, completion_tokens, latency_ms)
		VALUES (?, ?, ?, ?, ?)`,
		e.AgentName, e.Model, e.PromptTokens, e.CompletionTokens, e.Latency.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to record llm execution: %w", err)
	}
	return nil
}

// Usage returns per-day rollups for the last n days, newest first.
func (s *Store) Usage(ctx context.Context, days int) ([]DailyUsage, error) {
	if days <= 0 {
		days = 7
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT date(timestamp) AS day,
			COUNT(*),
			COALESCE(SUM(prompt_tokens), 0),
			COALESCE(SUM(completion_tokens), 0),
			COALESCE(CAST(AVG(latency_ms) AS INTEGER), 0)
		FROM llm_executions
		WHERE timestamp >= datetime('now', ?)
		GROUP BY day
		ORDER BY day DESC`,
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query llm usage: %w", err)
	}
	defer rows.Close()

	var usage []DailyUsage
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Day, &u.Calls, &u.PromptTokens, &u.CompletionTokens, &u.AvgLatencyMS); err != nil {
			return nil, fmt.Errorf("failed to scan llm usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
