package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo on the llm_requests table.
type eventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *eventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO llm_requests
		(provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.Success, data.ErrorMessage, r.clock().UnixMilli())
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	where, args := whereRange(opts)
	rows, err := r.db.QueryContext(ctx, `SELECT id, provider, model, purpose, input_tokens,
		output_tokens, latency_ms, success, error_message, created_at FROM llm_requests`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM requests: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var ev LLMRequestEvent
		var created int64
		if err := rows.Scan(&ev.ID, &ev.Provider, &ev.Model, &ev.Purpose, &ev.InputTokens,
			&ev.OutputTokens, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage, &created); err != nil {
			return nil, fmt.Errorf("scan LLM request: %w", err)
		}
		ev.Timestamp = time.UnixMilli(created).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
