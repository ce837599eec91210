package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.append(ctx, "llm_request_events",
		llmEventColumns[3:],
		[]any{
			data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		},
	)
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := eventSelector("llm_request_events", opts, llmEventColumns...)

	var records []LLMRequestEventRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return err
		}
		records = append(records, *e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	return records, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	sel := builder().Select(llmEventColumns...).
		From(builder().Table("llm_request_events")).
		Where(entsql.EQ("id", id))

	var event *LLMRequestEventRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		e, err := scanLLMEvent(rows)
		event = e
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get llm event: %w", err)
	}
	return event, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	sel := builder().Select(
		"purpose",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(builder().Table("llm_request_events")).
		GroupBy("purpose").
		OrderBy("purpose")

	var out []LLMUsageStats
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			st      LLMUsageStats
			in, o   sql.NullInt64
			latency sql.NullFloat64
		)
		if err := rows.Scan(&st.Purpose, &st.Calls, &in, &o, &latency); err != nil {
			return err
		}
		st.InputTokens = int(in.Int64)
		st.OutputTokens = int(o.Int64)
		st.AvgLatencyMs = int64(latency.Float64)
		out = append(out, st)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	return out, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	sel := builder().Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).
		From(builder().Table("llm_request_events")).
		Where(entsql.EQ("success", true)).
		GroupBy("model").
		OrderBy("model")

	var out []LLMModelUsage
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			mu    LLMModelUsage
			in, o sql.NullInt64
		)
		if err := rows.Scan(&mu.Model, &mu.Calls, &in, &o); err != nil {
			return err
		}
		mu.InputTokens = int(in.Int64)
		mu.OutputTokens = int(o.Int64)
		out = append(out, mu)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	return out, nil
}

func scanLLMEvent(rows *entsql.Rows) (*LLMRequestEventRecord, error) {
	var e LLMRequestEventRecord
	err := rows.Scan(
		&e.ID, &e.Sequence, &e.Timestamp,
		&e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody,
	)
	if err != nil {
		return nil, fmt.Errorf("scan llm event: %w", err)
	}
	return &e, nil
}
