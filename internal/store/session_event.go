package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendStudySession(ctx context.Context, data StudySessionEventData) error {
	return r.append(ctx, "study_sessions",
		[]string{"session_id", "day", "duration_secs", "skipped"},
		[]any{data.SessionID, data.Day, data.DurationSecs, data.Skipped},
	)
}

func (r *eventRepo) QueryStudySessions(ctx context.Context, opts QueryOpts) ([]StudySessionRecord, error) {
	sel := eventSelector("study_sessions", opts,
		"id", "sequence", "timestamp", "session_id", "day", "duration_secs", "skipped")

	var records []StudySessionRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var s StudySessionRecord
		if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.SessionID, &s.Day, &s.DurationSecs, &s.Skipped); err != nil {
			return err
		}
		records = append(records, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query study sessions: %w", err)
	}
	return records, nil
}

func (r *eventRepo) CompletedSessionCount(ctx context.Context, day string) (int, error) {
	sel := builder().Select(entsql.Count("*")).
		From(builder().Table("study_sessions")).
		Where(entsql.And(
			entsql.EQ("day", day),
			entsql.EQ("skipped", false),
		))

	var n int
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		return rows.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count study sessions: %w", err)
	}
	return n, nil
}
