package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendXP(ctx context.Context, data XPEventData) error {
	return r.append(ctx, "xp_events",
		[]string{"amount", "reason", "total", "level"},
		[]any{data.Amount, data.Reason, data.Total, data.Level},
	)
}

func (r *eventRepo) QueryXPEvents(ctx context.Context, opts QueryOpts) ([]XPEventRecord, error) {
	sel := eventSelector("xp_events", opts,
		"sequence", "timestamp", "amount", "reason", "total", "level")

	var records []XPEventRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var x XPEventRecord
		if err := rows.Scan(&x.Sequence, &x.Timestamp, &x.Amount, &x.Reason, &x.Total, &x.Level); err != nil {
			return err
		}
		records = append(records, x)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query xp events: %w", err)
	}
	return records, nil
}
