package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendAward(ctx context.Context, data AwardEventData) error {
	return r.append(ctx, "award_events",
		[]string{"award_type", "rarity", "reason"},
		[]any{data.AwardType, data.Rarity, data.Reason},
	)
}

func (r *eventRepo) QueryAwards(ctx context.Context, opts QueryOpts) ([]AwardEventRecord, error) {
	sel := eventSelector("award_events", opts,
		"sequence", "timestamp", "award_type", "rarity", "reason")

	var records []AwardEventRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var a AwardEventRecord
		if err := rows.Scan(&a.Sequence, &a.Timestamp, &a.AwardType, &a.Rarity, &a.Reason); err != nil {
			return err
		}
		records = append(records, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}
	return records, nil
}

func (r *eventRepo) AwardCounts(ctx context.Context) (map[string]int, int, error) {
	sel := builder().Select("award_type", entsql.As(entsql.Count("*"), "n")).
		From(builder().Table("award_events")).
		GroupBy("award_type")

	byType := make(map[string]int)
	total := 0
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return err
		}
		byType[kind] = n
		total += n
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("query award counts: %w", err)
	}
	return byType, total, nil
}
