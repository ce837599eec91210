package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// statsRepo implements StatsRepo on the ent SQL driver.
type statsRepo struct {
	drv *entsql.Driver
}

func (r *statsRepo) AddStudySeconds(ctx context.Context, day string, n int64) error {
	if n <= 0 {
		return nil
	}
	query, args := builder().Insert("daily_stats").
		Columns("day", "seconds").
		Values(day, n).
		OnConflict(
			entsql.ConflictColumns("day"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.Add("seconds", n)
			}),
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("add study seconds: %w", err)
	}
	return nil
}

func (r *statsRepo) Range(ctx context.Context, from, to string) ([]DayStat, error) {
	sel := builder().Select("day", "seconds").
		From(builder().Table("daily_stats")).
		Where(entsql.And(
			entsql.GTE("day", from),
			entsql.LTE("day", to),
		)).
		OrderBy("day")
	return r.collect(ctx, sel)
}

func (r *statsRepo) All(ctx context.Context) ([]DayStat, error) {
	sel := builder().Select("day", "seconds").
		From(builder().Table("daily_stats")).
		OrderBy("day")
	return r.collect(ctx, sel)
}

func (r *statsRepo) collect(ctx context.Context, sel *entsql.Selector) ([]DayStat, error) {
	var out []DayStat
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var d DayStat
		if err := rows.Scan(&d.Day, &d.Seconds); err != nil {
			return err
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	return out, nil
}
