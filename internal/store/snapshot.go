package store

import (
	"context"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo on the ent SQL driver.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := builder().Insert("snapshots").
		Columns("sequence", "timestamp", "data").
		Values(snap.Sequence, snap.Timestamp.UTC(), string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	sel := builder().Select("id", "sequence", "timestamp", "data").
		From(builder().Table("snapshots")).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1)

	var snap *Snapshot
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		var (
			s   Snapshot
			raw []byte
		)
		if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &raw); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &s.Data); err != nil {
			return fmt.Errorf("unmarshal snapshot data: %w", err)
		}
		snap = &s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	// The first snapshot past the keep window marks the cut-off.
	sel := builder().Select("id").
		From(builder().Table("snapshots")).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Offset(keep).
		Limit(1)

	var threshold int
	found := false
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		found = true
		return rows.Scan(&threshold)
	})
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if !found {
		return nil // fewer than keep snapshots exist
	}

	query, args := builder().Delete("snapshots").
		Where(entsql.LTE("id", threshold)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
