package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var taskColumns = []string{"id", "text", "completed", "created_at", "completed_at"}

// taskRepo implements TaskRepo on the ent SQL driver.
type taskRepo struct {
	drv *entsql.Driver
}

func (r *taskRepo) Create(ctx context.Context, t *TaskRecord) error {
	query, args := builder().Insert("tasks").
		Columns(taskColumns...).
		Values(t.ID, t.Text, t.Completed, t.CreatedAt.UTC(), nullTime(t)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *taskRepo) Update(ctx context.Context, t *TaskRecord) error {
	upd := builder().Update("tasks").
		Set("text", t.Text).
		Set("completed", t.Completed).
		Where(entsql.EQ("id", t.ID))
	if t.CompletedAt != nil {
		upd.Set("completed_at", t.CompletedAt.UTC())
	} else {
		upd.SetNull("completed_at")
	}

	query, args := upd.Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return expectAffected(res, t.ID)
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete("tasks").
		Where(entsql.EQ("id", id)).
		Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectAffected(res, id)
}

func (r *taskRepo) Get(ctx context.Context, id string) (*TaskRecord, error) {
	sel := builder().Select(taskColumns...).
		From(builder().Table("tasks")).
		Where(entsql.EQ("id", id))

	var task *TaskRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		t, err := scanTask(rows)
		task = t
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return task, nil
}

func (r *taskRepo) List(ctx context.Context) ([]TaskRecord, error) {
	sel := builder().Select(taskColumns...).
		From(builder().Table("tasks")).
		OrderBy("created_at", "id")

	var tasks []TaskRecord
	err := queryRows(ctx, r.drv, sel, func(rows *entsql.Rows) error {
		t, err := scanTask(rows)
		if err != nil {
			return err
		}
		tasks = append(tasks, *t)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepo) DeleteCompleted(ctx context.Context) (int, error) {
	return r.deleteWhere(ctx, entsql.EQ("completed", true))
}

func (r *taskRepo) DeleteAll(ctx context.Context) (int, error) {
	return r.deleteWhere(ctx, nil)
}

func (r *taskRepo) deleteWhere(ctx context.Context, p *entsql.Predicate) (int, error) {
	del := builder().Delete("tasks")
	if p != nil {
		del.Where(p)
	}
	query, args := del.Query()
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

func scanTask(rows *entsql.Rows) (*TaskRecord, error) {
	var (
		t    TaskRecord
		done sql.NullTime
	)
	if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CreatedAt, &done); err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if done.Valid {
		at := done.Time
		t.CompletedAt = &at
	}
	return &t, nil
}

func nullTime(t *TaskRecord) any {
	if t.CompletedAt == nil {
		return nil
	}
	return t.CompletedAt.UTC()
}

func expectAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return nil
}
