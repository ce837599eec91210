package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepoCRUD(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()

	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &TaskRecord{ID: "b", Text: "second", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.Create(ctx, &TaskRecord{ID: "a", Text: "first", CreatedAt: base}))

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID, "list is in creation order")
	assert.Equal(t, "b", tasks[1].ID)
	assert.Nil(t, tasks[0].CompletedAt)

	done := base.Add(time.Hour)
	tasks[0].Completed = true
	tasks[0].CompletedAt = &done
	require.NoError(t, repo.Update(ctx, &tasks[0]))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))

	got.Completed = false
	got.CompletedAt = nil
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, repo.Delete(ctx, "b"))
	tasks, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepoNotFound(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	err = repo.Update(ctx, &TaskRecord{ID: "missing", Text: "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTaskRepoDeleteCompleted(t *testing.T) {
	s := openTestStore(t)
	repo := s.TaskRepo()
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, repo.Create(ctx, &TaskRecord{ID: "1", Text: "open", CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &TaskRecord{ID: "2", Text: "done", Completed: true, CompletedAt: &now, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &TaskRecord{ID: "3", Text: "done too", Completed: true, CompletedAt: &now, CreatedAt: now}))

	n, err := repo.DeleteCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
