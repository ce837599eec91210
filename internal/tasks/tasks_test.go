package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/studyz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(st.TaskRepo())
	clock := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestAddTrimsText(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Add(ctx, "  read chapter 4  ")
	require.NoError(t, err)
	assert.Equal(t, "read chapter 4", task.Text)
	assert.False(t, task.Completed)
	assert.NotEmpty(t, task.ID)
}

func TestAddRejectsBlank(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, in := range []string{"", "   ", "\t\n"} {
		_, err := svc.Add(ctx, in)
		assert.ErrorIs(t, err, ErrEmptyText, "input %q", in)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task, err := svc.Add(ctx, "flashcards")
	require.NoError(t, err)

	got, completed, err := svc.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)

	got, completed, err = svc.Toggle(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, completed)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)

	_, _, err = svc.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAndClear(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.Add(ctx, "a")
	b, _ := svc.Add(ctx, "b")
	_, _ = svc.Add(ctx, "c")

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.True(t, errors.Is(svc.Delete(ctx, a.ID), ErrNotFound))

	_, _, err := svc.Toggle(ctx, b.ID)
	require.NoError(t, err)

	n, err := svc.Clear(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].Text)

	n, err = svc.Clear(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestResolve(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, _ := svc.Add(ctx, "first")
	second, _ := svc.Add(ctx, "second")

	got, err := svc.Resolve(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	got, err = svc.Resolve(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	got, err = svc.Resolve(ctx, first.ID[:13])
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = svc.Resolve(ctx, "3")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Resolve(ctx, "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = svc.Resolve(ctx, " 1 ")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestResolveEmptyRef(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, "only task")

	for _, ref := range []string{"", "   ", "\t"} {
		got, err := svc.Resolve(ctx, ref)
		assert.ErrorIs(t, err, ErrEmptyRef, "ref %q", ref)
		assert.Nil(t, got)
	}
}

func TestCounts(t *testing.T) {
	open, done := Counts([]Task{{Completed: true}, {}, {}, {Completed: true}, {}})
	assert.Equal(t, 3, open)
	assert.Equal(t, 2, done)
}
