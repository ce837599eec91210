// Package tasks manages the study task list.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studyz/internal/store"
	"github.com/google/uuid"
)

var (
	// ErrEmptyText is returned when a task's text is blank after trimming.
	ErrEmptyText = errors.New("task text is empty")
	// ErrNotFound is returned for unknown task IDs.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyRef is returned when Resolve is given a blank reference.
	ErrEmptyRef = errors.New("task reference is empty")
)

// Task is one entry in the task list.
type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Service is the task list backed by a TaskRepo.
type Service struct {
	repo store.TaskRepo
	now  func() time.Time
}

// NewService creates a task Service.
func NewService(repo store.TaskRepo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Add creates a task from text. Surrounding whitespace is trimmed.
func (s *Service) Add(ctx context.Context, text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	rec := &store.TaskRecord{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return fromRecord(rec), nil
}

// Toggle flips a task's completion. The returned bool is true when the
// task became completed.
func (s *Service) Toggle(ctx context.Context, id string) (*Task, bool, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, false, mapErr(err)
	}

	rec.Completed = !rec.Completed
	if rec.Completed {
		at := s.now()
		rec.CompletedAt = &at
	} else {
		rec.CompletedAt = nil
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, false, mapErr(err)
	}
	return fromRecord(rec), rec.Completed, nil
}

// Delete removes a task.
func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.repo.Delete(ctx, id))
}

// List returns all tasks in creation order.
func (s *Service) List(ctx context.Context) ([]Task, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Task, len(recs))
	for i := range recs {
		out[i] = *fromRecord(&recs[i])
	}
	return out, nil
}

// Clear removes completed tasks, or all tasks when completedOnly is false.
func (s *Service) Clear(ctx context.Context, completedOnly bool) (int, error) {
	if completedOnly {
		return s.repo.DeleteCompleted(ctx)
	}
	return s.repo.DeleteAll(ctx)
}

// Resolve finds a task by full ID, unique ID prefix, or 1-based list
// position (as printed by the CLI).
func (s *Service) Resolve(ctx context.Context, ref string) (*Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyRef
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	var n int
	if _, err := fmt.Sscanf(ref, "%d", &n); err == nil && fmt.Sprint(n) == ref {
		if n >= 1 && n <= len(all) {
			return &all[n-1], nil
		}
		return nil, fmt.Errorf("task #%d: %w", n, ErrNotFound)
	}

	var match *Task
	for i := range all {
		if all[i].ID == ref {
			return &all[i], nil
		}
		if strings.HasPrefix(all[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("task prefix %q is ambiguous", ref)
			}
			match = &all[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("task %q: %w", ref, ErrNotFound)
	}
	return match, nil
}

// Counts returns the number of open and completed tasks.
func Counts(list []Task) (open, done int) {
	for _, t := range list {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func fromRecord(r *store.TaskRecord) *Task {
	return &Task{
		ID:          r.ID,
		Text:        r.Text,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
	}
}

func mapErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
