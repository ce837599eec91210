package quizgen

import (
	"fmt"
	"strings"
)

const (
	maxQuestionLen = 500
	maxOptionLen   = 200
)

// StructuralValidator checks that a question has text, exactly four
// non-empty options, and an in-range correct index.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}

	if strings.TrimSpace(q.Text) == "" {
		return fail("question is empty")
	}
	if len(q.Text) > maxQuestionLen {
		return fail(fmt.Sprintf("question exceeds %d characters", maxQuestionLen))
	}
	if len(q.Options) != OptionCount {
		return fail(fmt.Sprintf("expected %d options, got %d", OptionCount, len(q.Options)))
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fail(fmt.Sprintf("option %d is empty", i))
		}
		if len(o) > maxOptionLen {
			return fail(fmt.Sprintf("option %d exceeds %d characters", i, maxOptionLen))
		}
	}
	if q.Correct < 0 || q.Correct >= OptionCount {
		return fail(fmt.Sprintf("correct index %d out of range 0-%d", q.Correct, OptionCount-1))
	}
	return nil
}

// DistinctOptionsValidator rejects questions whose options repeat, ignoring
// case and spacing.
type DistinctOptionsValidator struct{}

func (v *DistinctOptionsValidator) Name() string { return "distinct-options" }

func (v *DistinctOptionsValidator) Validate(q *Question) *ValidationError {
	seen := make(map[string]int, len(q.Options))
	for i, o := range q.Options {
		key := normalize(o)
		if j, ok := seen[key]; ok {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("options %d and %d are the same: %q", j, i, o),
				Retryable: true,
			}
		}
		seen[key] = i
	}
	return nil
}

// validCard reports whether both sides of a card carry text.
func validCard(c Card) bool {
	return strings.TrimSpace(c.Front) != "" && strings.TrimSpace(c.Back) != ""
}
