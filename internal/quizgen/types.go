package quizgen

import (
	"errors"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

var (
	// ErrNoQuestions is returned when a response holds no usable items.
	ErrNoQuestions = errors.New("response did not contain a quiz array")
	// ErrEmptyTopic is returned when the topic is blank.
	ErrEmptyTopic = errors.New("topic is required")
)

// Question is a multiple-choice quiz question.
type Question struct {
	// Text is the question prompt.
	Text string `json:"question"`

	// Options holds exactly OptionCount answer choices.
	Options []string `json:"options"`

	// Correct is the index into Options of the right answer.
	Correct int `json:"correct"`
}

// Answer returns the text of the correct option, or "" if Correct is out
// of range.
func (q Question) Answer() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}

// Card is a two-sided flashcard.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// normalize folds case and collapses whitespace for comparisons.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
