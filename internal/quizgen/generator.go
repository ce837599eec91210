package quizgen

import (
	"context"
	"errors"
)

// Generator produces quiz questions and flashcards for a topic.
type Generator interface {
	// Quiz returns validated multiple-choice questions about topic.
	Quiz(ctx context.Context, topic string) ([]Question, error)

	// Flashcards returns study cards about topic.
	Flashcards(ctx context.Context, topic string) ([]Card, error)
}

// QuizOrFallback asks g for a quiz and serves the built-in bank when g is
// nil or fails with anything but ErrEmptyTopic. fallback reports that the
// bank was used; err is the generation error that caused it, if any.
func QuizOrFallback(ctx context.Context, g Generator, topic string) (qs []Question, fallback bool, err error) {
	if g != nil {
		qs, err = g.Quiz(ctx, topic)
		if err == nil || errors.Is(err, ErrEmptyTopic) {
			return qs, false, err
		}
	}
	return Fallback(), true, err
}

// CardsOrFallback is QuizOrFallback for flashcards.
func CardsOrFallback(ctx context.Context, g Generator, topic string) (cards []Card, fallback bool, err error) {
	if g != nil {
		cards, err = g.Flashcards(ctx, topic)
		if err == nil || errors.Is(err, ErrEmptyTopic) {
			return cards, false, err
		}
	}
	return FallbackCards(), true, err
}
