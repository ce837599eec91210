package quiz

import (
	"fmt"

	"github.com/abhisek/studyz/internal/quizgen"
)

// Deck walks through flashcards one at a time.
type Deck struct {
	Topic string
	Cards []quizgen.Card

	index   int
	flipped bool
}

// NewDeck creates a deck positioned on the first card.
func NewDeck(topic string, cards []quizgen.Card) *Deck {
	return &Deck{Topic: topic, Cards: cards}
}

// Next moves to the following card, face up. No-op on the last card.
func (d *Deck) Next() {
	if d.index < len(d.Cards)-1 {
		d.index++
		d.flipped = false
	}
}

// Prev moves to the preceding card, face up. No-op on the first card.
func (d *Deck) Prev() {
	if d.index > 0 {
		d.index--
		d.flipped = false
	}
}

// Flip turns the current card over.
func (d *Deck) Flip() {
	if len(d.Cards) > 0 {
		d.flipped = !d.flipped
	}
}

// Flipped reports whether the back of the card is showing.
func (d *Deck) Flipped() bool { return d.flipped }

// Current returns the card in view, false for an empty deck.
func (d *Deck) Current() (quizgen.Card, bool) {
	if len(d.Cards) == 0 {
		return quizgen.Card{}, false
	}
	return d.Cards[d.index], true
}

// Index returns the zero-based position.
func (d *Deck) Index() int { return d.index }

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.Cards) }

// Position returns "i / n", 1-based.
func (d *Deck) Position() string {
	if len(d.Cards) == 0 {
		return "0 / 0"
	}
	return fmt.Sprintf("%d / %d", d.index+1, len(d.Cards))
}
