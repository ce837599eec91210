// Package flashcards is the flashcard deck screen.
package flashcards

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyz/internal/quiz"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/screen"
	quizscreen "github.com/abhisek/studyz/internal/screens/quiz"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
	"github.com/abhisek/studyz/internal/ui/theme"
)

type deckReadyMsg struct {
	seq      int
	cards    []quizgen.Card
	fallback bool
	err      error
}

// Screen prompts for a topic, generates a deck and pages through it.
type Screen struct {
	gen quizgen.Generator

	input      components.TextInput
	spinner    spinner.Model
	generating bool
	topic      string
	seq        int
	deck       *quiz.Deck
	fallback   bool
	warning    string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the flashcard screen.
func New(gen quizgen.Generator) *Screen {
	return &Screen{
		gen:     gen,
		input:   components.NewTextInput("Topic, e.g. React hooks", 100),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }

func (s *Screen) Title() string { return "Flashcards" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.deck == nil {
		return []layout.KeyHint{{Key: "Enter", Description: "Generate"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Space", Description: "Flip"},
		{Key: "←→", Description: "Prev/Next"},
		{Key: "n", Description: "New deck"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) generate(topic string) tea.Cmd {
	s.generating = true
	s.topic = topic
	s.seq++
	seq, gen := s.seq, s.gen
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), quizscreen.GenerateTimeout)
		defer cancel()
		cards, fallback, err := quizgen.CardsOrFallback(ctx, gen, topic)
		return deckReadyMsg{seq: seq, cards: cards, fallback: fallback, err: err}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deckReadyMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.generating = false
		s.fallback = msg.fallback
		s.warning = ""
		if msg.err != nil {
			s.warning = msg.err.Error()
		}
		if len(msg.cards) > 0 {
			s.deck = quiz.NewDeck(s.topic, msg.cards)
		}
		return s, nil

	case spinner.TickMsg:
		if !s.generating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if s.generating {
			return s, nil
		}
		if s.deck != nil {
			switch msg.String() {
			case "space", " ", "enter":
				s.deck.Flip()
			case "right", "l":
				s.deck.Next()
			case "left", "h":
				s.deck.Prev()
			case "n":
				s.deck = nil
				s.input.SetValue(s.topic)
				return s, s.input.Focus()
			}
			return s, nil
		}
		if msg.String() == "enter" {
			if topic := s.input.Value(); topic != "" {
				return s, s.generate(topic)
			}
			return s, nil
		}
	}

	if s.deck == nil && !s.generating {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string

	switch {
	case s.generating:
		body = fmt.Sprintf("%s Making flashcards about %s…", s.spinner.View(), theme.Selected.Render(s.topic))
	case s.deck == nil:
		body = components.Panel("FLASHCARD TOPIC", s.input.View(), cw)
		if s.warning != "" {
			body += "\n" + theme.Incorrect.Render(s.warning)
		}
	default:
		body = s.cardView(cw)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) cardView(cw int) string {
	card, _ := s.deck.Current()

	side, text, color := "FRONT", card.Front, theme.Text
	if s.deck.Flipped() {
		side, text, color = "BACK", card.Back, theme.Secondary
	}

	face := lipgloss.NewStyle().
		Width(cw-6).
		Height(7).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(color).
		Bold(!s.deck.Flipped()).
		Render(text)

	head := fmt.Sprintf("%s · %s · %s", s.deck.Topic, s.deck.Position(), side)
	parts := []string{theme.Hint.Render(head), face}
	if s.fallback {
		parts = append(parts, theme.Hint.Render("Offline deck"))
	}
	return components.Panel("", strings.Join(parts, "\n"), cw)
}
