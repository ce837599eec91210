// Package tutor is the study assistant chat screen.
package tutor

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/screen"
	quizscreen "github.com/abhisek/studyz/internal/screens/quiz"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tutor"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
	"github.com/abhisek/studyz/internal/ui/theme"
)

// historySize bounds the transcript.
const historySize = 20

const greeting = "Hi! Ask me about variables, loops, functions, arrays, objects, React or hooks. " +
	"I can also start or pause the timer, take a break, or quiz you."

type line struct {
	user bool
	text string
}

// Screen is a text chat with the keyword tutor.
type Screen struct {
	engine *study.Engine
	tutor  *tutor.Tutor
	gen    quizgen.Generator
	input  components.TextInput
	lines  []line
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the tutor screen.
func New(engine *study.Engine, t *tutor.Tutor, gen quizgen.Generator) *Screen {
	return &Screen{
		engine: engine,
		tutor:  t,
		gen:    gen,
		input:  components.NewTextInput("Ask a question or say \"start\"", 200),
		lines:  []line{{text: greeting}},
	}
}

func (s *Screen) Init() tea.Cmd { return s.input.Init() }

func (s *Screen) Title() string { return "Tutor" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok && key.String() == "enter" {
		return s, s.send()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) send() tea.Cmd {
	text := s.input.Value()
	if text == "" {
		return nil
	}
	s.input.Reset()

	reply := s.tutor.Reply(text)
	s.append(line{user: true, text: text}, line{text: reply.Text})

	if reply.Command == tutor.CommandQuiz {
		next := quizscreen.New(s.engine, s.gen, QuizTopic(text))
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	s.engine.ApplyCommand(context.Background(), reply.Command)
	return nil
}

func (s *Screen) append(ls ...line) {
	s.lines = append(s.lines, ls...)
	if n := len(s.lines); n > historySize {
		s.lines = s.lines[n-historySize:]
	}
}

// QuizTopic pulls the subject out of requests like "quiz me on loops".
// It returns "" when no subject follows.
func QuizTopic(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		switch strings.ToLower(strings.Trim(w, ",.!?")) {
		case "on", "about":
			return strings.Trim(strings.Join(words[i+1:], " "), ",.!? ")
		}
	}
	return ""
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	you := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	bot := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	wrap := lipgloss.NewStyle().Width(cw - 10)

	// Keep the newest lines that fit above the input.
	budget := max(height-8, 4)
	var rendered []string
	for i := len(s.lines) - 1; i >= 0 && budget > 0; i-- {
		l := s.lines[i]
		who := bot.Render("tutor")
		if l.user {
			who = you.Render("you  ")
		}
		block := lipgloss.JoinHorizontal(lipgloss.Top, who+" ", wrap.Render(l.text))
		budget -= lipgloss.Height(block)
		rendered = append([]string{block}, rendered...)
	}

	transcript := components.Panel("CHAT", strings.Join(rendered, "\n"), cw)
	input := components.Panel("", s.input.View(), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, transcript+"\n"+input)
}
