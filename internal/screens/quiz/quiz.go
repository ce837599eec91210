// Package quiz is the multiple-choice quiz screen.
package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	quizstate "github.com/abhisek/studyz/internal/quiz"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
	"github.com/abhisek/studyz/internal/ui/theme"
)

// GenerateTimeout bounds one generation request.
const GenerateTimeout = 2 * time.Minute

type stage int

const (
	stageTopic stage = iota
	stageGenerating
	stageQuestion
	stageSummary
)

type quizReadyMsg struct {
	seq       int
	questions []quizgen.Question
	fallback  bool
	err       error
}

// Screen runs a quiz: topic prompt, generation, questions, summary.
type Screen struct {
	engine *study.Engine
	gen    quizgen.Generator

	stage    stage
	topic    string
	input    components.TextInput
	spinner  spinner.Model
	seq      int
	run      *quizstate.Run
	choice   components.MultiChoice
	fallback bool
	warning  string
	xp       int
	// retake is set once the current question set has earned XP. Later
	// finishes of the same set are practice.
	retake bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the quiz screen. A non-empty topic starts generating at once.
func New(engine *study.Engine, gen quizgen.Generator, topic string) *Screen {
	return &Screen{
		engine:  engine,
		gen:     gen,
		topic:   strings.TrimSpace(topic),
		input:   components.NewTextInput("Topic, e.g. JavaScript closures", 100),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
}

func (s *Screen) Init() tea.Cmd {
	if s.topic != "" {
		return s.generate(s.topic)
	}
	return s.input.Init()
}

func (s *Screen) Title() string { return "Quiz" }

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.stage {
	case stageTopic:
		return []layout.KeyHint{{Key: "Enter", Description: "Generate"}, {Key: "Esc", Description: "Back"}}
	case stageQuestion:
		if s.choice.Submitted {
			return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Back"}}
		}
		return []layout.KeyHint{{Key: "1-4", Description: "Answer"}, {Key: "↑↓ Enter", Description: "Pick"}, {Key: "Esc", Description: "Back"}}
	case stageSummary:
		return []layout.KeyHint{{Key: "r", Description: "Restart"}, {Key: "n", Description: "New topic"}, {Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) generate(topic string) tea.Cmd {
	s.stage = stageGenerating
	s.topic = topic
	s.seq++
	seq, gen := s.seq, s.gen
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), GenerateTimeout)
		defer cancel()
		qs, fallback, err := quizgen.QuizOrFallback(ctx, gen, topic)
		return quizReadyMsg{seq: seq, questions: qs, fallback: fallback, err: err}
	})
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		if msg.seq != s.seq || s.stage != stageGenerating {
			return s, nil
		}
		s.fallback = msg.fallback
		s.warning = ""
		if msg.err != nil {
			s.warning = msg.err.Error()
		}
		if len(msg.questions) == 0 {
			s.stage = stageTopic
			return s, s.input.Focus()
		}
		s.run = quizstate.NewRun(s.topic, msg.questions)
		s.retake = false
		s.showQuestion()
		return s, nil

	case spinner.TickMsg:
		if s.stage != stageGenerating {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}

	if s.stage == stageTopic {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch s.stage {
	case stageTopic:
		if key == "enter" {
			if topic := s.input.Value(); topic != "" {
				return s.generate(topic)
			}
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd

	case stageQuestion:
		if s.choice.Submitted {
			if key == "enter" || key == "space" || key == " " || key == "right" {
				s.run.Next()
				s.showQuestion()
			}
			return nil
		}
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			s.run.Answer(s.choice.ChosenIndex)
		}

	case stageSummary:
		switch key {
		case "r":
			s.run.Restart()
			s.showQuestion()
		case "n":
			s.stage = stageTopic
			s.input.SetValue(s.topic)
			return s.input.Focus()
		}
	}
	return nil
}

// showQuestion moves to the run's current question, or to the summary
// once the run has finished. Only the first finish of a question set
// earns XP.
func (s *Screen) showQuestion() {
	q, ok := s.run.Current()
	if !ok {
		s.stage = stageSummary
		if s.retake {
			s.xp = 0
			return
		}
		sum := s.run.Summary()
		s.xp = s.engine.RecordQuizResult(context.Background(), sum.Topic, sum.Score, sum.Total)
		s.retake = true
		return
	}
	s.stage = stageQuestion
	s.choice = components.NewMultiChoice(q.Text, q.Options, q.Correct)
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string

	switch s.stage {
	case stageTopic:
		body = components.Panel("QUIZ TOPIC", s.input.View(), cw)
		if s.warning != "" {
			body += "\n" + theme.Incorrect.Render(s.warning)
		}
	case stageGenerating:
		body = fmt.Sprintf("%s Generating a quiz about %s…", s.spinner.View(), theme.Selected.Render(s.topic))
	case stageQuestion:
		body = s.questionView(cw)
	case stageSummary:
		body = s.summaryView(cw)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *Screen) questionView(cw int) string {
	head := fmt.Sprintf("%s · question %d of %d · score %d",
		s.run.Topic, s.run.Index()+1, s.run.Len(), s.run.Score())
	bar := components.ProgressBar{Percent: s.run.Progress(), Width: cw - 4}

	parts := []string{theme.Hint.Render(head), bar.View(), "", s.choice.View()}
	if s.fallback {
		parts = append([]string{theme.Hint.Render("Offline question bank")}, parts...)
	}
	if s.choice.Submitted {
		if s.choice.IsCorrect() {
			parts = append(parts, theme.Correct.Render("✓ Correct!"))
		} else {
			q, _ := s.run.Current()
			parts = append(parts, theme.Incorrect.Render("✗ The answer is: "+q.Answer()))
		}
	}
	return components.Panel("", strings.Join(parts, "\n"), cw)
}

func (s *Screen) summaryView(cw int) string {
	sum := s.run.Summary()
	var verdict string
	switch {
	case sum.Perfect:
		verdict = theme.Correct.Render("Perfect score!")
	case sum.Passed:
		verdict = theme.Correct.Render("Nice work, you passed.")
	default:
		verdict = theme.Incorrect.Render("Keep practising, you'll get there.")
	}
	lines := []string{
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Quiz complete: " + sum.Topic),
		"",
		"Score: " + sum.String(),
		verdict,
		lipgloss.NewStyle().Foreground(theme.Gold).Render(fmt.Sprintf("+%d XP", s.xp)),
	}
	if s.retake && s.xp == 0 && sum.Score > 0 {
		lines[len(lines)-1] = theme.Hint.Render("Practice round: XP is earned on the first try")
	}
	return components.Panel("", strings.Join(lines, "\n"), cw)
}
