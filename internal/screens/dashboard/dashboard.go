// Package dashboard is the home screen: timer, progress, tasks summary,
// ambient mixer and the menu to every other screen.
package dashboard

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/screens/flashcards"
	"github.com/abhisek/studyz/internal/screens/quiz"
	"github.com/abhisek/studyz/internal/screens/stats"
	taskscreen "github.com/abhisek/studyz/internal/screens/tasks"
	tutorscreen "github.com/abhisek/studyz/internal/screens/tutor"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tasks"
	"github.com/abhisek/studyz/internal/tutor"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
)

// previewTasks is how many open tasks the summary lists.
const previewTasks = 3

// Deps are the services the dashboard and its child screens use.
type Deps struct {
	Engine *study.Engine
	// Generator may be nil; quizzes then come from the fallback bank.
	Generator quizgen.Generator
	Tutor     *tutor.Tutor
	// Awards feeds the stats screen's award history. May be nil.
	Awards stats.AwardSource
	Logger *zap.Logger
}

type taskSummary struct {
	open, done int
	preview    []string
	err        error
}

// Screen is the dashboard.
type Screen struct {
	deps  Deps
	menu  components.Menu
	track int
	tasks taskSummary
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the dashboard.
func New(deps Deps) *Screen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Tutor == nil {
		deps.Tutor = tutor.New(nil)
	}
	s := &Screen{deps: deps}
	s.menu = components.NewMenu([]components.MenuItem{
		{Label: "Tasks", Key: "t", Action: s.push(func() screen.Screen {
			return taskscreen.New(deps.Engine)
		})},
		{Label: "Quiz", Key: "z", Action: s.push(func() screen.Screen {
			return quiz.New(deps.Engine, deps.Generator, "")
		})},
		{Label: "Flashcards", Key: "f", Action: s.push(func() screen.Screen {
			return flashcards.New(deps.Generator)
		})},
		{Label: "Stats", Key: "g", Action: s.push(func() screen.Screen {
			return stats.New(deps.Engine, deps.Awards)
		})},
		{Label: "Tutor", Key: "a", Action: s.push(func() screen.Screen {
			return tutorscreen.New(deps.Engine, deps.Tutor, deps.Generator)
		})},
		{Label: "Quit", Key: "q", Action: func() tea.Cmd { return tea.Quit }},
	})
	return s
}

func (s *Screen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		next := build()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func (s *Screen) Init() tea.Cmd {
	s.refreshTasks()
	return nil
}

func (s *Screen) Title() string {
	return "Dashboard"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Space", Description: "Start/Pause"},
		{Key: "r", Description: "Reset"},
		{Key: "s", Description: "Skip"},
		{Key: "b", Description: "Break"},
		{Key: "m", Description: "Sound"},
		{Key: "←→ +/-", Description: "Volume"},
		{Key: "x", Description: "Mute"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.EngineTickMsg:
		s.refreshTasks()
		return s, nil

	case tea.KeyPressMsg:
		if s.menu.Handles(msg.String()) {
			break
		}
		if s.handleKey(msg.String()) {
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// handleKey runs the timer and mixer shortcuts. Reports whether key was one.
func (s *Screen) handleKey(key string) bool {
	ctx := context.Background()
	e := s.deps.Engine

	switch key {
	case "space", " ":
		e.ToggleTimer(ctx)
	case "r":
		e.Reset(ctx)
	case "s":
		e.Skip(ctx)
	case "b":
		e.StartBreak(ctx)
	case "m":
		e.ToggleMixer(ctx)
	case "left", "h":
		s.selectTrack(-1)
	case "right", "l":
		s.selectTrack(1)
	case "+", "=":
		s.nudge(ambient.VolumeStep)
	case "-", "_":
		s.nudge(-ambient.VolumeStep)
	case "x":
		s.toggleMute()
	default:
		return false
	}
	return true
}

func (s *Screen) selectTrack(delta int) {
	n := len(s.deps.Engine.Mixer().Tracks())
	if n == 0 {
		return
	}
	s.track = ((s.track+delta)%n + n) % n
}

func (s *Screen) nudge(delta float64) {
	tracks := s.deps.Engine.Mixer().Tracks()
	if len(tracks) == 0 {
		return
	}
	s.track = min(s.track, len(tracks)-1)
	name := tracks[s.track].Name
	if _, err := s.deps.Engine.NudgeVolume(context.Background(), name, delta); err != nil {
		s.deps.Logger.Warn("nudge volume", zap.String("track", name), zap.Error(err))
	}
}

func (s *Screen) toggleMute() {
	tracks := s.deps.Engine.Mixer().Tracks()
	if len(tracks) == 0 {
		return
	}
	s.track = min(s.track, len(tracks)-1)
	t := tracks[s.track]
	if err := s.deps.Engine.SetMuted(context.Background(), t.Name, !t.Muted); err != nil {
		s.deps.Logger.Warn("mute track", zap.String("track", t.Name), zap.Error(err))
	}
}

func (s *Screen) refreshTasks() {
	list, err := s.deps.Engine.Tasks(context.Background())
	if err != nil {
		s.tasks = taskSummary{err: err}
		return
	}
	open, done := tasks.Counts(list)
	sum := taskSummary{open: open, done: done}
	for _, t := range list {
		if len(sum.preview) == previewTasks {
			break
		}
		if !t.Completed {
			sum.preview = append(sum.preview, t.Text)
		}
	}
	s.tasks = sum
}

func (s *Screen) View(width, height int) string {
	v := s.deps.Engine.View()
	cw := components.ContentWidth(width)
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)

	sections := []string{renderTimer(v, cw, compact)}
	if compact {
		sections = append(sections, renderProgressLine(v, cw))
	} else {
		sections = append(sections,
			renderProgress(v, cw),
			renderTasks(s.tasks, cw),
		)
	}
	sections = append(sections,
		renderMixer(v, s.track, cw),
		renderMenu(s.menu, cw),
	)

	return components.Frame(strings.Join(sections, "\n"), width, height)
}
