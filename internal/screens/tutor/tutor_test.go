package tutor

import (
	"math/rand/v2"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/router"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/timer"
	"github.com/abhisek/studyz/internal/tutor"
)

func newScreen(t *testing.T) (*Screen, *study.Engine) {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	s := config.Default()
	s.Timer.Study = time.Minute
	engine := study.New(study.Options{Settings: s, Store: st})
	return New(engine, tutor.New(rand.New(rand.NewPCG(1, 2))), nil), engine
}

func say(s *Screen, text string) tea.Cmd {
	s.input.SetValue(text)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestTutorScreen_TimerCommands(t *testing.T) {
	s, engine := newScreen(t)

	say(s, "let's start studying")
	if !engine.View().Running {
		t.Error("start should run the timer")
	}

	say(s, "stop please")
	if engine.View().Running {
		t.Error("stop should pause the timer")
	}

	say(s, "I need a break")
	v := engine.View()
	if v.Phase != timer.PhaseBreak || !v.Running {
		t.Errorf("phase = %v running = %v, want running break", v.Phase, v.Running)
	}
}

func TestTutorScreen_QuizPushesQuizScreen(t *testing.T) {
	s, _ := newScreen(t)
	cmd := say(s, "quiz me on loops")
	if cmd == nil {
		t.Fatal("expected a push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("got %T, want PushScreenMsg", cmd())
	}
	if push.Screen.Title() != "Quiz" {
		t.Errorf("pushed %q, want Quiz", push.Screen.Title())
	}
}

func TestTutorScreen_Transcript(t *testing.T) {
	s, _ := newScreen(t)
	say(s, "")
	if len(s.lines) != 1 {
		t.Errorf("empty input added lines: %d", len(s.lines))
	}

	say(s, "what is a closure?")
	if len(s.lines) != 3 || !s.lines[1].user || s.lines[2].user {
		t.Fatalf("lines = %+v", s.lines)
	}
	if s.input.Value() != "" {
		t.Error("input should be cleared after sending")
	}

	for range historySize {
		say(s, "hello")
	}
	if len(s.lines) != historySize {
		t.Errorf("transcript length = %d, want %d", len(s.lines), historySize)
	}
	if view := s.View(80, 30); view == "" {
		t.Error("expected non-empty view")
	}
}

func TestQuizTopic(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"quiz me on loops", "loops"},
		{"Give me a quiz about React hooks!", "React hooks"},
		{"quiz", ""},
		{"quiz me on", ""},
	}
	for _, tt := range tests {
		if got := QuizTopic(tt.in); got != tt.want {
			t.Errorf("QuizTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
