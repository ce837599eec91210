package quiz

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/quizgen"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
)

func newEngine(t *testing.T) *study.Engine {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	s := config.Default()
	s.Timer.Study = time.Minute
	return study.New(study.Options{Settings: s, Store: st})
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var questions = []quizgen.Question{
	{Text: "2+2?", Options: []string{"3", "4", "5", "6"}, Correct: 1},
	{Text: "3+3?", Options: []string{"6", "7", "8", "9"}, Correct: 0},
}

// ready puts s into the question stage as if generation had finished.
func ready(t *testing.T, s *Screen, fallback bool) {
	t.Helper()
	s.generate("arithmetic")
	s.Update(quizReadyMsg{seq: s.seq, questions: questions, fallback: fallback})
	if s.stage != stageQuestion {
		t.Fatalf("stage = %v, want question", s.stage)
	}
}

func TestQuizScreen_Title(t *testing.T) {
	s := New(newEngine(t), nil, "")
	if s.Title() != "Quiz" {
		t.Errorf("Title = %q, want %q", s.Title(), "Quiz")
	}
	if s.stage != stageTopic {
		t.Errorf("stage = %v, want topic", s.stage)
	}
}

func TestQuizScreen_TopicStartsGenerating(t *testing.T) {
	s := New(newEngine(t), nil, "  closures ")
	if cmd := s.Init(); cmd == nil {
		t.Fatal("expected a generation command")
	}
	if s.stage != stageGenerating || s.topic != "closures" {
		t.Errorf("stage = %v topic = %q, want generating closures", s.stage, s.topic)
	}
}

func TestQuizScreen_StaleResultIgnored(t *testing.T) {
	s := New(newEngine(t), nil, "")
	s.generate("a")
	s.generate("b")
	s.Update(quizReadyMsg{seq: 1, questions: questions})
	if s.stage != stageGenerating {
		t.Errorf("stale result changed stage to %v", s.stage)
	}
}

func TestQuizScreen_PerfectRunAwardsXP(t *testing.T) {
	engine := newEngine(t)
	s := New(engine, nil, "")
	ready(t, s, false)

	s.Update(key('2'))
	if !s.choice.Submitted || s.run.Score() != 1 {
		t.Fatalf("first answer not scored: submitted=%v score=%d", s.choice.Submitted, s.run.Score())
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(key('1'))
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.stage != stageSummary {
		t.Fatalf("stage = %v, want summary", s.stage)
	}
	r := config.Default().Rewards
	want := 2*r.QuizCorrect + r.QuizPerfect
	if s.xp != want {
		t.Errorf("xp = %d, want %d", s.xp, want)
	}
	if got := engine.View().XP; got != want {
		t.Errorf("engine XP = %d, want %d", got, want)
	}
}

func answerAll(s *Screen, keys ...rune) {
	for _, r := range keys {
		s.Update(key(r))
		s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	}
}

func TestQuizScreen_RetakeEarnsNoXP(t *testing.T) {
	engine := newEngine(t)
	s := New(engine, nil, "")
	ready(t, s, false)

	answerAll(s, '2', '1')
	earned := engine.View().XP
	if earned == 0 || s.xp != earned {
		t.Fatalf("first finish: xp = %d, engine = %d", s.xp, earned)
	}

	s.Update(key('r'))
	answerAll(s, '2', '1')
	if s.stage != stageSummary {
		t.Fatalf("stage = %v, want summary", s.stage)
	}
	if s.xp != 0 || engine.View().XP != earned {
		t.Errorf("retake awarded XP: screen %d, engine %d, want engine %d", s.xp, engine.View().XP, earned)
	}
	if !strings.Contains(s.View(100, 30), "Practice round") {
		t.Error("summary should say the retake was practice")
	}

	// A freshly generated set earns XP again.
	s.Update(key('n'))
	ready(t, s, false)
	answerAll(s, '2', '1')
	if engine.View().XP != 2*earned {
		t.Errorf("engine XP = %d, want %d", engine.View().XP, 2*earned)
	}
}

func TestQuizScreen_RestartAndNewTopic(t *testing.T) {
	s := New(newEngine(t), nil, "")
	ready(t, s, true)
	for range 2 {
		s.Update(key('4'))
		s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	}
	if s.stage != stageSummary || s.xp != 0 {
		t.Fatalf("stage = %v xp = %d, want summary with no XP", s.stage, s.xp)
	}

	s.Update(key('r'))
	if s.stage != stageQuestion || s.run.Index() != 0 {
		t.Errorf("restart: stage = %v index = %d", s.stage, s.run.Index())
	}

	for range 2 {
		s.Update(key('4'))
		s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	}
	s.Update(key('n'))
	if s.stage != stageTopic {
		t.Errorf("stage = %v, want topic", s.stage)
	}
	if s.input.Value() != "arithmetic" {
		t.Errorf("input = %q, want previous topic", s.input.Value())
	}
}

func TestQuizScreen_EmptyResultReturnsToTopic(t *testing.T) {
	s := New(newEngine(t), nil, "")
	s.generate("x")
	s.Update(quizReadyMsg{seq: s.seq, err: quizgen.ErrEmptyTopic})
	if s.stage != stageTopic {
		t.Errorf("stage = %v, want topic", s.stage)
	}
	if s.warning == "" {
		t.Error("expected a warning")
	}
}

func TestQuizScreen_View(t *testing.T) {
	s := New(newEngine(t), nil, "")
	ready(t, s, true)
	if view := s.View(80, 24); view == "" {
		t.Error("expected non-empty question view")
	}
}
