package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/studyz/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func TestLogging_RecordsSuccessfulRequest(t *testing.T) {
	repo := openEventRepo(t)
	core, logs := observer.New(zapcore.DebugLevel)
	mock := NewMockProvider(MockResponse{
		Content: []byte(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160},
	})
	p := WithLogging(mock, "ollama", repo, zap.New(core))

	ctx := WithPurpose(context.Background(), PurposeQuiz)
	_, err := p.Generate(ctx, Request{
		System:   "You write quizzes.",
		Messages: []Message{{Role: RoleUser, Content: "Topic: photosynthesis"}},
		Schema:   &Schema{Name: "quiz", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Provider != "ollama" || ev.Model != "mock" || ev.Purpose != "quiz-gen" {
		t.Fatalf("unexpected event: %+v", ev.LLMRequestEventData)
	}
	if !ev.Success || ev.InputTokens != 120 || ev.OutputTokens != 40 {
		t.Fatalf("unexpected usage: %+v", ev.LLMRequestEventData)
	}
	for _, want := range []string{"[system]", "You write quizzes.", "[user]", "photosynthesis", "[schema: quiz]"} {
		if !strings.Contains(ev.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ev.RequestBody)
		}
	}
	if ev.ResponseBody != `{"questions":[]}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}

	if logs.FilterMessage("llm request").Len() != 1 {
		t.Fatalf("expected one debug log line, got %v", logs.All())
	}
}

func TestLogging_RecordsFailure(t *testing.T) {
	repo := openEventRepo(t)
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("connection refused")}})
	p := WithLogging(mock, "ollama", repo, zap.New(core))

	_, err := p.Generate(WithPurpose(context.Background(), PurposeFlashcards), Request{})
	if err == nil {
		t.Fatal("expected error")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 1 || events[0].Success {
		t.Fatalf("expected one failed event, got %+v", events)
	}
	if !strings.Contains(events[0].ErrorMessage, "connection refused") {
		t.Fatalf("error message = %q", events[0].ErrorMessage)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected a warning, got %v", logs.All())
	}
}

func TestLogging_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockText("hi")), "mock", nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}
