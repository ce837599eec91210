package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyz/internal/llm"
)

func quizJSON(qs ...Question) json.RawMessage {
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return b
}

func numbered(n int) []Question {
	qs := make([]Question, n)
	for i := range qs {
		qs[i] = Question{
			Text:    fmt.Sprintf("Question %d about Go?", i+1),
			Options: []string{"a", "b", "c", "d"},
			Correct: i % 4,
		}
	}
	return qs
}

func TestQuiz_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(numbered(5)...)})
	gen := New(mock, DefaultConfig(), nil)

	qs, err := gen.Quiz(context.Background(), "  Go concurrency ")
	require.NoError(t, err)
	assert.Len(t, qs, 5)
	assert.Equal(t, "Question 1 about Go?", qs[0].Text)

	req, ok := mock.LastCall()
	require.True(t, ok)
	assert.Equal(t, QuizSchema, req.Schema)
	assert.Contains(t, req.Messages[0].Content, "Topic: Go concurrency\n")
	assert.Contains(t, req.Messages[0].Content, "Number of questions: 5")
	assert.Contains(t, req.Messages[0].Content, "Already asked:\nNone")
}

func TestQuiz_PurposeLabel(t *testing.T) {
	var purpose string
	p := providerFunc(func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: quizJSON(numbered(1)...)}, nil
	})
	_, err := New(p, DefaultConfig(), nil).Quiz(context.Background(), "history")
	require.NoError(t, err)
	assert.Equal(t, llm.PurposeQuiz, purpose)
}

func TestQuiz_DropsInvalidQuestions(t *testing.T) {
	qs := numbered(4)
	qs[1].Options = qs[1].Options[:2]
	qs[2].Options = []string{"x", "X", "y", "z"}
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(qs...)})

	got, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "go")
	require.NoError(t, err)
	if diff := cmp.Diff([]Question{qs[0], qs[3]}, got); diff != "" {
		t.Fatalf("unexpected questions (-want +got):\n%s", diff)
	}
}

func TestQuiz_AllInvalid(t *testing.T) {
	qs := numbered(2)
	qs[0].Correct = 9
	qs[1].Text = ""
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(qs...)})

	_, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "go")
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestQuiz_CapsAtQuestionCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: quizJSON(numbered(9)...)})

	got, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestQuiz_ExcludesPriorQuestions(t *testing.T) {
	first := numbered(3)
	second := append(numbered(2), Question{
		Text:    "A brand new question?",
		Options: []string{"a", "b", "c", "d"},
	})
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: quizJSON(first...)},
		llm.MockResponse{Content: quizJSON(second...)},
	)
	gen := New(mock, DefaultConfig(), nil)

	_, err := gen.Quiz(context.Background(), "Go")
	require.NoError(t, err)

	got, err := gen.Quiz(context.Background(), "go")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A brand new question?", got[0].Text)

	req, _ := mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, "1. Question 1 about Go?")
	assert.Contains(t, req.Messages[0].Content, "3. Question 3 about Go?")
}

func TestQuiz_SalvagesOffSchemaResponse(t *testing.T) {
	raw := json.RawMessage(`{"quiz":[{"question":"Capital of Japan?","choices":["Kyoto","Tokyo","Osaka","Nara"],"answer":"Tokyo"}]}`)
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrInvalidResponse{Content: raw, Err: errors.New("missing properties: 'questions'")},
	})

	got, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "geography")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tokyo", got[0].Answer())
}

func TestQuiz_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
	})

	_, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "go")
	var unavail *llm.ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Contains(t, err.Error(), "LLM generation failed")
}

func TestQuiz_EmptyTopic(t *testing.T) {
	mock := llm.NewMockProvider()
	_, err := New(mock, DefaultConfig(), nil).Quiz(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyTopic)
	assert.Zero(t, mock.CallCount())
}

func TestFlashcards(t *testing.T) {
	content := json.RawMessage(`{"cards":[
		{"front":"Goroutine","back":"A lightweight thread managed by the Go runtime."},
		{"front":"goroutine","back":"Duplicate front."},
		{"front":"Channel","back":""},
		{"front":"Select","back":"Waits on multiple channel operations."}
	]}`)
	mock := llm.NewMockProvider(llm.MockResponse{Content: content})

	cards, err := New(mock, DefaultConfig(), nil).Flashcards(context.Background(), "Go")
	require.NoError(t, err)
	want := []Card{
		{Front: "Goroutine", Back: "A lightweight thread managed by the Go runtime."},
		{Front: "Select", Back: "Waits on multiple channel operations."},
	}
	if diff := cmp.Diff(want, cards); diff != "" {
		t.Fatalf("unexpected cards (-want +got):\n%s", diff)
	}

	req, _ := mock.LastCall()
	assert.Equal(t, CardsSchema, req.Schema)
	assert.True(t, strings.HasSuffix(req.Messages[0].Content, "Number of cards: 8"))
}

func TestFlashcards_NoneUsable(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"cards":[{"front":"x","back":""}]}`)})
	_, err := New(mock, DefaultConfig(), nil).Flashcards(context.Background(), "Go")
	require.ErrorIs(t, err, ErrNoQuestions)
}

func TestFallback(t *testing.T) {
	qs := Fallback()
	require.Len(t, qs, 5)
	v := DefaultConfig().Validators
	for i := range qs {
		assert.Nil(t, runValidators(v, &qs[i]), "fallback question %d", i)
	}

	// Callers get a copy.
	qs[0].Options[0] = "mutated"
	assert.NotEqual(t, "mutated", Fallback()[0].Options[0])

	cards := FallbackCards()
	require.Len(t, cards, 5)
	assert.Equal(t, "O(log n)", cards[1].Back)
}

func TestStatic(t *testing.T) {
	var g Generator = Static{}
	qs, err := g.Quiz(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, qs, 5)

	_, err = g.Flashcards(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

// providerFunc adapts a function to llm.Provider.
type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (providerFunc) ModelID() string { return "func" }

func TestQuizOrFallback(t *testing.T) {
	ctx := context.Background()

	qs, fallback, err := QuizOrFallback(ctx, nil, "go")
	assert.NoError(t, err)
	assert.True(t, fallback)
	assert.Len(t, qs, 5)

	failing := New(llm.NewMockProvider(llm.MockResponse{
		Err: &llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
	}), DefaultConfig(), nil)
	qs, fallback, err = QuizOrFallback(ctx, failing, "go")
	assert.Error(t, err)
	assert.True(t, fallback)
	assert.Equal(t, Fallback(), qs)

	ok := New(llm.NewMockProvider(llm.MockResponse{Content: quizJSON(numbered(3)...)}), DefaultConfig(), nil)
	qs, fallback, err = QuizOrFallback(ctx, ok, "go")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Len(t, qs, 3)

	_, fallback, err = QuizOrFallback(ctx, Static{}, " ")
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.False(t, fallback)
}

func TestCardsOrFallback(t *testing.T) {
	cards, fallback, err := CardsOrFallback(context.Background(), nil, "go")
	assert.NoError(t, err)
	assert.True(t, fallback)
	assert.Equal(t, FallbackCards(), cards)
}
