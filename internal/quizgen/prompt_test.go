package quizgen

import (
	"fmt"
	"strings"
	"testing"
)

func TestBuildQuizMessage(t *testing.T) {
	msg := buildQuizMessage("Photosynthesis", 5, nil, 20)
	for _, want := range []string{
		"Topic: Photosynthesis\n",
		"Number of questions: 5\n",
		"Already asked:\nNone",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildQuizMessage_PriorQuestionsCapped(t *testing.T) {
	var prior []string
	for i := 1; i <= 25; i++ {
		prior = append(prior, fmt.Sprintf("Q%d?", i))
	}
	msg := buildQuizMessage("Go", 5, prior, 20)

	if strings.Contains(msg, "Q5?") {
		t.Error("oldest prior questions should be dropped")
	}
	if !strings.Contains(msg, "1. Q6?") || !strings.Contains(msg, "20. Q25?") {
		t.Errorf("expected the 20 most recent questions, got:\n%s", msg)
	}
}

func TestBuildCardsMessage(t *testing.T) {
	if got := buildCardsMessage("Cell biology", 8); got != "Topic: Cell biology\nNumber of cards: 8" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestDedupe(t *testing.T) {
	qs := []Question{
		{Text: "What is a goroutine?"},
		{Text: "what is a   GOROUTINE?"},
		{Text: "What is a channel?"},
		{Text: "What is select?"},
	}
	got := dedupe(qs, []string{"What is select?"})
	if len(got) != 2 || got[0].Text != "What is a goroutine?" || got[1].Text != "What is a channel?" {
		t.Fatalf("unexpected dedupe result: %+v", got)
	}
}
