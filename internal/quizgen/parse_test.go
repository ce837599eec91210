package quizgen

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var stackQuestion = Question{
	Text:    "Which data structure is LIFO?",
	Options: []string{"Queue", "Array", "Stack", "Tree"},
	Correct: 2,
}

const stackJSON = `{"question":"Which data structure is LIFO?","options":["Queue","Array","Stack","Tree"],"correct":2}`

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Question
	}{
		{
			name: "bare array",
			raw:  `[` + stackJSON + `]`,
			want: []Question{stackQuestion},
		},
		{
			name: "questions key",
			raw:  `{"questions":[` + stackJSON + `]}`,
			want: []Question{stackQuestion},
		},
		{
			name: "quiz key",
			raw:  `{"quiz":[` + stackJSON + `]}`,
			want: []Question{stackQuestion},
		},
		{
			name: "data key",
			raw:  `{"data":[` + stackJSON + `]}`,
			want: []Question{stackQuestion},
		},
		{
			name: "any array key",
			raw:  `{"meta":{"n":1},"items":[` + stackJSON + `]}`,
			want: []Question{stackQuestion},
		},
		{
			name: "single question object",
			raw:  stackJSON,
			want: []Question{stackQuestion},
		},
		{
			name: "embedded in prose",
			raw:  "Sure! Here is your quiz:\n```json\n[" + stackJSON + "]\n```\nGood luck!",
			want: []Question{stackQuestion},
		},
		{
			name: "json string wrapping json",
			raw:  `"[{\"question\":\"Which data structure is LIFO?\",\"options\":[\"Queue\",\"Array\",\"Stack\",\"Tree\"],\"correct\":2}]"`,
			want: []Question{stackQuestion},
		},
		{
			name: "correct_index alias",
			raw:  `[{"question":"Which data structure is LIFO?","options":["Queue","Array","Stack","Tree"],"correct_index":2}]`,
			want: []Question{stackQuestion},
		},
		{
			name: "answer as option text",
			raw:  `[{"question":"Which data structure is LIFO?","options":["Queue","Array","Stack","Tree"],"answer":"stack"}]`,
			want: []Question{stackQuestion},
		},
		{
			name: "answer as letter",
			raw:  `[{"question":"Which data structure is LIFO?","choices":["Queue","Array","Stack","Tree"],"answer":"C"}]`,
			want: []Question{stackQuestion},
		},
		{
			name: "correct as numeric string",
			raw:  `[{"question":"Which data structure is LIFO?","options":["Queue","Array","Stack","Tree"],"correct":"2"}]`,
			want: []Question{stackQuestion},
		},
		{
			name: "unresolvable answer kept as -1",
			raw:  `[{"question":"Q?","options":["a","b","c","d"],"answer":"none of these"}]`,
			want: []Question{{Text: "Q?", Options: []string{"a", "b", "c", "d"}, Correct: -1}},
		},
		{
			name: "non-object items skipped",
			raw:  `[1, "two", ` + stackJSON + `]`,
			want: []Question{stackQuestion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuestions([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("questions mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseQuestions_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"prose only", `I cannot help with that.`},
		{"broken json span", `here: {"questions": [ {"question": }`},
		{"object without arrays", `{"message":"hello"}`},
		{"empty array", `[]`},
		{"number", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuestions([]byte(tt.raw))
			if !errors.Is(err, ErrNoQuestions) {
				t.Fatalf("expected ErrNoQuestions, got %v", err)
			}
		})
	}
}

func TestParseCards(t *testing.T) {
	want := []Card{
		{Front: "Mitochondria", Back: "Powerhouse of the cell"},
		{Front: "Ribosome", Back: "Builds proteins"},
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"cards key", `{"cards":[{"front":"Mitochondria","back":"Powerhouse of the cell"},{"front":"Ribosome","back":"Builds proteins"}]}`},
		{"flashcards key", `{"flashcards":[{"front":"Mitochondria","back":"Powerhouse of the cell"},{"front":"Ribosome","back":"Builds proteins"}]}`},
		{"term and definition", `[{"term":"Mitochondria","definition":"Powerhouse of the cell"},{"term":"Ribosome","definition":"Builds proteins"}]`},
		{"question and answer", `[{"question":"Mitochondria","answer":"Powerhouse of the cell"},{"question":"Ribosome","answer":"Builds proteins"}]`},
		{"prose wrapped", "Here you go:\n{\"cards\":[{\"front\":\"Mitochondria\",\"back\":\"Powerhouse of the cell\"},{\"front\":\"Ribosome\",\"back\":\"Builds proteins\"}]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards([]byte(tt.raw))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("cards mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseCards_NoCards(t *testing.T) {
	if _, err := ParseCards([]byte(`{"cards":[]}`)); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
