package quizgen

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// jsonSpan finds the first object or array embedded in chatty output.
var jsonSpan = regexp.MustCompile(`(?s)\{.*\}|\[.*\]`)

var (
	questionKeys = []string{"questions", "quiz", "data"}
	cardKeys     = []string{"cards", "flashcards", "data"}
)

// ParseQuestions leniently extracts questions from a model response. It
// accepts a bare array, an object wrapping one under a common key or any
// key, a single question object, JSON embedded in prose, and JSON encoded
// as a string. Items are returned unvalidated.
func ParseQuestions(raw []byte) ([]Question, error) {
	root, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out []Question
	for _, v := range itemsOf(root, questionKeys, "question") {
		if q, ok := questionFrom(v); ok {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

// ParseCards is ParseQuestions for flashcards. Cards may use front/back,
// term/definition or question/answer.
func ParseCards(raw []byte) ([]Card, error) {
	root, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var out []Card
	for _, v := range itemsOf(root, cardKeys, "front") {
		if c, ok := cardFrom(v); ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoQuestions
	}
	return out, nil
}

func extractJSON(raw []byte) (gjson.Result, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return gjson.Result{}, fmt.Errorf("%w: empty response", ErrNoQuestions)
	}

	if gjson.ValidBytes(trimmed) {
		r := gjson.ParseBytes(trimmed)
		if r.Type == gjson.String {
			// A plain-text reply that itself carries JSON.
			return extractJSON([]byte(r.Str))
		}
		return r, nil
	}

	span := jsonSpan.Find(trimmed)
	if span == nil {
		return gjson.Result{}, fmt.Errorf("%w: no JSON in response", ErrNoQuestions)
	}
	if !gjson.ValidBytes(span) {
		return gjson.Result{}, fmt.Errorf("%w: failed to extract valid JSON", ErrNoQuestions)
	}
	return gjson.ParseBytes(span), nil
}

// itemsOf locates the item array: the value itself, a known key, a single
// item object recognised by marker, or the first array-valued key.
func itemsOf(root gjson.Result, keys []string, marker string) []gjson.Result {
	if root.IsArray() {
		return root.Array()
	}
	if !root.IsObject() {
		return nil
	}
	for _, k := range keys {
		if v := root.Get(k); v.IsArray() {
			return v.Array()
		}
	}
	if root.Get(marker).Exists() {
		return []gjson.Result{root}
	}

	var found []gjson.Result
	root.ForEach(func(_, v gjson.Result) bool {
		if v.IsArray() {
			found = v.Array()
			return false
		}
		return true
	})
	return found
}

func questionFrom(v gjson.Result) (Question, bool) {
	if !v.IsObject() {
		return Question{}, false
	}
	q := Question{
		Text:    strings.TrimSpace(firstOf(v, "question", "text", "prompt").String()),
		Correct: -1,
	}
	for _, o := range firstOf(v, "options", "choices").Array() {
		q.Options = append(q.Options, strings.TrimSpace(o.String()))
	}
	q.Correct = correctIndex(firstOf(v, "correct", "correct_index", "answer"), q.Options)
	return q, true
}

func cardFrom(v gjson.Result) (Card, bool) {
	if !v.IsObject() {
		return Card{}, false
	}
	return Card{
		Front: strings.TrimSpace(firstOf(v, "front", "term", "question").String()),
		Back:  strings.TrimSpace(firstOf(v, "back", "definition", "answer").String()),
	}, true
}

func firstOf(v gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if r := v.Get(k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// correctIndex resolves the correct answer to an option index. Models
// answer with an index, an index as text, a letter ("B"), or the option
// text itself. Unresolvable answers yield -1.
func correctIndex(r gjson.Result, options []string) int {
	switch r.Type {
	case gjson.Number:
		return int(r.Int())
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if len(s) == 1 {
			c := s[0] | 0x20 // lower-case ASCII letters
			if c >= 'a' && c < 'a'+byte(len(options)) {
				return int(c - 'a')
			}
		}
		want := normalize(s)
		for i, o := range options {
			if normalize(o) == want {
				return i
			}
		}
	}
	return -1
}
