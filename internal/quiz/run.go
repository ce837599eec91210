// Package quiz holds the state of a quiz in progress and a flashcard deck.
package quiz

import (
	"fmt"

	"github.com/abhisek/studyz/internal/quizgen"
)

// Run tracks one pass through a set of questions.
type Run struct {
	Topic     string
	Questions []quizgen.Question

	current    int
	selected   int // -1 while unanswered
	showResult bool
	score      int
	finished   bool
}

// NewRun starts a run over qs. An empty run is finished immediately.
func NewRun(topic string, qs []quizgen.Question) *Run {
	r := &Run{Topic: topic, Questions: qs}
	r.Restart()
	return r
}

// Answer selects option i for the current question and reports whether it
// was correct. It is ignored while a result is already shown, after the
// run finished, or when i is out of range.
func (r *Run) Answer(i int) (correct, accepted bool) {
	if r.finished || r.showResult {
		return false, false
	}
	q := r.Questions[r.current]
	if i < 0 || i >= len(q.Options) {
		return false, false
	}

	r.selected = i
	r.showResult = true
	correct = i == q.Correct
	if correct {
		r.score++
	}
	return correct, true
}

// Next advances past an answered question. After the last question the
// run is finished. Ignored until the current question is answered.
func (r *Run) Next() {
	if !r.showResult || r.finished {
		return
	}
	if r.current < len(r.Questions)-1 {
		r.current++
		r.selected = -1
		r.showResult = false
		return
	}
	r.finished = true
}

// Restart resets progress, keeping the questions.
func (r *Run) Restart() {
	r.current = 0
	r.selected = -1
	r.showResult = false
	r.score = 0
	r.finished = len(r.Questions) == 0
}

// Current returns the question being asked. It is false once the run has
// finished.
func (r *Run) Current() (quizgen.Question, bool) {
	if r.finished {
		return quizgen.Question{}, false
	}
	return r.Questions[r.current], true
}

// Index returns the zero-based position of the current question.
func (r *Run) Index() int { return r.current }

// Selected returns the chosen option, or -1 while unanswered.
func (r *Run) Selected() int { return r.selected }

// ShowingResult reports whether the current answer is being revealed.
func (r *Run) ShowingResult() bool { return r.showResult }

// Score returns the number of correct answers so far.
func (r *Run) Score() int { return r.score }

// Finished reports whether every question has been answered.
func (r *Run) Finished() bool { return r.finished }

// Len returns the number of questions.
func (r *Run) Len() int { return len(r.Questions) }

// Passed reports a score strictly above half.
func (r *Run) Passed() bool { return r.score*2 > len(r.Questions) }

// Perfect reports that every question was answered correctly.
func (r *Run) Perfect() bool { return len(r.Questions) > 0 && r.score == len(r.Questions) }

// Progress is the fraction of questions answered, 0..1.
func (r *Run) Progress() float64 {
	if len(r.Questions) == 0 {
		return 1
	}
	done := r.current
	if r.showResult || r.finished {
		done++
	}
	return float64(done) / float64(len(r.Questions))
}

// Summary is the end-of-run result.
type Summary struct {
	Topic   string
	Score   int
	Total   int
	Passed  bool
	Perfect bool
}

// Summary returns the current result.
func (r *Run) Summary() Summary {
	return Summary{
		Topic:   r.Topic,
		Score:   r.score,
		Total:   len(r.Questions),
		Passed:  r.Passed(),
		Perfect: r.Perfect(),
	}
}

// Percent returns the score as a whole percentage.
func (s Summary) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Score * 100 / s.Total
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d (%d%%)", s.Score, s.Total, s.Percent())
}
