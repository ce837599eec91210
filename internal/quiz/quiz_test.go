package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyz/internal/quizgen"
)

func threeQuestions() []quizgen.Question {
	return []quizgen.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, Correct: 0},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, Correct: 1},
		{Text: "Q3", Options: []string{"a", "b", "c", "d"}, Correct: 2},
	}
}

func TestRun_FullPass(t *testing.T) {
	r := NewRun("letters", threeQuestions())

	correct, ok := r.Answer(0)
	require.True(t, ok)
	assert.True(t, correct)
	assert.True(t, r.ShowingResult())
	assert.Equal(t, 0, r.Selected())
	r.Next()

	correct, ok = r.Answer(3)
	require.True(t, ok)
	assert.False(t, correct)
	r.Next()

	correct, _ = r.Answer(2)
	assert.True(t, correct)
	assert.False(t, r.Finished())
	r.Next()

	assert.True(t, r.Finished())
	assert.Equal(t, 2, r.Score())
	assert.True(t, r.Passed())
	assert.False(t, r.Perfect())
	_, ok = r.Current()
	assert.False(t, ok)

	s := r.Summary()
	assert.Equal(t, Summary{Topic: "letters", Score: 2, Total: 3, Passed: true}, s)
	assert.Equal(t, "2/3 (66%)", s.String())
}

func TestRun_AnswerIgnoredWhileResultShown(t *testing.T) {
	r := NewRun("t", threeQuestions())
	r.Answer(1)
	_, ok := r.Answer(0)
	assert.False(t, ok)
	assert.Equal(t, 1, r.Selected())
	assert.Equal(t, 0, r.Score())
}

func TestRun_AnswerOutOfRange(t *testing.T) {
	r := NewRun("t", threeQuestions())
	for _, i := range []int{-1, 4} {
		_, ok := r.Answer(i)
		assert.False(t, ok, "index %d", i)
	}
	assert.False(t, r.ShowingResult())
	assert.Equal(t, -1, r.Selected())
}

func TestRun_NextIgnoredUntilAnswered(t *testing.T) {
	r := NewRun("t", threeQuestions())
	r.Next()
	assert.Equal(t, 0, r.Index())
}

func TestRun_PassThreshold(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		score   int
		passed  bool
		perfect bool
	}{
		{"half of four is not a pass", 4, 2, false, false},
		{"three of five passes", 5, 3, true, false},
		{"perfect", 5, 5, true, true},
		{"zero", 5, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := make([]quizgen.Question, tt.total)
			for i := range qs {
				qs[i] = quizgen.Question{Text: "Q", Options: []string{"a", "b", "c", "d"}}
			}
			r := NewRun("t", qs)
			for i := 0; i < tt.total; i++ {
				if i < tt.score {
					r.Answer(0)
				} else {
					r.Answer(1)
				}
				r.Next()
			}
			require.True(t, r.Finished())
			assert.Equal(t, tt.passed, r.Passed())
			assert.Equal(t, tt.perfect, r.Perfect())
		})
	}
}

func TestRun_Restart(t *testing.T) {
	r := NewRun("t", threeQuestions())
	r.Answer(0)
	r.Next()
	r.Restart()

	assert.Equal(t, 0, r.Index())
	assert.Equal(t, 0, r.Score())
	assert.Equal(t, -1, r.Selected())
	assert.False(t, r.Finished())
	assert.Zero(t, r.Progress())
}

func TestRun_Empty(t *testing.T) {
	r := NewRun("t", nil)
	assert.True(t, r.Finished())
	assert.False(t, r.Perfect())
	_, ok := r.Answer(0)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Summary().Percent())
}

func TestRun_Progress(t *testing.T) {
	r := NewRun("t", threeQuestions()[:2])
	assert.Equal(t, 0.0, r.Progress())
	r.Answer(0)
	assert.Equal(t, 0.5, r.Progress())
	r.Next()
	assert.Equal(t, 0.5, r.Progress())
	r.Answer(0)
	r.Next()
	assert.Equal(t, 1.0, r.Progress())
}

func TestDeck(t *testing.T) {
	d := NewDeck("bio", []quizgen.Card{
		{Front: "Cell", Back: "Unit of life"},
		{Front: "DNA", Back: "Genetic material"},
		{Front: "ATP", Back: "Energy currency"},
	})

	assert.Equal(t, "1 / 3", d.Position())
	d.Prev()
	assert.Equal(t, 0, d.Index(), "prev on first card is a no-op")

	d.Flip()
	assert.True(t, d.Flipped())
	d.Next()
	assert.False(t, d.Flipped(), "moving un-flips the card")
	c, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "DNA", c.Front)

	d.Next()
	d.Flip()
	d.Next()
	assert.Equal(t, "3 / 3", d.Position())
	assert.True(t, d.Flipped(), "next on last card is a no-op")

	d.Prev()
	assert.Equal(t, "2 / 3", d.Position())
	assert.False(t, d.Flipped())
}

func TestDeck_Empty(t *testing.T) {
	d := NewDeck("none", nil)
	d.Next()
	d.Flip()
	_, ok := d.Current()
	assert.False(t, ok)
	assert.False(t, d.Flipped())
	assert.Equal(t, "0 / 0", d.Position())
}
