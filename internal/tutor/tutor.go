// Package tutor is a keyword-driven study assistant. It answers a small
// set of greetings, motivation requests and programming concepts, and
// recognizes timer commands.
package tutor

import (
	"math/rand/v2"
	"strings"
)

// Command is a timer action requested through the tutor.
type Command string

const (
	CommandNone  Command = ""
	CommandStart Command = "start"
	CommandStop  Command = "stop"
	CommandBreak Command = "break"
	CommandQuiz  Command = "quiz"
)

// Reply is the tutor's answer to one input.
type Reply struct {
	Text    string
	Command Command
}

// Tutor answers free-text input.
type Tutor struct {
	rng *rand.Rand
}

// New creates a Tutor. rng picks among equivalent replies; nil uses a
// randomly seeded source.
func New(rng *rand.Rand) *Tutor {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Tutor{rng: rng}
}

// Reply answers text. Matching is case-insensitive substring search:
// greetings first, then motivation, then concepts. A timer command found
// anywhere in the text overrides the answer. A quiz request keeps a
// concept explanation and adds the quiz prompt after it.
func (t *Tutor) Reply(text string) Reply {
	text = strings.ToLower(strings.TrimSpace(text))
	r := Reply{Text: defaultReply}
	explained := ""

	switch {
	case containsAny(text, greetingPatterns):
		r.Text = t.pick(greetingReplies)
	case containsAny(text, motivationPatterns):
		r.Text = t.pick(motivationReplies)
	default:
		for _, c := range concepts {
			if strings.Contains(text, c.keyword) {
				r.Text = c.answer
				explained = c.answer
				break
			}
		}
	}

	switch {
	case containsAny(text, []string{"start", "begin"}):
		r = Reply{Text: startReply, Command: CommandStart}
	case containsAny(text, []string{"stop", "pause"}):
		r = Reply{Text: stopReply, Command: CommandStop}
	case strings.Contains(text, "break"):
		r = Reply{Text: breakReply, Command: CommandBreak}
	case strings.Contains(text, "quiz"):
		r = Reply{Text: quizReply, Command: CommandQuiz}
		if explained != "" {
			r.Text = explained + "\n\n" + quizReply
		}
	}
	return r
}

func (t *Tutor) pick(opts []string) string {
	return opts[t.rng.IntN(len(opts))]
}

func containsAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}
