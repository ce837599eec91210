package quizgen

import (
	"fmt"
	"strings"
)

// buildDedup formats prior questions for the prompt, respecting the max limit.
// Returns "None" if there are no prior questions.
func buildDedup(priorQuestions []string, max int) string {
	if len(priorQuestions) == 0 {
		return "None"
	}

	priorQuestions = lastN(priorQuestions, max)

	var b strings.Builder
	for i, q := range priorQuestions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// dedupe drops questions already asked and repeats within the batch.
func dedupe(qs []Question, prior []string) []Question {
	seen := make(map[string]bool, len(prior)+len(qs))
	for _, p := range prior {
		seen[normalize(p)] = true
	}

	out := qs[:0:0]
	for _, q := range qs {
		key := normalize(q.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

// lastN keeps the most recent n entries; n <= 0 keeps everything.
func lastN(s []string, n int) []string {
	if n > 0 && len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
