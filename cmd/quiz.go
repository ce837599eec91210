package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/quiz"
	"github.com/abhisek/studyz/internal/quizgen"
	quizscreen "github.com/abhisek/studyz/internal/screens/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic...>",
	Short: "Take a generated multiple-choice quiz",
	Long: `Generate a quiz about a topic and answer it in the terminal.

Answers are typed as option numbers. Correct answers earn XP, and a perfect
score earns a bonus and an award. When no LLM is reachable the built-in
question bank is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic := strings.Join(args, " ")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		engine := openEngine(ctx, st, false)

		fmt.Printf("Generating a quiz about %s...\n\n", topic)
		gctx, cancel := context.WithTimeout(ctx, quizscreen.GenerateTimeout)
		qs, fallback, err := quizgen.QuizOrFallback(gctx, newGenerator(ctx, st.EventRepo()), topic)
		cancel()
		if errors.Is(err, quizgen.ErrEmptyTopic) {
			return err
		}
		if fallback {
			warnFallback(err)
		}

		run := quiz.NewRun(topic, qs)
		completed := askQuestions(bufio.NewScanner(os.Stdin), os.Stdout, run)
		if completed {
			sum := run.Summary()
			xp := engine.RecordQuizResult(ctx, sum.Topic, sum.Score, sum.Total)
			fmt.Printf("── Summary: %s · +%d XP ──\n", sum, xp)
		}
		return closeEngine(ctx, engine)
	},
}

var cardsCmd = &cobra.Command{
	Use:     "cards <topic...>",
	Aliases: []string{"flashcards"},
	Short:   "Study generated flashcards",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic := strings.Join(args, " ")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		fmt.Printf("Making flashcards about %s...\n\n", topic)
		gctx, cancel := context.WithTimeout(ctx, quizscreen.GenerateTimeout)
		cards, fallback, err := quizgen.CardsOrFallback(gctx, newGenerator(ctx, st.EventRepo()), topic)
		cancel()
		if errors.Is(err, quizgen.ErrEmptyTopic) {
			return err
		}
		if fallback {
			warnFallback(err)
		}

		flipCards(bufio.NewScanner(os.Stdin), os.Stdout, quiz.NewDeck(topic, cards))
		return nil
	},
}

func warnFallback(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "Generation failed:", err)
	}
	fmt.Fprintln(os.Stderr, "Using the built-in bank.")
	fmt.Fprintln(os.Stderr)
}

// askQuestions runs the quiz over in and out. It reports false when the
// input closed before the last answer.
func askQuestions(in *bufio.Scanner, out io.Writer, run *quiz.Run) bool {
	for {
		q, ok := run.Current()
		if !ok {
			return true
		}
		fmt.Fprintf(out, "── Question %d/%d ──\n", run.Index()+1, run.Len())
		fmt.Fprintln(out, q.Text)
		for j, o := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", j+1, o)
		}

		correct, accepted := false, false
		for !accepted {
			fmt.Fprint(out, "\nYour answer: ")
			if !in.Scan() {
				fmt.Fprintln(out, "\n(input closed)")
				return false
			}
			n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
			if err != nil {
				fmt.Fprintf(out, "Enter a number from 1 to %d.", len(q.Options))
				continue
			}
			correct, accepted = run.Answer(n - 1)
			if !accepted {
				fmt.Fprintf(out, "Enter a number from 1 to %d.", len(q.Options))
			}
		}

		if correct {
			fmt.Fprintln(out, colorize("32", "✓ Correct!"))
		} else {
			fmt.Fprintf(out, "%s Answer: %s\n", colorize("31", "✗ Wrong."), q.Answer())
		}
		fmt.Fprintln(out)
		run.Next()
	}
}

// flipCards shows each card's front, waits for Enter, then shows the back.
func flipCards(in *bufio.Scanner, out io.Writer, deck *quiz.Deck) {
	for i := 0; i < deck.Len(); i++ {
		card, _ := deck.Current()
		fmt.Fprintf(out, "── %s · %s ──\n", deck.Topic, deck.Position())
		fmt.Fprintln(out, card.Front)
		fmt.Fprint(out, "\n(press Enter to flip) ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return
		}
		deck.Flip()
		fmt.Fprint(out, renderMarkdown(card.Back))
		fmt.Fprintln(out)
		deck.Next()
	}
}
