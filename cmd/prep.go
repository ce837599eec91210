package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyz/internal/quizgen"
	quizscreen "github.com/abhisek/studyz/internal/screens/quiz"
)

var prepCmd = &cobra.Command{
	Use:   "prep <topic...>",
	Short: "Generate a quiz and flashcards for a topic and print them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic := strings.Join(args, " ")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		gen := newGenerator(ctx, st.EventRepo())

		fmt.Fprintf(os.Stderr, "Preparing study material for %s...\n", topic)
		sheet, err := prepare(ctx, gen, topic)
		if err != nil {
			return err
		}
		for _, w := range sheet.warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
		fmt.Print(renderMarkdown(sheet.markdown()))
		return nil
	},
}

// studySheet is a generated quiz and deck for one topic.
type studySheet struct {
	topic         string
	questions     []quizgen.Question
	cards         []quizgen.Card
	quizFallback  bool
	cardsFallback bool
	warnings      []string
}

// prepare generates the quiz and the deck concurrently. Generation
// failures fall back to the built-in bank and are kept as warnings; only
// an empty topic is an error.
func prepare(ctx context.Context, gen quizgen.Generator, topic string) (*studySheet, error) {
	ctx, cancel := context.WithTimeout(ctx, quizscreen.GenerateTimeout)
	defer cancel()

	sheet := &studySheet{topic: topic}
	var quizErr, cardsErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sheet.questions, sheet.quizFallback, err = quizgen.QuizOrFallback(gctx, gen, topic)
		if errors.Is(err, quizgen.ErrEmptyTopic) {
			return err
		}
		quizErr = err
		return nil
	})
	g.Go(func() error {
		var err error
		sheet.cards, sheet.cardsFallback, err = quizgen.CardsOrFallback(gctx, gen, topic)
		if errors.Is(err, quizgen.ErrEmptyTopic) {
			return err
		}
		cardsErr = err
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if quizErr != nil {
		sheet.warnings = append(sheet.warnings, "quiz: "+quizErr.Error())
	}
	if cardsErr != nil {
		sheet.warnings = append(sheet.warnings, "flashcards: "+cardsErr.Error())
	}
	return sheet, nil
}

func (s *studySheet) markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.topic)

	b.WriteString("## Quiz")
	if s.quizFallback {
		b.WriteString(" (built-in bank)")
	}
	b.WriteString("\n\n")
	for i, q := range s.questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q.Text)
		for j, o := range q.Options {
			mark := ""
			if j == q.Correct {
				mark = " **✓**"
			}
			fmt.Fprintf(&b, "   - %c) %s%s\n", 'A'+j, o, mark)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Flashcards")
	if s.cardsFallback {
		b.WriteString(" (built-in bank)")
	}
	b.WriteString("\n\n")
	for _, c := range s.cards {
		fmt.Fprintf(&b, "- **%s**: %s\n", c.Front, c.Back)
	}
	return b.String()
}
