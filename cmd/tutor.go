package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tutor"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor <text...>",
	Short: "Ask the study assistant",
	Long: `Ask the keyword study assistant a question.

It explains common programming concepts and understands timer commands:
"start", "stop" or "pause", and "break" change the saved timer state.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		text := strings.Join(args, " ")
		reply := tutor.New(nil).Reply(text)
		fmt.Print(renderMarkdown(reply.Text))

		switch reply.Command {
		case tutor.CommandNone:
		case tutor.CommandQuiz:
			fmt.Println("Run `studyz quiz <topic>` to start one.")
		default:
			if engine.ApplyCommand(cmd.Context(), reply.Command) {
				v := engine.View()
				state := "paused"
				if v.Running {
					state = "running"
				}
				fmt.Printf("Timer: %s %s (%s)\n", v.PhaseLabel, v.Clock, state)
			}
		}
		return nil
	}),
}
