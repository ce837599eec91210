package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/tasks"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage the study task list",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <text...>",
	Short: "Add a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		before := engine.View().XP
		t, err := engine.AddTask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Printf("Added %s %s (+%d XP)\n", shortID(t.ID), t.Text, engine.View().XP-before)
		return nil
	}),
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		list, err := engine.Tasks(cmd.Context())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No tasks yet. Add one with: studyz task add <text>")
			return nil
		}
		for i, t := range list {
			box := "[ ]"
			if t.Completed {
				box = "[x]"
			}
			fmt.Printf("%3d. %s %s  %s\n", i+1, box, t.Text, shortID(t.ID))
		}
		open, done := tasks.Counts(list)
		fmt.Printf("\n%d open, %d done\n", open, done)
		return nil
	}),
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <number|id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		ctx := cmd.Context()
		t, err := engine.ResolveTask(ctx, args[0])
		if err != nil {
			return err
		}
		before := engine.View().XP
		t, err = engine.ToggleTask(ctx, t.ID)
		if err != nil {
			return err
		}
		if t.Completed {
			fmt.Printf("Completed: %s (+%d XP)\n", t.Text, engine.View().XP-before)
		} else {
			fmt.Printf("Reopened: %s\n", t.Text)
		}
		return nil
	}),
}

var taskRmCmd = &cobra.Command{
	Use:     "rm <number|id>",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		ctx := cmd.Context()
		t, err := engine.ResolveTask(ctx, args[0])
		if err != nil {
			return err
		}
		if err := engine.DeleteTask(ctx, t.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted: %s\n", t.Text)
		return nil
	}),
}

var taskClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed tasks (or all with --all)",
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		n, err := engine.ClearTasks(cmd.Context(), !all)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d task(s).\n", n)
		return nil
	}),
}

func init() {
	taskClearCmd.Flags().Bool("all", false, "Remove open tasks too")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskRmCmd)
	taskCmd.AddCommand(taskClearCmd)
}

// withEngine opens the store and engine around fn and saves afterwards.
func withEngine(fn func(cmd *cobra.Command, engine *study.Engine, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := openEngine(cmd.Context(), st, false)
		err = fn(cmd, engine, args)
		if cerr := closeEngine(cmd.Context(), engine); err == nil {
			err = cerr
		}
		return err
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
