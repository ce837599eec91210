package cmd

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/report"
	"github.com/abhisek/studyz/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export a weekly study report as PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out, _ := cmd.Flags().GetString("out")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		engine := openEngine(ctx, st, false)

		now := engine.Now()
		weekAgo := now.AddDate(0, 0, -7)
		events := st.EventRepo()

		list, err := engine.Tasks(ctx)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		sessions, err := events.QueryStudySessions(ctx, store.QueryOpts{From: weekAgo})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		awards, err := events.QueryAwards(ctx, store.QueryOpts{From: weekAgo})
		if err != nil {
			return fmt.Errorf("query awards: %w", err)
		}

		v := engine.View()
		data := report.Data{
			GeneratedAt: now,
			Level:       v.Level,
			XP:          v.XP,
			NextLevelXP: v.NextLevelXP,
			Streak:      v.Streak,
			Days:        engine.Week(),
			Tasks:       list,
		}
		for _, s := range sessions {
			if !s.Skipped {
				data.Sessions++
			}
		}
		// Newest first.
		for i := len(awards) - 1; i >= 0; i-- {
			a := awards[i]
			data.Awards = append(data.Awards, report.Award{
				Type:      a.AwardType,
				Rarity:    a.Rarity,
				Reason:    a.Reason,
				AwardedAt: a.Timestamp,
			})
		}

		var buf bytes.Buffer
		if err := report.Weekly(&buf, data); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("Wrote %s (%d sessions, %d awards since %s)\n",
			out, data.Sessions, len(data.Awards), weekAgo.Format(time.DateOnly))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringP("out", "o", "studyz-week.pdf", "Output PDF path")
}
