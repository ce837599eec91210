package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/screens/stats"
	"github.com/abhisek/studyz/internal/study"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show level, XP, streak and study time",
	RunE: withEngine(func(cmd *cobra.Command, engine *study.Engine, args []string) error {
		week, _ := cmd.Flags().GetBool("week")
		days := engine.Week()

		if !week {
			v := engine.View()
			fmt.Printf("Level %d · %s XP (%s to next level)\n",
				v.Level, humanize.Comma(int64(v.XP)), humanize.Comma(int64(v.NextLevelXP-v.XP)))
			fmt.Printf("Streak: %d day(s)\n", v.Streak)
			fmt.Printf("Today: %d min\n", v.TodaySeconds/60)
			fmt.Printf("Tasks completed: %d\n", v.CompletedTasks)
			fmt.Println()
		}

		fmt.Println("Last 7 days")
		fmt.Println(strings.Repeat("─", 48))
		if isTerminal(os.Stdout) {
			fmt.Println(stats.Chart(days, 48))
		} else {
			fmt.Println(plainChart(days, 48))
		}
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("Total: %.1f h\n", float64(progress.TotalSeconds(days))/3600)
		return nil
	}),
}

func init() {
	statsCmd.Flags().Bool("week", false, "Only show the 7-day chart")
}

// plainChart is the chart without colour, for pipes and files.
func plainChart(days []progress.DayStat, width int) string {
	var peak float64
	for _, d := range days {
		peak = max(peak, d.Hours)
	}
	barMax := max(width-18, 4)
	lines := make([]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = int(float64(barMax) * d.Hours / peak)
		}
		if d.Seconds > 0 {
			n = max(n, 1)
		}
		lines = append(lines, fmt.Sprintf("%-3s %-*s %5.2fh", d.Weekday, barMax, strings.Repeat("#", n), d.Hours))
	}
	return strings.Join(lines, "\n")
}
