package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/timer"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/theme"
)

func renderTimer(v study.View, cw int, compact bool) string {
	isStudy := v.Phase == timer.PhaseStudy
	phase := theme.PhaseColor(isStudy).Render(strings.ToUpper(v.PhaseLabel))

	state := theme.Hint.Render("❚❚ paused")
	if v.Running {
		state = lipgloss.NewStyle().Foreground(theme.Success).Render("▶ running")
	}
	if v.AutoStart {
		state += theme.Hint.Render("  · auto")
	}

	clock := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(v.Clock)
	if !compact {
		clock = lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Border).
			Render(v.Clock)
	}

	bar := components.ProgressBar{Percent: v.PhaseProgress, Width: cw - 6, Color: theme.Sky}
	if isStudy {
		bar.Color = theme.Tomato
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		phase+"   "+state,
		clock,
		bar.View(),
	)
	return components.Panel("", lipgloss.PlaceHorizontal(cw-6, lipgloss.Center, body), cw)
}

func renderProgress(v study.View, cw int) string {
	gold := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	head := fmt.Sprintf("%s   %s XP / %s",
		gold.Render(fmt.Sprintf("Level %d", v.Level)),
		humanize.Comma(int64(v.XP)),
		humanize.Comma(int64(v.NextLevelXP)))

	bar := components.ProgressBar{Percent: v.LevelProgress, ShowPercent: true, Width: cw - 6, Color: theme.Gold}

	stats := fmt.Sprintf("🔥 %s   ⏱ %s today   ✓ %d tasks done",
		streakText(v.Streak), minutes(v.TodaySeconds), v.CompletedTasks)

	return components.Panel("PROGRESS", head+"\n"+bar.View()+"\n"+theme.Hint.Render(stats), cw)
}

// renderProgressLine is the one-line progress summary for short terminals.
func renderProgressLine(v study.View, cw int) string {
	line := fmt.Sprintf("Lv %d · %s XP · 🔥 %s · %s today",
		v.Level, humanize.Comma(int64(v.XP)), streakText(v.Streak), minutes(v.TodaySeconds))
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Gold).Render(line))
}

func renderTasks(sum taskSummary, cw int) string {
	if sum.err != nil {
		return components.Panel("TASKS", theme.Hint.Render("Task list unavailable"), cw)
	}
	lines := []string{fmt.Sprintf("%d open · %d done", sum.open, sum.done)}
	for _, text := range sum.preview {
		lines = append(lines, "  ○ "+truncate(text, cw-10))
	}
	if sum.open == 0 && sum.done == 0 {
		lines = []string{theme.Hint.Render("No tasks yet. Press t to add one.")}
	}
	return components.Panel("TASKS", strings.Join(lines, "\n"), cw)
}

func renderMixer(v study.View, selected, cw int) string {
	status := theme.Hint.Render("off")
	if v.MixerPlaying {
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("on")
	}

	lines := []string{"♪ ambient " + status}
	for i, t := range v.Tracks {
		marker := "  "
		name := theme.Unselected.Render(fmt.Sprintf("%-6s", t.Name))
		if i == selected {
			marker = "▸ "
			name = theme.Selected.Render(fmt.Sprintf("%-6s", t.Name))
		}
		if t.Muted {
			lines = append(lines, marker+name+" "+theme.Hint.Render("muted"))
			continue
		}
		bar := components.ProgressBar{Percent: t.Volume, ShowPercent: true, Width: cw - 16}
		lines = append(lines, marker+name+" "+bar.View())
	}
	return components.Panel("MIXER", strings.Join(lines, "\n"), cw)
}

func renderMenu(menu components.Menu, cw int) string {
	return lipgloss.NewStyle().Width(cw).Render(menu.View())
}

func streakText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func minutes(secs int64) string {
	return fmt.Sprintf("%dm", secs/60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
