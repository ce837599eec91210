// Package stats shows the weekly study chart, totals and award history.
package stats

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/screen"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/study"
	"github.com/abhisek/studyz/internal/ui/components"
	"github.com/abhisek/studyz/internal/ui/layout"
	"github.com/abhisek/studyz/internal/ui/theme"
)

// visibleAwards is how many awards fit under the chart.
const visibleAwards = 6

// AwardSource reads the award history.
type AwardSource interface {
	QueryAwards(ctx context.Context, opts store.QueryOpts) ([]store.AwardEventRecord, error)
	AwardCounts(ctx context.Context) (map[string]int, int, error)
}

type awardsLoadedMsg struct {
	records []store.AwardEventRecord
	total   int
	err     error
}

// Screen is the stats page.
type Screen struct {
	engine *study.Engine
	source AwardSource

	awards []store.AwardEventRecord
	total  int
	scroll int
	loaded bool
	err    error
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the stats screen. source may be nil.
func New(engine *study.Engine, source AwardSource) *Screen {
	return &Screen{engine: engine, source: source}
}

func (s *Screen) Init() tea.Cmd {
	if s.source == nil {
		s.loaded = true
		return nil
	}
	src := s.source
	return func() tea.Msg {
		ctx := context.Background()
		records, err := src.QueryAwards(ctx, store.QueryOpts{})
		if err != nil {
			return awardsLoadedMsg{err: err}
		}
		_, total, err := src.AwardCounts(ctx)
		return awardsLoadedMsg{records: records, total: total, err: err}
	}
}

func (s *Screen) Title() string { return "Stats" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll awards"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case awardsLoadedMsg:
		s.loaded = true
		s.err = msg.err
		// Newest first.
		s.awards = make([]store.AwardEventRecord, 0, len(msg.records))
		for i := len(msg.records) - 1; i >= 0; i-- {
			s.awards = append(s.awards, msg.records[i])
		}
		s.total = msg.total
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.scroll = max(s.scroll-1, 0)
		case "down", "j":
			s.scroll = min(s.scroll+1, max(len(s.awards)-visibleAwards, 0))
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	v := s.engine.View()
	week := s.engine.Week()

	sections := []string{
		components.Panel("LAST 7 DAYS", Chart(week, cw-6), cw),
		components.Panel("TOTALS", s.totals(v, week), cw),
		components.Panel(fmt.Sprintf("AWARDS (%d)", s.total), s.awardList(), cw),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func (s *Screen) totals(v study.View, week []progress.DayStat) string {
	weekSecs := progress.TotalSeconds(week)
	return strings.Join([]string{
		fmt.Sprintf("Level %d · %s XP", v.Level, humanize.Comma(int64(v.XP))),
		fmt.Sprintf("Streak: %d day(s)", v.Streak),
		fmt.Sprintf("This week: %.1f h · today %d min", float64(weekSecs)/3600, v.TodaySeconds/60),
		fmt.Sprintf("Tasks completed: %d", v.CompletedTasks),
	}, "\n")
}

func (s *Screen) awardList() string {
	switch {
	case s.err != nil:
		return theme.Incorrect.Render(s.err.Error())
	case !s.loaded:
		return theme.Hint.Render("Loading awards…")
	case len(s.awards) == 0:
		return theme.Hint.Render("No awards yet. Finish a study session to earn one.")
	}

	now := s.engine.Now()
	end := min(s.scroll+visibleAwards, len(s.awards))
	lines := make([]string, 0, end-s.scroll)
	for _, a := range s.awards[s.scroll:end] {
		icon := rewards.AwardType(a.AwardType).Icon()
		rarity := rewards.Rarity(a.Rarity)
		name := lipgloss.NewStyle().Foreground(rarityColor(rarity)).Bold(true).Render(rarity.DisplayName())
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", icon, name, a.Reason, theme.Hint.Render(humanize.RelTime(a.Timestamp, now, "ago", "from now"))))
	}
	return strings.Join(lines, "\n")
}

// Chart renders one horizontal bar per day, scaled to the busiest day.
func Chart(days []progress.DayStat, width int) string {
	var peak float64
	for _, d := range days {
		peak = max(peak, d.Hours)
	}

	barMax := max(width-18, 4)
	fill := lipgloss.NewStyle().Foreground(theme.Secondary)
	lines := make([]string, 0, len(days))
	for _, d := range days {
		n := 0
		if peak > 0 {
			n = int(float64(barMax) * d.Hours / peak)
		}
		if d.Seconds > 0 {
			n = max(n, 1)
		}
		bar := fill.Render(strings.Repeat("█", n)) + strings.Repeat(" ", barMax-n)
		lines = append(lines, fmt.Sprintf("%-3s %s %5.2fh", d.Weekday, bar, d.Hours))
	}
	return strings.Join(lines, "\n")
}

func rarityColor(r rewards.Rarity) color.Color {
	switch r {
	case rewards.RarityLegendary:
		return theme.Gold
	case rewards.RarityEpic:
		return theme.Primary
	case rewards.RarityRare:
		return theme.Sky
	default:
		return theme.Text
	}
}
