// Package report renders the weekly study report as a PDF.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/tasks"
)

// maxAwards caps the awards section.
const maxAwards = 8

// Award is one line of the awards section.
type Award struct {
	Type      string
	Rarity    string
	Reason    string
	AwardedAt time.Time
}

// Data is everything the weekly report shows.
type Data struct {
	GeneratedAt time.Time

	Level       int
	XP          int
	NextLevelXP int
	Streak      int
	// Sessions counts completed study sessions in the period.
	Sessions int

	Days   []progress.DayStat
	Tasks  []tasks.Task
	Awards []Award
}

// Weekly writes a one-page A4 report to w.
func Weekly(w io.Writer, d Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("studyz weekly report", true)
	pdf.SetCreator("studyz", true)
	pdf.SetCreationDate(d.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, "Weekly Study Report")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.Cell(0, 6, d.GeneratedAt.Format("Monday, 2 January 2006 15:04"))
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(12)

	summary(pdf, d)
	chart(pdf, d.Days)
	taskList(pdf, tr, d.Tasks)
	awards(pdf, tr, d.Awards, d.GeneratedAt)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
}

func summary(pdf *fpdf.Fpdf, d Data) {
	heading(pdf, "Progress")

	total := progress.TotalSeconds(d.Days)
	rows := [][2]string{
		{"Level", fmt.Sprintf("%d", d.Level)},
		{"XP", fmt.Sprintf("%s / %s", humanize.Comma(int64(d.XP)), humanize.Comma(int64(d.NextLevelXP)))},
		{"Streak", fmt.Sprintf("%d day(s)", d.Streak)},
		{"Study time", fmt.Sprintf("%.1f h", float64(total)/3600)},
		{"Sessions", fmt.Sprintf("%d", d.Sessions)},
	}
	for _, r := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 7, r[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 7, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

// chart draws one horizontal bar per day, scaled to the busiest day.
func chart(pdf *fpdf.Fpdf, days []progress.DayStat) {
	heading(pdf, "Last 7 days")

	const (
		labelW = 30.0
		barMax = 110.0
		rowH   = 8.0
	)
	peak := maxHours(days)

	for _, day := range days {
		x, y := pdf.GetXY()
		pdf.CellFormat(labelW, rowH, fmt.Sprintf("%s %s", day.Weekday, day.Day[5:]), "", 0, "L", false, 0, "")

		if peak > 0 && day.Hours > 0 {
			pdf.SetFillColor(88, 166, 255)
			pdf.Rect(x+labelW, y+1.5, barMax*day.Hours/peak, rowH-3, "F")
		}
		pdf.SetXY(x+labelW+barMax+4, y)
		pdf.CellFormat(0, rowH, fmt.Sprintf("%.2f h", day.Hours), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

func taskList(pdf *fpdf.Fpdf, tr func(string) string, list []tasks.Task) {
	open, done := tasks.Counts(list)
	heading(pdf, fmt.Sprintf("Tasks (%d done, %d open)", done, open))

	if len(list) == 0 {
		pdf.Cell(0, 7, "No tasks.")
		pdf.Ln(7)
	}
	for _, t := range list {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		pdf.MultiCell(0, 7, tr(fmt.Sprintf("%s  %s", mark, t.Text)), "", "L", false)
	}
	pdf.Ln(6)
}

func awards(pdf *fpdf.Fpdf, tr func(string) string, list []Award, now time.Time) {
	heading(pdf, "Recent awards")

	if len(list) == 0 {
		pdf.Cell(0, 7, "No awards yet. Keep studying!")
		pdf.Ln(7)
		return
	}
	if len(list) > maxAwards {
		list = list[:maxAwards]
	}
	for _, a := range list {
		line := fmt.Sprintf("%s  %s (%s)  %s", a.AwardedAt.Format("Jan 2"), a.Reason, a.Rarity, humanize.RelTime(a.AwardedAt, now, "ago", "from now"))
		pdf.MultiCell(0, 7, tr(line), "", "L", false)
	}
}

func maxHours(days []progress.DayStat) float64 {
	var peak float64
	for _, d := range days {
		peak = max(peak, d.Hours)
	}
	return peak
}
