package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/tasks"
)

func sampleData() Data {
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.Local)
	daily := map[string]int64{
		progress.DayKey(now):                   5400,
		progress.DayKey(now.AddDate(0, 0, -2)): 1800,
	}
	return Data{
		GeneratedAt: now,
		Level:       3,
		XP:          2450,
		NextLevelXP: 3000,
		Streak:      4,
		Sessions:    6,
		Days:        progress.LastDays(daily, now, 7),
		Tasks: []tasks.Task{
			{ID: "1", Text: "Revise chapter 4 → summary", Completed: true},
			{ID: "2", Text: "Practice quiz"},
		},
		Awards: []Award{
			{Type: "streak", Rarity: "common", Reason: "3-day study streak", AwardedAt: now.Add(-26 * time.Hour)},
		},
	}
}

func TestWeeklyRendersPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Weekly(&buf, sampleData()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "%%EOF")
}

func TestWeeklyEmptyData(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Weekly(&buf, Data{GeneratedAt: time.Now()}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWeeklyCapsAwards(t *testing.T) {
	d := sampleData()
	for range 20 {
		d.Awards = append(d.Awards, Award{Type: "level", Rarity: "common", Reason: "Reached level 2", AwardedAt: d.GeneratedAt})
	}
	var buf bytes.Buffer
	require.NoError(t, Weekly(&buf, d))
	assert.NotZero(t, buf.Len())
}

func TestMaxHours(t *testing.T) {
	assert.Zero(t, maxHours(nil))
	assert.Equal(t, 1.5, maxHours(sampleData().Days))
}
