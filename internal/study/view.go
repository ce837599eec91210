package study

import (
	"time"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/timer"
)

// View is a read-only copy of the dashboard state for rendering.
type View struct {
	Phase         timer.Phase `json:"phase"`
	PhaseLabel    string      `json:"phase_label"`
	Remaining     int         `json:"remaining"`
	Clock         string      `json:"clock"`
	PhaseProgress float64     `json:"phase_progress"`
	Running       bool        `json:"running"`
	StudySecs     int         `json:"study_secs"`
	BreakSecs     int         `json:"break_secs"`
	AutoStart     bool        `json:"auto_start"`

	XP            int     `json:"xp"`
	Level         int     `json:"level"`
	NextLevelXP   int     `json:"next_level_xp"`
	LevelProgress float64 `json:"level_progress"`
	// Streak is the streak still alive today; a lapsed streak reads 0.
	Streak         int   `json:"streak"`
	TodaySeconds   int64 `json:"today_seconds"`
	CompletedTasks int   `json:"completed_tasks"`

	MixerPlaying bool            `json:"mixer_playing"`
	Tracks       []ambient.Track `json:"tracks"`

	Awards []rewards.Award `json:"awards"`
}

// View returns the current state as of the engine clock.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()

	return View{
		Phase:         e.timer.Phase(),
		PhaseLabel:    e.timer.Phase().Label(),
		Remaining:     e.timer.Remaining(),
		Clock:         e.timer.Formatted(),
		PhaseProgress: e.timer.Progress(),
		Running:       e.timer.Running(),
		StudySecs:     e.timer.StudySecs(),
		BreakSecs:     e.timer.BreakSecs(),
		AutoStart:     e.timer.AutoStart(),

		XP:             e.progress.XP,
		Level:          e.progress.Level,
		NextLevelXP:    e.progress.XPForNextLevel(),
		LevelProgress:  e.progress.LevelProgress(),
		Streak:         e.progress.ActiveStreak(now),
		TodaySeconds:   e.progress.Today(now),
		CompletedTasks: e.completedTasks,

		MixerPlaying: e.mixer.Playing(),
		Tracks:       e.mixer.Tracks(),

		Awards: e.awards.Recent(),
	}
}

// Week returns the last seven days of study time, oldest first.
func (e *Engine) Week() []progress.DayStat {
	return e.Days(7)
}

// Days returns the last n days of study time, oldest first.
func (e *Engine) Days(n int) []progress.DayStat {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progress.LastDays(e.progress.Daily, e.now(), n)
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time { return e.now() }
