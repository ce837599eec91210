package study

import (
	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/timer"
)

// snapshotVersion is bumped when SnapshotData changes shape.
const snapshotVersion = 1

// Snapshot captures the dashboard state as one persistable value.
func (e *Engine) Snapshot() store.SnapshotData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() store.SnapshotData {
	tracks := e.mixer.Tracks()
	ts := make([]store.TrackSnapshotData, len(tracks))
	for i, t := range tracks {
		ts[i] = store.TrackSnapshotData{Name: t.Name, File: t.File, Volume: t.Volume, Muted: t.Muted}
	}

	return store.SnapshotData{
		Version: snapshotVersion,
		Progress: &store.ProgressSnapshotData{
			XP:             e.progress.XP,
			Level:          e.progress.Level,
			Streak:         e.progress.Streak,
			LastStudyDate:  e.progress.LastStudyDay,
			CompletedTasks: e.completedTasks,
		},
		Timer: &store.TimerSnapshotData{
			StudySecs:     e.timer.StudySecs(),
			BreakSecs:     e.timer.BreakSecs(),
			RemainingSecs: e.timer.Remaining(),
			Phase:         string(e.timer.Phase()),
			AutoStart:     e.timer.AutoStart(),
		},
		Mixer: &store.MixerSnapshotData{
			Playing: e.mixer.Playing(),
			Tracks:  ts,
		},
	}
}

// Restore replaces the dashboard state with data. Missing sections keep
// their current values. The timer comes back paused, at the saved phase
// and position, with the current settings' durations.
func (e *Engine) Restore(data store.SnapshotData) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p := data.Progress; p != nil {
		e.progress.XP = p.XP
		e.progress.Level = p.Level
		e.progress.Streak = p.Streak
		e.progress.LastStudyDay = p.LastStudyDate
		e.progress.Normalize()
		e.completedTasks = max(p.CompletedTasks, 0)
	}

	if t := data.Timer; t != nil {
		e.timer = timer.Restore(t.StudySecs, t.BreakSecs, t.RemainingSecs, timer.Phase(t.Phase), e.settings.Timer.AutoStart)
		e.timer.SetDurations(e.settings.Timer.Study, e.settings.Timer.Break)
	}

	if m := data.Mixer; m != nil {
		tracks := make([]ambient.Track, len(m.Tracks))
		for i, t := range m.Tracks {
			tracks[i] = ambient.Track{Name: t.Name, File: t.File, Volume: t.Volume, Muted: t.Muted}
		}
		e.mixer.Restore(m.Playing, tracks)
	}
}
