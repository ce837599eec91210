package study

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/tasks"
	"github.com/abhisek/studyz/internal/timer"
	"github.com/abhisek/studyz/internal/tutor"
)

type fixture struct {
	engine *Engine
	store  *store.Store
	now    time.Time
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// newFixture builds an engine over an in-memory store with a one-minute
// study phase. mutate adjusts the settings first.
func newFixture(t *testing.T, mutate func(*config.Settings)) *fixture {
	t.Helper()
	f := &fixture{
		store: openStore(t),
		now:   time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local),
	}
	s := config.Default()
	s.Timer.Study = time.Minute
	s.Timer.Break = time.Minute
	if mutate != nil {
		mutate(&s)
	}
	f.engine = New(Options{
		Settings: s,
		Store:    f.store,
		Now:      func() time.Time { return f.now },
	})
	return f
}

func (f *fixture) ticks(n int) {
	for range n {
		f.engine.Tick(context.Background(), f.now)
	}
}

func kinds(evs []Event) []EventKind {
	out := make([]EventKind, len(evs))
	for i, e := range evs {
		out[i] = e.Kind
	}
	return out
}

func TestTickAwardsStudyXP(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.ticks(3)
	assert.Zero(t, f.engine.View().XP, "idle timer earns nothing")

	f.engine.Start(ctx)
	f.ticks(10)

	v := f.engine.View()
	assert.Equal(t, 10, v.XP)
	assert.Equal(t, int64(10), v.TodaySeconds)
	assert.Equal(t, 50, v.Remaining)
	assert.Equal(t, "00:50", v.Clock)
	assert.True(t, v.Running)
}

func TestStudyPhaseCompletion(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.engine.Start(ctx)
	f.ticks(60)

	v := f.engine.View()
	assert.Equal(t, timer.PhaseBreak, v.Phase)
	assert.False(t, v.Running)
	assert.Equal(t, 1, v.Streak)
	assert.Equal(t, 60, v.XP)

	evs := f.engine.Events()
	assert.Equal(t, []EventKind{EventStreak, EventPhaseCompleted}, kinds(evs))
	assert.True(t, evs[1].Transition.CompletedStudy)
	assert.False(t, evs[1].Chimed, "silent mixer cannot chime")
	assert.Empty(t, f.engine.Events(), "events are drained")

	sessions, err := f.store.EventRepo().QueryStudySessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 60, sessions[0].DurationSecs)
	assert.False(t, sessions[0].Skipped)

	days, err := f.store.StatsRepo().All(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, int64(60), days[0].Seconds)

	snap, err := f.store.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, string(timer.PhaseBreak), snap.Data.Timer.Phase)
	assert.Equal(t, 60, snap.Data.Progress.XP)
}

func TestBreakCompletionEarnsNothing(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) { s.Timer.AutoStart = true })
	ctx := context.Background()

	f.engine.Start(ctx)
	f.ticks(60)
	f.engine.Events()
	f.ticks(60)

	v := f.engine.View()
	assert.Equal(t, timer.PhaseStudy, v.Phase)
	assert.True(t, v.Running, "auto-start keeps the cycle going")
	assert.Equal(t, 60, v.XP)

	evs := f.engine.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, timer.PhaseBreak, evs[0].Transition.From)
	assert.Equal(t, "Break over. Back to focus.", evs[0].Message())
}

func TestSkipDoesNotCountTowardStreak(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.engine.Start(ctx)
	f.ticks(5)
	tr := f.engine.Skip(ctx)

	assert.False(t, tr.CompletedStudy)
	assert.Equal(t, 5, tr.Elapsed)
	assert.Zero(t, f.engine.View().Streak)
	assert.Empty(t, f.engine.Events())

	sessions, err := f.store.EventRepo().QueryStudySessions(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].Skipped)
}

func TestStreakAcrossDays(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	complete := func() {
		f.engine.Reset(ctx)
		f.engine.Start(ctx)
		f.ticks(60)
	}

	complete()
	complete()
	assert.Equal(t, 1, f.engine.View().Streak, "same day counts once")

	f.now = f.now.AddDate(0, 0, 1)
	complete()
	assert.Equal(t, 2, f.engine.View().Streak)

	f.now = f.now.AddDate(0, 0, 3)
	assert.Zero(t, f.engine.View().Streak, "lapsed streak displays as zero")
	complete()
	assert.Equal(t, 1, f.engine.View().Streak)
}

func TestFocusAwardEveryFourSessions(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var awards []rewards.Award
	for range 4 {
		f.engine.Start(ctx)
		f.ticks(60)
		f.engine.Skip(ctx)
		for _, ev := range f.engine.Events() {
			if ev.Kind == EventAward {
				awards = append(awards, *ev.Award)
			}
		}
	}

	require.Len(t, awards, 1)
	assert.Equal(t, rewards.AwardFocus, awards[0].Type)
}

func TestLevelUpEmitsEventAndAward(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) { s.Rewards.TaskAdded = 2500 })
	ctx := context.Background()

	_, err := f.engine.AddTask(ctx, "read chapter 3")
	require.NoError(t, err)

	v := f.engine.View()
	assert.Equal(t, 3, v.Level)
	assert.Equal(t, 3000, v.NextLevelXP)

	evs := f.engine.Events()
	assert.Equal(t, []EventKind{EventLevelUp, EventAward, EventLevelUp, EventAward}, kinds(evs))
	assert.Equal(t, "Level up! → 3", evs[2].Message())
	assert.Equal(t, rewards.AwardLevel, evs[3].Award.Type)

	xp, err := f.store.EventRepo().QueryXPEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, xp, 1)
	assert.Equal(t, "task added", xp[0].Reason)
	assert.Equal(t, 3, xp[0].Level)
}

func TestTaskXP(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.engine.AddTask(ctx, "   ")
	require.ErrorIs(t, err, tasks.ErrEmptyText)
	assert.Zero(t, f.engine.View().XP)

	task, err := f.engine.AddTask(ctx, "  flashcards for bio ")
	require.NoError(t, err)
	assert.Equal(t, "flashcards for bio", task.Text)
	assert.Equal(t, 10, f.engine.View().XP)

	task, err = f.engine.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, 60, f.engine.View().XP)

	_, err = f.engine.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, f.engine.View().XP, "reopening keeps XP")

	_, err = f.engine.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 110, f.engine.View().XP, "re-completing awards again")
	assert.Equal(t, 2, f.engine.View().CompletedTasks)

	require.NoError(t, f.engine.DeleteTask(ctx, task.ID))
	assert.Equal(t, 110, f.engine.View().XP)

	assert.ErrorIs(t, f.engine.DeleteTask(ctx, task.ID), tasks.ErrNotFound)
	_, err = f.engine.ToggleTask(ctx, "missing")
	assert.ErrorIs(t, err, tasks.ErrNotFound)
}

func TestTaskMilestoneAward(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	for i := range 10 {
		task, err := f.engine.AddTask(ctx, "task "+string(rune('a'+i)))
		require.NoError(t, err)
		_, err = f.engine.ToggleTask(ctx, task.ID)
		require.NoError(t, err)
	}

	var got []rewards.AwardType
	for _, ev := range f.engine.Events() {
		if ev.Kind == EventAward {
			got = append(got, ev.Award.Type)
		}
	}
	assert.Contains(t, got, rewards.AwardTasks)

	n, err := f.engine.ClearTasks(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestRecordQuizResult(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.Equal(t, 60, f.engine.RecordQuizResult(ctx, "bio", 3, 5))
	assert.Empty(t, f.engine.Events())

	assert.Equal(t, 200, f.engine.RecordQuizResult(ctx, "bio", 5, 5))
	evs := f.engine.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, rewards.AwardQuiz, evs[0].Award.Type)

	assert.Equal(t, 0, f.engine.RecordQuizResult(ctx, "bio", 0, 0))
	assert.Equal(t, 200, f.engine.RecordQuizResult(ctx, "bio", 9, 5), "correct is capped at total")
	assert.Equal(t, 460, f.engine.View().XP)
}

func TestApplyCommand(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.True(t, f.engine.ApplyCommand(ctx, tutor.CommandStart))
	assert.True(t, f.engine.View().Running)

	assert.True(t, f.engine.ApplyCommand(ctx, tutor.CommandStop))
	assert.False(t, f.engine.View().Running)

	assert.True(t, f.engine.ApplyCommand(ctx, tutor.CommandBreak))
	v := f.engine.View()
	assert.Equal(t, timer.PhaseBreak, v.Phase)
	assert.True(t, v.Running)

	assert.False(t, f.engine.ApplyCommand(ctx, tutor.CommandQuiz))
	assert.False(t, f.engine.ApplyCommand(ctx, tutor.CommandNone))
}

func TestAutosave(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) {
		s.Timer.Study = 10 * time.Minute
		s.Autosave = 5 * time.Second
	})
	ctx := context.Background()
	stats := f.store.StatsRepo()

	f.engine.Start(ctx)
	f.ticks(4)
	days, err := stats.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, days)

	f.ticks(1)
	days, err = stats.All(ctx)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, int64(5), days[0].Seconds)

	xp, err := f.store.EventRepo().QueryXPEvents(ctx, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, xp, 1)
	assert.Equal(t, "study time", xp[0].Reason)
	assert.Equal(t, 5, xp[0].Amount)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.engine.Start(ctx)
	f.ticks(20)
	_, err := f.engine.SetVolume(ctx, "cafe", 0.33)
	require.NoError(t, err)
	f.engine.ToggleMixer(ctx)

	snap := f.engine.Snapshot()
	assert.Equal(t, 40, snap.Timer.RemainingSecs)

	other := New(Options{Settings: f.engine.Settings()})
	other.Restore(snap)
	if diff := cmp.Diff(snap, other.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch after restore (-want +got):\n%s", diff)
	}
	assert.False(t, other.View().Running)
}

func TestLoadResumesPaused(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.engine.Start(ctx)
	f.ticks(30)
	f.engine.ToggleMixer(ctx)
	require.NoError(t, f.engine.Save(ctx))

	resumed := New(Options{
		Settings: f.engine.Settings(),
		Store:    f.store,
		Now:      func() time.Time { return f.now },
	})
	require.NoError(t, resumed.Load(ctx))

	v := resumed.View()
	assert.Equal(t, 30, v.XP)
	assert.Equal(t, 30, v.Remaining)
	assert.False(t, v.Running)
	assert.False(t, v.MixerPlaying)
	assert.Equal(t, int64(30), v.TodaySeconds)
	assert.Equal(t, int64(30), resumed.Week()[6].Seconds)
}

func TestSharedStoreKeepsProgressFromBothEngines(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	require.NoError(t, f.engine.Load(ctx))

	// A short-lived CLI run sharing the dashboard's store.
	cli := New(Options{
		Settings: f.engine.Settings(),
		Store:    f.store,
		Now:      func() time.Time { return f.now },
	})
	require.NoError(t, cli.Load(ctx))

	f.engine.Start(ctx)
	f.ticks(5)

	task, err := cli.AddTask(ctx, "read chapter 4")
	require.NoError(t, err)
	_, err = cli.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
	require.NoError(t, cli.Save(ctx))
	assert.Equal(t, 60, cli.View().XP)

	// The dashboard saves last and must not erase the CLI's awards.
	require.NoError(t, f.engine.Save(ctx))
	v := f.engine.View()
	assert.Equal(t, 65, v.XP)
	assert.Equal(t, 1, v.CompletedTasks)

	load := func() View {
		e := New(Options{Settings: f.engine.Settings(), Store: f.store})
		require.NoError(t, e.Load(ctx))
		return e.View()
	}
	got := load()
	assert.Equal(t, 65, got.XP)
	assert.Equal(t, 1, got.CompletedTasks)

	// Further saves from either side count nothing twice.
	require.NoError(t, cli.Save(ctx))
	require.NoError(t, f.engine.Save(ctx))
	require.NoError(t, cli.Save(ctx))
	assert.Equal(t, 65, load().XP)
	assert.Equal(t, 65, cli.View().XP)
}

func TestLoadEmptyStore(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.engine.Load(context.Background()))
	v := f.engine.View()
	assert.Equal(t, 1, v.Level)
	assert.Equal(t, 60, v.Remaining)
}

func TestApplySettings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	s := f.engine.Settings()
	s.Timer.Study = 2 * time.Minute
	f.engine.ApplySettings(s)
	assert.Equal(t, 120, f.engine.View().Remaining, "idle timer picks up the new length")

	f.engine.Start(ctx)
	f.ticks(10)
	s.Timer.Study = 3 * time.Minute
	s.Rewards.StudySecond = 2
	f.engine.ApplySettings(s)

	v := f.engine.View()
	assert.Equal(t, 110, v.Remaining, "running phase keeps its countdown")
	assert.Equal(t, 180, v.StudySecs)

	f.ticks(1)
	assert.Equal(t, 12, f.engine.View().XP)
}

func TestApplySettingsKeepsRuntimeVolumes(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.engine.NudgeVolume(ctx, "rain", 0.2)
	require.NoError(t, err)

	// A reload that only edits the timer and the cafe track.
	s := f.engine.Settings()
	s.Timer.Study = 2 * time.Minute
	s.Ambient.Tracks = append([]ambient.Track(nil), s.Ambient.Tracks...)
	for i := range s.Ambient.Tracks {
		if s.Ambient.Tracks[i].Name == "cafe" {
			s.Ambient.Tracks[i].Volume = 0.25
		}
	}
	f.engine.ApplySettings(s)

	vols := map[string]float64{}
	for _, tr := range f.engine.View().Tracks {
		vols[tr.Name] = tr.Volume
	}
	assert.InDelta(t, 0.7, vols["rain"], 1e-9, "untouched track keeps the runtime volume")
	assert.InDelta(t, 0.25, vols["cafe"], 1e-9, "edited track takes the file's volume")
}

// failingSnapshots rejects every save.
type failingSnapshots struct{ store.SnapshotRepo }

func (failingSnapshots) Save(context.Context, *store.Snapshot) error {
	return errors.New("disk full")
}

func (failingSnapshots) Latest(context.Context) (*store.Snapshot, error) {
	return nil, nil
}

func TestSaveFailureIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	st := openStore(t)
	e := New(Options{
		Settings:  config.Default(),
		Store:     st,
		Snapshots: failingSnapshots{},
		Logger:    zap.New(core),
	})
	ctx := context.Background()

	e.Start(ctx)
	assert.True(t, e.View().Running)

	err := e.Save(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NotZero(t, logs.FilterMessage("save study state").Len())
}

func TestEngineWithoutTaskStore(t *testing.T) {
	e := New(Options{Settings: config.Default()})
	_, err := e.AddTask(context.Background(), "x")
	assert.Error(t, err)
	assert.NoError(t, e.Save(context.Background()))
}

func TestConcurrentAccess(t *testing.T) {
	f := newFixture(t, func(s *config.Settings) { s.Timer.Study = 10 * time.Minute })
	ctx := context.Background()
	f.engine.Start(ctx)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 25 {
				f.engine.Tick(ctx, f.now)
				_ = f.engine.View()
				_, _ = f.engine.NudgeVolume(ctx, "rain", 0.05)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, f.engine.View().XP)
}

func TestPendingEventsAreBounded(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	for range maxPending + 10 {
		f.engine.RecordQuizResult(ctx, "go", 1, 1)
	}
	assert.Len(t, f.engine.Events(), maxPending)
}
