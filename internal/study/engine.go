// Package study is the dashboard's state engine. It ties the pomodoro
// timer to the XP, level and streak counters, the task list, awards and
// the ambient mixer, and persists the result.
package study

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/studyz/internal/ambient"
	"github.com/abhisek/studyz/internal/config"
	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/store"
	"github.com/abhisek/studyz/internal/tasks"
	"github.com/abhisek/studyz/internal/timer"
	"github.com/abhisek/studyz/internal/tutor"
)

const (
	// snapshotKeep is how many snapshots survive a prune.
	snapshotKeep = 20
	// maxPending bounds undrained events; the oldest are dropped.
	maxPending = 64
)

// Options configures an Engine.
type Options struct {
	Settings config.Settings

	// Store supplies any repo left nil below.
	Store     *store.Store
	Tasks     store.TaskRepo
	Snapshots store.SnapshotRepo
	Stats     store.StatsRepo
	Events    store.EventRepo

	// Mixer defaults to a silent mixer over the settings' tracks.
	Mixer  *ambient.Mixer
	Awards *rewards.Service
	Logger *zap.Logger
	Now    func() time.Time
}

// Engine owns the dashboard state. It is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	settings       config.Settings
	timer          *timer.Timer
	progress       *progress.State
	completedTasks int

	tasks     *tasks.Service
	awards    *rewards.Service
	mixer     *ambient.Mixer
	snapshots store.SnapshotRepo
	stats     store.StatsRepo
	events    store.EventRepo
	logger    *zap.Logger
	now       func() time.Time

	// Work not yet written to the store.
	sinceSave      int
	unsavedDaily   map[string]int64
	unsavedStudyXP int
	snapshotSeq    int64
	// synced is the progress in the last snapshot this engine loaded or
	// wrote. Anything the latest snapshot holds beyond it was earned by
	// another process sharing the store.
	synced store.ProgressSnapshotData

	sessionsToday map[string]int
	pending       []Event
}

// New creates an engine with a fresh level-1 state. Call Load to resume
// from the store.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if st := opts.Store; st != nil {
		if opts.Tasks == nil {
			opts.Tasks = st.TaskRepo()
		}
		if opts.Snapshots == nil {
			opts.Snapshots = st.SnapshotRepo()
		}
		if opts.Stats == nil {
			opts.Stats = st.StatsRepo()
		}
		if opts.Events == nil {
			opts.Events = st.EventRepo()
		}
	}
	s := opts.Settings
	s.Normalize()
	if opts.Mixer == nil {
		opts.Mixer = ambient.NewMixer(s.Ambient.Tracks, nil, opts.Logger)
	}
	if opts.Awards == nil {
		opts.Awards = rewards.NewService(opts.Events, opts.Logger)
	}

	t := timer.New(s.Timer.Study, s.Timer.Break)
	t.SetAutoStart(s.Timer.AutoStart)

	e := &Engine{
		settings:      s,
		timer:         t,
		progress:      progress.New(),
		awards:        opts.Awards,
		mixer:         opts.Mixer,
		snapshots:     opts.Snapshots,
		stats:         opts.Stats,
		events:        opts.Events,
		logger:        opts.Logger,
		now:           opts.Now,
		unsavedDaily:  make(map[string]int64),
		sessionsToday: make(map[string]int),
	}
	if opts.Tasks != nil {
		e.tasks = tasks.NewService(opts.Tasks)
	}
	return e
}

// Tick advances the timer by one second. Study seconds earn XP and count
// toward today's total. A finished phase is recorded and saved; otherwise
// the state is saved every Autosave of running time.
func (e *Engine) Tick(ctx context.Context, now time.Time) timer.TickResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	wasRunning := e.timer.Running()
	res := e.timer.Tick()

	if res.StudySecond {
		day := progress.DayKey(now)
		e.progress.AddStudySeconds(day, 1)
		e.unsavedDaily[day]++
		e.unsavedStudyXP += e.settings.Rewards.StudySecond
		e.addXPLocked(ctx, e.settings.Rewards.StudySecond, "")
	}

	if res.Transition != nil {
		e.finishPhaseLocked(ctx, now, res.Transition, true)
		return res
	}

	if wasRunning {
		e.sinceSave++
		if time.Duration(e.sinceSave)*time.Second >= e.settings.Autosave {
			_ = e.saveLocked(ctx)
		}
	}
	return res
}

// Start runs the timer.
func (e *Engine) Start(ctx context.Context) { e.change(ctx, e.timer.Start) }

// Pause stops the timer.
func (e *Engine) Pause(ctx context.Context) { e.change(ctx, e.timer.Pause) }

// ToggleTimer starts or pauses the timer.
func (e *Engine) ToggleTimer(ctx context.Context) { e.change(ctx, e.timer.Toggle) }

// Reset returns the timer to a full, stopped study phase.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abandonStudyLocked(ctx)
	e.timer.Reset()
	_ = e.saveLocked(ctx)
}

// Skip ends the current phase. A skipped study phase never counts toward
// the streak.
func (e *Engine) Skip(ctx context.Context) *timer.Transition {
	e.mu.Lock()
	defer e.mu.Unlock()
	tr := e.timer.Skip()
	e.finishPhaseLocked(ctx, e.now(), tr, false)
	return tr
}

// StartBreak jumps into a running break.
func (e *Engine) StartBreak(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.abandonStudyLocked(ctx)
	e.timer.StartBreak()
	_ = e.saveLocked(ctx)
}

// ApplyCommand runs a tutor command against the timer. Reports whether
// the command was a timer command.
func (e *Engine) ApplyCommand(ctx context.Context, cmd tutor.Command) bool {
	switch cmd {
	case tutor.CommandStart:
		e.Start(ctx)
	case tutor.CommandStop:
		e.Pause(ctx)
	case tutor.CommandBreak:
		e.StartBreak(ctx)
	default:
		return false
	}
	return true
}

// AddTask adds a task and awards XP for it.
func (e *Engine) AddTask(ctx context.Context, text string) (*tasks.Task, error) {
	if err := e.requireTasks(); err != nil {
		return nil, err
	}
	t, err := e.tasks.Add(ctx, text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.addXPLocked(ctx, e.settings.Rewards.TaskAdded, "task added")
	_ = e.saveLocked(ctx)
	return t, nil
}

// ToggleTask flips a task's completion. Completing awards XP, every time;
// reopening never takes XP away.
func (e *Engine) ToggleTask(ctx context.Context, id string) (*tasks.Task, error) {
	if err := e.requireTasks(); err != nil {
		return nil, err
	}
	t, completed, err := e.tasks.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}
	if !completed {
		return t, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.completedTasks++
	e.addXPLocked(ctx, e.settings.Rewards.TaskCompleted, "task completed")
	if a := e.awards.AwardTasks(ctx, e.completedTasks); a != nil {
		e.emitAward(a)
	}
	_ = e.saveLocked(ctx)
	return t, nil
}

// DeleteTask removes a task. XP is unaffected.
func (e *Engine) DeleteTask(ctx context.Context, id string) error {
	if err := e.requireTasks(); err != nil {
		return err
	}
	return e.tasks.Delete(ctx, id)
}

// ClearTasks removes completed tasks, or every task.
func (e *Engine) ClearTasks(ctx context.Context, completedOnly bool) (int, error) {
	if err := e.requireTasks(); err != nil {
		return 0, err
	}
	return e.tasks.Clear(ctx, completedOnly)
}

// Tasks lists the task list in creation order.
func (e *Engine) Tasks(ctx context.Context) ([]tasks.Task, error) {
	if err := e.requireTasks(); err != nil {
		return nil, err
	}
	return e.tasks.List(ctx)
}

// ResolveTask looks a task up by ID, ID prefix or list position.
func (e *Engine) ResolveTask(ctx context.Context, ref string) (*tasks.Task, error) {
	if err := e.requireTasks(); err != nil {
		return nil, err
	}
	return e.tasks.Resolve(ctx, ref)
}

// RecordQuizResult awards XP for a finished quiz and returns the amount.
// A perfect score adds a bonus and an award.
func (e *Engine) RecordQuizResult(ctx context.Context, topic string, correct, total int) int {
	if total <= 0 || correct < 0 {
		return 0
	}
	correct = min(correct, total)

	e.mu.Lock()
	defer e.mu.Unlock()

	xp := correct * e.settings.Rewards.QuizCorrect
	perfect := correct == total
	if perfect {
		xp += e.settings.Rewards.QuizPerfect
	}
	e.addXPLocked(ctx, xp, fmt.Sprintf("quiz %d/%d", correct, total))
	if perfect {
		e.emitAward(e.awards.AwardPerfectQuiz(ctx, topic, total))
	}
	_ = e.saveLocked(ctx)
	return xp
}

// ToggleMixer flips the ambient master switch and returns the new state.
func (e *Engine) ToggleMixer(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	on := e.mixer.Toggle()
	_ = e.saveLocked(ctx)
	return on
}

// SetVolume sets a track volume.
func (e *Engine) SetVolume(ctx context.Context, track string, v float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	got, err := e.mixer.SetVolume(track, v)
	if err != nil {
		return 0, err
	}
	_ = e.saveLocked(ctx)
	return got, nil
}

// NudgeVolume moves a track volume by delta.
func (e *Engine) NudgeVolume(ctx context.Context, track string, delta float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	got, err := e.mixer.Nudge(track, delta)
	if err != nil {
		return 0, err
	}
	_ = e.saveLocked(ctx)
	return got, nil
}

// SetMuted mutes or unmutes a track.
func (e *Engine) SetMuted(ctx context.Context, track string, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mixer.SetMuted(track, muted); err != nil {
		return err
	}
	_ = e.saveLocked(ctx)
	return nil
}

// ApplySettings swaps in new settings. Durations take effect at the next
// phase, or immediately when the timer is idle at a phase boundary.
func (e *Engine) ApplySettings(s config.Settings) {
	s.Normalize()
	e.mu.Lock()
	defer e.mu.Unlock()

	changed := changedTracks(e.settings.Ambient.Tracks, s.Ambient.Tracks)
	e.settings = s
	e.timer.SetDurations(s.Timer.Study, s.Timer.Break)
	e.timer.SetAutoStart(s.Timer.AutoStart)
	e.mixer.Restore(e.mixer.Playing(), changed)
	e.logger.Debug("settings applied",
		zap.Duration("study", s.Timer.Study),
		zap.Duration("break", s.Timer.Break),
		zap.Duration("autosave", s.Autosave))
}

// changedTracks returns the configured tracks that differ from the
// previous configuration. Tracks the file left alone keep whatever the
// user set at runtime.
func changedTracks(prev, next []ambient.Track) []ambient.Track {
	before := make(map[string]ambient.Track, len(prev))
	for _, t := range prev {
		before[t.Name] = t
	}
	var out []ambient.Track
	for _, t := range next {
		if old, ok := before[t.Name]; ok && old == t {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Settings returns the settings in effect.
func (e *Engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Mixer returns the ambient mixer.
func (e *Engine) Mixer() *ambient.Mixer { return e.mixer }

// Events drains the pending dashboard announcements.
func (e *Engine) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.pending
	e.pending = nil
	return out
}

// Save persists the snapshot, unsaved study seconds and study XP.
// Failures are logged and returned; unsaved work is retried next time.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

// Load restores the latest snapshot and the daily study history. A timer
// that was running is restored paused, and so is the mixer.
func (e *Engine) Load(ctx context.Context) error {
	var errs []error

	var snap *store.Snapshot
	if e.snapshots != nil {
		s, err := e.snapshots.Latest(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("load snapshot: %w", err))
		}
		snap = s
	}

	var days []store.DayStat
	if e.stats != nil {
		d, err := e.stats.All(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("load daily stats: %w", err))
		}
		days = d
	}

	if snap != nil {
		e.Restore(snap.Data)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if snap != nil {
		e.snapshotSeq = snap.Sequence
		if p := snap.Data.Progress; p != nil {
			e.synced = *p
		}
	}
	for _, d := range days {
		e.progress.AddStudySeconds(d.Day, d.Seconds)
	}
	e.mixer.SetPlaying(false)

	err := errors.Join(errs...)
	if err != nil {
		e.logger.Warn("load study state", zap.Error(err))
	}
	return err
}

func (e *Engine) change(ctx context.Context, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
	_ = e.saveLocked(ctx)
}

func (e *Engine) requireTasks() error {
	if e.tasks == nil {
		return errors.New("task list unavailable: no task store")
	}
	return nil
}

// finishPhaseLocked records a phase that ended, naturally or by skip.
func (e *Engine) finishPhaseLocked(ctx context.Context, now time.Time, tr *timer.Transition, natural bool) {
	if tr.From == timer.PhaseStudy {
		e.recordSessionLocked(ctx, now, tr.Elapsed, tr.CompletedStudy)
	}
	if natural {
		ev := Event{Kind: EventPhaseCompleted, Transition: tr}
		if tr.CompletedStudy {
			ev.Chimed = e.mixer.Chime()
		}
		e.emit(ev)
	}
	_ = e.saveLocked(ctx)
}

// abandonStudyLocked records a partly studied phase that is being
// discarded by a reset or an early break.
func (e *Engine) abandonStudyLocked(ctx context.Context) {
	if e.timer.Phase() != timer.PhaseStudy {
		return
	}
	elapsed := e.timer.StudySecs() - e.timer.Remaining()
	e.recordSessionLocked(ctx, e.now(), elapsed, false)
}

func (e *Engine) recordSessionLocked(ctx context.Context, now time.Time, elapsed int, completed bool) {
	if elapsed <= 0 {
		return
	}
	day := progress.DayKey(now)

	if e.events != nil {
		err := e.events.AppendStudySession(ctx, store.StudySessionEventData{
			SessionID:    uuid.NewString(),
			Day:          day,
			DurationSecs: elapsed,
			Skipped:      !completed,
		})
		if err != nil {
			e.logger.Warn("record study session", zap.Error(err))
		}
	}
	if !completed {
		return
	}

	if e.progress.RecordStudyCompletion(now) {
		e.emit(Event{Kind: EventStreak, Streak: e.progress.Streak})
		if a := e.awards.AwardStreak(ctx, e.progress.Streak); a != nil {
			e.emitAward(a)
		}
	}

	e.sessionsToday[day]++
	count := e.sessionsToday[day]
	if e.events != nil {
		if n, err := e.events.CompletedSessionCount(ctx, day); err == nil {
			count = n
		}
	}
	if a := e.awards.AwardFocus(ctx, count); a != nil {
		e.emitAward(a)
	}
}

// addXPLocked grants n XP and announces any level-ups. A non-empty reason
// is recorded as an XP event.
func (e *Engine) addXPLocked(ctx context.Context, n int, reason string) {
	ups := e.progress.AddXP(n)
	if n > 0 && reason != "" {
		e.appendXP(ctx, n, reason)
	}
	for _, up := range ups {
		e.emit(Event{Kind: EventLevelUp, LevelUp: &up})
		e.emitAward(e.awards.AwardLevel(ctx, up.To))
	}
}

func (e *Engine) appendXP(ctx context.Context, n int, reason string) error {
	if e.events == nil {
		return nil
	}
	err := e.events.AppendXP(ctx, store.XPEventData{
		Amount: n,
		Reason: reason,
		Total:  e.progress.XP,
		Level:  e.progress.Level,
	})
	if err != nil {
		e.logger.Warn("record xp", zap.String("reason", reason), zap.Error(err))
	}
	return err
}

func (e *Engine) emit(ev Event) {
	e.pending = append(e.pending, ev)
	if n := len(e.pending); n > maxPending {
		e.pending = append([]Event(nil), e.pending[n-maxPending:]...)
	}
}

func (e *Engine) emitAward(a *rewards.Award) {
	if a == nil {
		return
	}
	e.emit(Event{Kind: EventAward, Award: a})
}

// mergeLatestLocked folds progress saved by another process since the last
// sync into this engine, so whichever process writes last keeps both.
// XP and completed tasks only grow, so the difference from synced is what
// the other process earned. The later study day wins the streak.
func (e *Engine) mergeLatestLocked(ctx context.Context) error {
	latest, err := e.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("read snapshot before save: %w", err)
	}
	if latest == nil || latest.Data.Progress == nil {
		return nil
	}
	theirs := *latest.Data.Progress

	if d := theirs.XP - e.synced.XP; d > 0 {
		// The earning process announced its own level-ups.
		e.progress.AddXP(d)
	}
	if d := theirs.CompletedTasks - e.synced.CompletedTasks; d > 0 {
		e.completedTasks += d
	}
	if theirs.LastStudyDate > e.progress.LastStudyDay ||
		(theirs.LastStudyDate == e.progress.LastStudyDay && theirs.Streak > e.progress.Streak) {
		e.progress.LastStudyDay = theirs.LastStudyDate
		e.progress.Streak = theirs.Streak
	}
	e.snapshotSeq = max(e.snapshotSeq, latest.Sequence)
	e.synced = theirs
	return nil
}

func (e *Engine) saveLocked(ctx context.Context) error {
	e.sinceSave = 0
	var errs []error

	if e.snapshots != nil {
		if err := e.mergeLatestLocked(ctx); err != nil {
			errs = append(errs, err)
		}
		e.snapshotSeq++
		snap := &store.Snapshot{
			Sequence:  e.snapshotSeq,
			Timestamp: e.now(),
			Data:      e.snapshotLocked(),
		}
		if err := e.snapshots.Save(ctx, snap); err != nil {
			errs = append(errs, err)
		} else {
			e.synced = *snap.Data.Progress
			if err := e.snapshots.Prune(ctx, snapshotKeep); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if e.stats != nil {
		for day, n := range e.unsavedDaily {
			if err := e.stats.AddStudySeconds(ctx, day, n); err != nil {
				errs = append(errs, err)
				continue
			}
			delete(e.unsavedDaily, day)
		}
	} else {
		clear(e.unsavedDaily)
	}

	if e.unsavedStudyXP > 0 {
		if err := e.appendXP(ctx, e.unsavedStudyXP, "study time"); err == nil {
			e.unsavedStudyXP = 0
		} else {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		e.logger.Warn("save study state", zap.Error(err))
	}
	return err
}
