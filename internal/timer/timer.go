// Package timer implements the pomodoro study/break cycle.
package timer

import (
	"fmt"
	"time"
)

// Phase is the current segment of the pomodoro cycle.
type Phase string

const (
	PhaseStudy Phase = "study"
	PhaseBreak Phase = "break"
)

// Label returns the display label for the phase.
func (p Phase) Label() string {
	if p == PhaseBreak {
		return "Break"
	}
	return "Focus"
}

const (
	DefaultStudy = 25 * time.Minute
	DefaultBreak = 5 * time.Minute

	MinDuration = time.Minute
	MaxDuration = 180 * time.Minute
)

// Transition describes a phase change.
type Transition struct {
	From Phase `json:"from"`
	To   Phase `json:"to"`
	// CompletedStudy is true when a study phase ran to zero. Skipped
	// study phases do not count.
	CompletedStudy bool `json:"completed_study"`
	// Elapsed is how long the finished phase actually ran, in seconds.
	Elapsed int `json:"elapsed"`
}

// TickResult reports what one tick did.
type TickResult struct {
	// StudySecond is true when the tick consumed a second of study time.
	StudySecond bool
	// Transition is set when the tick finished a phase.
	Transition *Transition
}

// Timer is a pomodoro countdown. It is driven externally by Tick, once
// per second, and is not safe for concurrent use.
type Timer struct {
	studySecs int
	breakSecs int
	remaining int
	phase     Phase
	running   bool
	autoStart bool
}

// New creates a stopped timer at the start of a study phase. Durations
// outside [MinDuration, MaxDuration] are clamped; zero selects the default.
func New(study, brk time.Duration) *Timer {
	if study == 0 {
		study = DefaultStudy
	}
	if brk == 0 {
		brk = DefaultBreak
	}
	t := &Timer{
		studySecs: clampSecs(study),
		breakSecs: clampSecs(brk),
		phase:     PhaseStudy,
	}
	t.remaining = t.studySecs
	return t
}

// Restore rebuilds a timer from persisted values. The timer is always
// restored paused.
func Restore(studySecs, breakSecs, remaining int, phase Phase, autoStart bool) *Timer {
	t := New(time.Duration(studySecs)*time.Second, time.Duration(breakSecs)*time.Second)
	t.autoStart = autoStart
	if phase == PhaseBreak {
		t.phase = PhaseBreak
	}
	full := t.phaseSecs(t.phase)
	if remaining <= 0 || remaining > full {
		remaining = full
	}
	t.remaining = remaining
	return t
}

func (t *Timer) Start()  { t.running = true }
func (t *Timer) Pause()  { t.running = false }
func (t *Timer) Toggle() { t.running = !t.running }

// Reset returns to a full, stopped study phase.
func (t *Timer) Reset() {
	t.running = false
	t.phase = PhaseStudy
	t.remaining = t.studySecs
}

// StartBreak jumps straight into a running break.
func (t *Timer) StartBreak() {
	t.phase = PhaseBreak
	t.remaining = t.breakSecs
	t.running = true
}

// SetAutoStart controls whether the next phase starts running on its own.
func (t *Timer) SetAutoStart(v bool) { t.autoStart = v }

// SetDurations changes the phase lengths. When the timer is stopped at a
// phase boundary, the countdown picks up the new length immediately;
// otherwise it applies from the next phase.
func (t *Timer) SetDurations(study, brk time.Duration) {
	oldFull := t.phaseSecs(t.phase)
	atBoundary := !t.running && t.remaining == oldFull

	t.studySecs = clampSecs(study)
	t.breakSecs = clampSecs(brk)

	if atBoundary {
		t.remaining = t.phaseSecs(t.phase)
	}
	if t.remaining > t.phaseSecs(t.phase) {
		t.remaining = t.phaseSecs(t.phase)
	}
}

// Tick advances the countdown by one second.
func (t *Timer) Tick() TickResult {
	if !t.running || t.remaining <= 0 {
		return TickResult{}
	}

	res := TickResult{StudySecond: t.phase == PhaseStudy}
	t.remaining--
	if t.remaining == 0 {
		res.Transition = t.advance(true)
	}
	return res
}

// Skip ends the current phase immediately.
func (t *Timer) Skip() *Transition {
	return t.advance(false)
}

func (t *Timer) advance(natural bool) *Transition {
	tr := &Transition{
		From:    t.phase,
		Elapsed: t.phaseSecs(t.phase) - t.remaining,
	}
	if t.phase == PhaseStudy {
		tr.CompletedStudy = natural
		t.phase = PhaseBreak
	} else {
		t.phase = PhaseStudy
	}
	tr.To = t.phase
	t.remaining = t.phaseSecs(t.phase)
	t.running = t.autoStart && t.running
	return tr
}

func (t *Timer) Phase() Phase      { return t.phase }
func (t *Timer) Running() bool     { return t.running }
func (t *Timer) Remaining() int    { return t.remaining }
func (t *Timer) StudySecs() int    { return t.studySecs }
func (t *Timer) BreakSecs() int    { return t.breakSecs }
func (t *Timer) AutoStart() bool   { return t.autoStart }
func (t *Timer) Formatted() string { return Format(t.remaining) }

// Progress returns the elapsed fraction of the current phase, in [0, 1].
func (t *Timer) Progress() float64 {
	full := t.phaseSecs(t.phase)
	if full == 0 {
		return 0
	}
	return float64(full-t.remaining) / float64(full)
}

func (t *Timer) phaseSecs(p Phase) int {
	if p == PhaseBreak {
		return t.breakSecs
	}
	return t.studySecs
}

// Format renders seconds as zero-padded mm:ss. Minutes are not wrapped at
// 60, so 2h reads "120:00".
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clampSecs(d time.Duration) int {
	if d < MinDuration {
		d = MinDuration
	}
	if d > MaxDuration {
		d = MaxDuration
	}
	return int(d / time.Second)
}
