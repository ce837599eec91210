// Package progress tracks the gamification counters: experience points,
// levels, the daily study streak and per-day study time.
package progress

import "math"

// PointsPerLevel is the XP step between levels. Reaching level*PointsPerLevel
// XP advances from level to level+1.
const PointsPerLevel = 1000

// Rewards holds the XP granted for each kind of study activity.
type Rewards struct {
	StudySecond   int `yaml:"study_second" env:"STUDY_SECOND"`
	TaskAdded     int `yaml:"task_added" env:"TASK_ADDED"`
	TaskCompleted int `yaml:"task_completed" env:"TASK_COMPLETED"`
	QuizCorrect   int `yaml:"quiz_correct" env:"QUIZ_CORRECT"`
	QuizPerfect   int `yaml:"quiz_perfect" env:"QUIZ_PERFECT"`
}

// DefaultRewards returns the standard XP table.
func DefaultRewards() Rewards {
	return Rewards{
		StudySecond:   1,
		TaskAdded:     10,
		TaskCompleted: 50,
		QuizCorrect:   20,
		QuizPerfect:   100,
	}
}

// LevelUp records a single level transition.
type LevelUp struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// State is the persisted gamification state.
type State struct {
	XP     int
	Level  int
	Streak int
	// LastStudyDay is the local YYYY-MM-DD of the last completed study
	// session, or empty if none.
	LastStudyDay string
	// Daily maps YYYY-MM-DD to seconds studied that day.
	Daily map[string]int64
}

// New returns a fresh level-1 state.
func New() *State {
	return &State{Level: 1, Daily: make(map[string]int64)}
}

// AddXP adds n points and applies the level rule. Non-positive n is
// ignored. The returned slice holds one entry per level gained.
func (s *State) AddXP(n int) []LevelUp {
	if n <= 0 {
		return nil
	}
	if s.Level < 1 {
		s.Level = 1
	}
	s.XP += n

	var ups []LevelUp
	for s.XP >= s.Level*PointsPerLevel {
		ups = append(ups, LevelUp{From: s.Level, To: s.Level + 1})
		s.Level++
	}
	return ups
}

// XPForNextLevel returns the XP total at which the next level is reached.
func (s *State) XPForNextLevel() int {
	return s.Level * PointsPerLevel
}

// LevelProgress returns how far the XP total is through the current level,
// in [0, 1].
func (s *State) LevelProgress() float64 {
	floor := (s.Level - 1) * PointsPerLevel
	p := float64(s.XP-floor) / float64(PointsPerLevel)
	return math.Max(0, math.Min(1, p))
}

// Normalize repairs counters loaded from older or hand-edited snapshots.
func (s *State) Normalize() {
	if s.XP < 0 {
		s.XP = 0
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Streak < 0 {
		s.Streak = 0
	}
	if s.Daily == nil {
		s.Daily = make(map[string]int64)
	}
	// A level below what the XP earns is caught up silently.
	for s.XP >= s.Level*PointsPerLevel {
		s.Level++
	}
}
