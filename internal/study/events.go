package study

import (
	"fmt"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/timer"
)

// EventKind classifies an Event.
type EventKind string

const (
	EventLevelUp        EventKind = "level_up"
	EventPhaseCompleted EventKind = "phase_completed"
	EventAward          EventKind = "award"
	EventStreak         EventKind = "streak"
)

// Event is something the dashboard should announce.
type Event struct {
	Kind EventKind `json:"kind"`

	LevelUp    *progress.LevelUp `json:"level_up,omitempty"`
	Transition *timer.Transition `json:"transition,omitempty"`
	Award      *rewards.Award    `json:"award,omitempty"`
	Streak     int               `json:"streak,omitempty"`

	// Chimed is set on phase completions when the completion sound
	// played. Front-ends ring the terminal bell otherwise.
	Chimed bool `json:"chimed,omitempty"`
}

// Message renders the event as a one-line banner.
func (e Event) Message() string {
	switch e.Kind {
	case EventLevelUp:
		return fmt.Sprintf("Level up! → %d", e.LevelUp.To)
	case EventPhaseCompleted:
		if e.Transition.From == timer.PhaseStudy {
			return "Study session complete. Time for a break!"
		}
		return "Break over. Back to focus."
	case EventAward:
		return fmt.Sprintf("%s %s award: %s", e.Award.Type.Icon(), e.Award.Rarity.DisplayName(), e.Award.Reason)
	case EventStreak:
		if e.Streak == 1 {
			return "Streak started: 1 day"
		}
		return fmt.Sprintf("Streak: %d days", e.Streak)
	default:
		return string(e.Kind)
	}
}
