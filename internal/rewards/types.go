// Package rewards hands out achievement awards for study milestones.
package rewards

import "time"

// AwardType identifies the category of achievement.
type AwardType string

const (
	AwardLevel  AwardType = "level"
	AwardStreak AwardType = "streak"
	AwardQuiz   AwardType = "quiz"
	AwardTasks  AwardType = "tasks"
	AwardFocus  AwardType = "focus"
)

// AllAwardTypes returns all award types in display order.
func AllAwardTypes() []AwardType {
	return []AwardType{AwardLevel, AwardStreak, AwardFocus, AwardTasks, AwardQuiz}
}

// DisplayName returns a human-readable label for the award type.
func (t AwardType) DisplayName() string {
	switch t {
	case AwardLevel:
		return "Level"
	case AwardStreak:
		return "Streak"
	case AwardQuiz:
		return "Quiz"
	case AwardTasks:
		return "Tasks"
	case AwardFocus:
		return "Focus"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the award type.
func (t AwardType) Icon() string {
	switch t {
	case AwardLevel:
		return "⭐"
	case AwardStreak:
		return "🔥"
	case AwardQuiz:
		return "🧠"
	case AwardTasks:
		return "✅"
	case AwardFocus:
		return "🍅"
	default:
		return "✦"
	}
}

// Award is a single achievement.
type Award struct {
	Type      AwardType `json:"type"`
	Rarity    Rarity    `json:"rarity"`
	Reason    string    `json:"reason"`
	AwardedAt time.Time `json:"awarded_at"`
}
