package study

import (
	"testing"

	"github.com/abhisek/studyz/internal/progress"
	"github.com/abhisek/studyz/internal/rewards"
	"github.com/abhisek/studyz/internal/timer"
)

func TestEventMessage(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{Event{Kind: EventLevelUp, LevelUp: &progress.LevelUp{From: 4, To: 5}}, "Level up! → 5"},
		{Event{Kind: EventPhaseCompleted, Transition: &timer.Transition{From: timer.PhaseStudy, To: timer.PhaseBreak}}, "Study session complete. Time for a break!"},
		{Event{Kind: EventStreak, Streak: 1}, "Streak started: 1 day"},
		{Event{Kind: EventStreak, Streak: 7}, "Streak: 7 days"},
		{Event{Kind: EventAward, Award: &rewards.Award{Type: rewards.AwardStreak, Rarity: rewards.RarityRare, Reason: "7-day study streak"}}, "🔥 Rare award: 7-day study streak"},
	}
	for _, tt := range tests {
		if got := tt.ev.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
