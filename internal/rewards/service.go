package rewards

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/abhisek/studyz/internal/store"
	"go.uber.org/zap"
)

// Service decides which milestones earn awards and records them.
type Service struct {
	eventRepo store.EventRepo
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	recent []Award
}

// NewService creates a Service. eventRepo may be nil, in which case awards
// are only kept in memory.
func NewService(eventRepo store.EventRepo, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{eventRepo: eventRepo, logger: logger, now: time.Now}
}

// AwardLevel awards reaching a new level.
func (s *Service) AwardLevel(ctx context.Context, level int) *Award {
	return s.award(ctx, AwardLevel, LevelRarity(level), fmt.Sprintf("Reached level %d", level))
}

// AwardStreak awards a streak milestone. Returns nil when days is not a
// milestone.
func (s *Service) AwardStreak(ctx context.Context, days int) *Award {
	if !IsStreakMilestone(days) {
		return nil
	}
	return s.award(ctx, AwardStreak, StreakRarity(days), fmt.Sprintf("%d-day study streak", days))
}

// AwardPerfectQuiz awards answering every question of a quiz correctly.
func (s *Service) AwardPerfectQuiz(ctx context.Context, topic string, questions int) *Award {
	reason := fmt.Sprintf("Perfect quiz (%d/%d)", questions, questions)
	if topic != "" {
		reason = fmt.Sprintf("Perfect %s quiz (%d/%d)", topic, questions, questions)
	}
	return s.award(ctx, AwardQuiz, QuizRarity(questions), reason)
}

// AwardTasks awards every TaskMilestoneEvery-th completed task. Returns
// nil between milestones.
func (s *Service) AwardTasks(ctx context.Context, completed int) *Award {
	if completed <= 0 || completed%TaskMilestoneEvery != 0 {
		return nil
	}
	return s.award(ctx, AwardTasks, TaskRarity(completed), fmt.Sprintf("%d tasks completed", completed))
}

// AwardFocus awards every FocusBlock-th full study session in one day.
// Returns nil between blocks.
func (s *Service) AwardFocus(ctx context.Context, sessionsToday int) *Award {
	if sessionsToday <= 0 || sessionsToday%FocusBlock != 0 {
		return nil
	}
	return s.award(ctx, AwardFocus, FocusRarity(sessionsToday), fmt.Sprintf("%d focus sessions today", sessionsToday))
}

// Recent returns the awards handed out since the last ResetRecent.
func (s *Service) Recent() []Award {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Award, len(s.recent))
	copy(out, s.recent)
	return out
}

// ResetRecent clears the in-memory award list.
func (s *Service) ResetRecent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recent = nil
}

func (s *Service) award(ctx context.Context, t AwardType, r Rarity, reason string) *Award {
	a := &Award{Type: t, Rarity: r, Reason: reason, AwardedAt: s.now()}

	s.mu.Lock()
	s.recent = append(s.recent, *a)
	s.mu.Unlock()

	s.persist(ctx, a)
	return a
}

func (s *Service) persist(ctx context.Context, a *Award) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendAward(ctx, store.AwardEventData{
		AwardType: string(a.Type),
		Rarity:    string(a.Rarity),
		Reason:    a.Reason,
	})
	if err != nil {
		s.logger.Warn("persist award", zap.String("type", string(a.Type)), zap.Error(err))
	}
}
