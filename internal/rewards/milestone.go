package rewards

var streakMilestones = []int{3, 7, 14, 30}

const (
	// TaskMilestoneEvery is the completed-task interval that earns an award.
	TaskMilestoneEvery = 10
	// FocusBlock is the number of study sessions in a day that earns an award.
	FocusBlock = 4
)

// NextStreakMilestone returns the next streak milestone above current.
func NextStreakMilestone(current int) int {
	for _, m := range streakMilestones {
		if m > current {
			return m
		}
	}
	// Beyond a month, every further month.
	return ((current / 30) + 1) * 30
}

// IsStreakMilestone reports whether a streak of days earns an award.
func IsStreakMilestone(days int) bool {
	for _, m := range streakMilestones {
		if m == days {
			return true
		}
	}
	return days > 30 && days%30 == 0
}
