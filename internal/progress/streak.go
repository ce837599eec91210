package progress

import "time"

// DayLayout is the calendar-day key format.
const DayLayout = "2006-01-02"

// DayKey returns the local calendar day of t.
func DayKey(t time.Time) string {
	return t.Local().Format(DayLayout)
}

// daysBefore returns noon on the local calendar day n days before t's
// local day. Working from the local date keeps DST days, and times given
// in other zones, from skipping or repeating a day.
func daysBefore(t time.Time, n int) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d-n, 12, 0, 0, 0, time.Local)
}

// RecordStudyCompletion updates the streak for a study session completed
// at now. A second completion on the same day changes nothing. A
// completion the day after the last one extends the streak; any other gap
// restarts it at 1. Reports whether the streak changed.
func (s *State) RecordStudyCompletion(now time.Time) bool {
	today := DayKey(now)
	if s.LastStudyDay == today {
		return false
	}

	yesterday := DayKey(daysBefore(now, 1))
	if s.LastStudyDay == yesterday {
		s.Streak++
	} else {
		s.Streak = 1
	}
	s.LastStudyDay = today
	return true
}

// ActiveStreak returns the streak as of now: the stored streak while it
// can still be extended (last study today or yesterday), otherwise 0.
func (s *State) ActiveStreak(now time.Time) int {
	switch s.LastStudyDay {
	case DayKey(now), DayKey(daysBefore(now, 1)):
		return s.Streak
	default:
		return 0
	}
}
