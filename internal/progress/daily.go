package progress

import (
	"math"
	"time"
)

// DayStat summarizes one calendar day of study.
type DayStat struct {
	Day     string `json:"day"`     // YYYY-MM-DD
	Weekday string `json:"weekday"` // Mon, Tue, ...
	Seconds int64  `json:"seconds"`
	// Hours is Seconds in hours, rounded to two decimals.
	Hours float64 `json:"hours"`
}

// AddStudySeconds credits n seconds of study to day.
func (s *State) AddStudySeconds(day string, n int64) {
	if n <= 0 {
		return
	}
	if s.Daily == nil {
		s.Daily = make(map[string]int64)
	}
	s.Daily[day] += n
}

// Today returns the seconds studied on now's calendar day.
func (s *State) Today(now time.Time) int64 {
	return s.Daily[DayKey(now)]
}

// Week returns the seven days ending on now's day, oldest first.
func (s *State) Week(now time.Time) []DayStat {
	return LastDays(s.Daily, now, 7)
}

// LastDays builds n day summaries ending on now's day from a day->seconds
// map, oldest first. Missing days report zero.
func LastDays(daily map[string]int64, now time.Time, n int) []DayStat {
	out := make([]DayStat, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := daysBefore(now, i)
		key := DayKey(d)
		secs := daily[key]
		out = append(out, DayStat{
			Day:     key,
			Weekday: d.Format("Mon"),
			Seconds: secs,
			Hours:   math.Round(float64(secs)/36) / 100,
		})
	}
	return out
}

// TotalSeconds sums the seconds across stats.
func TotalSeconds(stats []DayStat) int64 {
	var total int64
	for _, d := range stats {
		total += d.Seconds
	}
	return total
}
