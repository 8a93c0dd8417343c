package cpdf

import "time"

// ScheduleWindow is the structured form of a restriction schedule, eg.
// Chicago street sweeping "1st & 3rd Wed, Apr-Nov, 9am-3pm".
type ScheduleWindow struct {
	DaysOfWeek []time.Weekday `groups:"detailed"`
	// WeeksOfMonth selects which occurrences of the weekday within the
	// month apply (1 = first). Empty means every week.
	WeeksOfMonth []int `groups:"detailed"`

	MonthStart time.Month `groups:"detailed"`
	MonthEnd   time.Month `groups:"detailed"`

	HourStart int `groups:"detailed"`
	HourEnd   int `groups:"detailed"`
}

// InEffect reports whether the restriction applies at the given moment.
func (s *ScheduleWindow) InEffect(at time.Time) bool {
	if !s.MatchDate(at) {
		return false
	}

	if s.HourStart == 0 && s.HourEnd == 0 {
		return true
	}

	hour := at.Hour()
	return hour >= s.HourStart && hour < s.HourEnd
}

// MatchDate reports whether the restriction applies on the given day,
// ignoring the hour window.
func (s *ScheduleWindow) MatchDate(at time.Time) bool {
	if s.MonthStart != 0 && s.MonthEnd != 0 {
		month := at.Month()
		if s.MonthStart <= s.MonthEnd {
			if month < s.MonthStart || month > s.MonthEnd {
				return false
			}
		} else {
			// Season wraps the new year (eg. Dec-Mar snow routes)
			if month < s.MonthStart && month > s.MonthEnd {
				return false
			}
		}
	}

	if len(s.DaysOfWeek) > 0 {
		dayMatched := false
		for _, day := range s.DaysOfWeek {
			if at.Weekday() == day {
				dayMatched = true
				break
			}
		}
		if !dayMatched {
			return false
		}
	}

	if len(s.WeeksOfMonth) > 0 {
		week := ((at.Day() - 1) / 7) + 1
		weekMatched := false
		for _, w := range s.WeeksOfMonth {
			if week == w {
				weekMatched = true
				break
			}
		}
		if !weekMatched {
			return false
		}
	}

	return true
}
