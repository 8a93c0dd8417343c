package cpdf

import (
	"testing"
	"time"
)

func TestScheduleWindowInEffect(t *testing.T) {
	// 1st & 3rd Wednesday, Apr-Nov, 9am-3pm
	sweeping := ScheduleWindow{
		DaysOfWeek:   []time.Weekday{time.Wednesday},
		WeeksOfMonth: []int{1, 3},
		MonthStart:   time.April,
		MonthEnd:     time.November,
		HourStart:    9,
		HourEnd:      15,
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"first wednesday in window", time.Date(2025, time.June, 4, 10, 0, 0, 0, time.UTC), true},
		{"third wednesday in window", time.Date(2025, time.June, 18, 14, 59, 0, 0, time.UTC), true},
		{"second wednesday", time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC), false},
		{"right weekday wrong hour", time.Date(2025, time.June, 4, 16, 0, 0, 0, time.UTC), false},
		{"out of season", time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC), false},
		{"thursday", time.Date(2025, time.June, 5, 10, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sweeping.InEffect(tc.at); got != tc.want {
				t.Errorf("InEffect(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}

func TestScheduleWindowWrappingSeason(t *testing.T) {
	// Dec-Mar winter overnight parking ban season
	winter := ScheduleWindow{
		MonthStart: time.December,
		MonthEnd:   time.March,
	}

	if !winter.InEffect(time.Date(2025, time.January, 15, 4, 0, 0, 0, time.UTC)) {
		t.Error("january should be in a Dec-Mar season")
	}
	if !winter.InEffect(time.Date(2025, time.December, 1, 4, 0, 0, 0, time.UTC)) {
		t.Error("december should be in a Dec-Mar season")
	}
	if winter.InEffect(time.Date(2025, time.July, 15, 4, 0, 0, 0, time.UTC)) {
		t.Error("july should not be in a Dec-Mar season")
	}
}

func TestScheduleWindowUnbounded(t *testing.T) {
	// Nothing set means the restriction always applies
	always := ScheduleWindow{}

	if !always.InEffect(time.Date(2025, time.July, 15, 3, 0, 0, 0, time.UTC)) {
		t.Error("empty window should always be in effect")
	}
}
