package cpdf

import (
	"time"

	iso8601 "github.com/senseyeio/duration"
)

type BanSeverity string

const (
	BanSeverityCritical BanSeverity = "critical"
	BanSeverityWarning              = "warning"
	BanSeverityInfo                 = "info"
)

// BanStatus is the current activation state of a time-bounded restriction.
// Exactly one row exists per (city, restriction type); the unique index on
// the table enforces that, not this code.
type BanStatus struct {
	ID uint `gorm:"primarykey" json:"-" groups:"internal"`

	City            string             `gorm:"uniqueIndex:idx_ban_status_city_type;not null" groups:"basic"`
	RestrictionType RestrictionDataset `gorm:"uniqueIndex:idx_ban_status_city_type;not null" groups:"basic"`

	IsActive         bool       `groups:"basic"`
	ActivationDate   *time.Time `groups:"basic"`
	DeactivationDate *time.Time `groups:"basic"`

	// Amount is the measurement that triggered activation, eg. inches of
	// snowfall over 24h
	Amount float64 `groups:"basic"`
	Notes  string  `groups:"basic"`

	// EnforcementWindowStart is a HH:MM time of day; the window length is
	// an ISO8601 duration. Severity is critical only inside this window.
	EnforcementWindowStart    string `groups:"detailed"`
	EnforcementWindowDuration string `groups:"detailed"`

	UpdatedAt time.Time `groups:"internal"`
}

// Activate moves the record into the active state. Calling it while
// already active re-affirms amount and notes but keeps the original
// activation date, so repeated snowfall reports never produce two active
// periods. Returns whether a transition actually happened.
func (b *BanStatus) Activate(now time.Time, amount float64, notes string) bool {
	b.Amount = amount
	b.Notes = notes

	if b.IsActive {
		return false
	}

	b.IsActive = true
	b.ActivationDate = &now
	b.DeactivationDate = nil

	return true
}

// Deactivate moves the record back to inactive. A no-op when already
// inactive, never an error.
func (b *BanStatus) Deactivate(now time.Time, notes string) bool {
	if !b.IsActive {
		return false
	}

	b.IsActive = false
	b.DeactivationDate = &now
	b.Notes = notes

	return true
}

// Severity derives the display severity for "now". It is never stored.
func (b *BanStatus) Severity(now time.Time) BanSeverity {
	if !b.IsActive {
		return BanSeverityInfo
	}

	if b.inEnforcementWindow(now) {
		return BanSeverityCritical
	}

	return BanSeverityWarning
}

func (b *BanStatus) inEnforcementWindow(now time.Time) bool {
	if b.EnforcementWindowStart == "" || b.EnforcementWindowDuration == "" {
		// No posted window means the ban is enforced around the clock
		return true
	}

	start, err := time.Parse("15:04", b.EnforcementWindowStart)
	if err != nil {
		return true
	}

	windowDuration, err := iso8601.ParseISO8601(b.EnforcementWindowDuration)
	if err != nil {
		return true
	}

	windowStart := time.Date(now.Year(), now.Month(), now.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	windowEnd := windowDuration.Shift(windowStart)

	if !now.Before(windowStart) && now.Before(windowEnd) {
		return true
	}

	// Windows like 22:00 + PT8H spill into the next day, so also test the
	// window that started yesterday
	yesterdayStart := windowStart.AddDate(0, 0, -1)
	yesterdayEnd := windowDuration.Shift(yesterdayStart)

	return !now.Before(yesterdayStart) && now.Before(yesterdayEnd)
}
