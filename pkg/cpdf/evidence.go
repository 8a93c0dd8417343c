package cpdf

import "time"

type EvidenceSourceKey string

const (
	EvidenceSourceWeather    EvidenceSourceKey = "weather"
	EvidenceSourceFOIAData                     = "foia_data"
	EvidenceSourceGPSParking                   = "gps_parking"
	EvidenceSourceStreetView                   = "street_view"
	EvidenceSourceSchedule                     = "schedule"
)

type EvidenceStatus string

// Found means the source returned a fact for this ticket, checked_not_used
// means it was queried and came back empty, not_applicable means the source
// does not apply to the violation type, and not_checked means the lookup
// failed or timed out. A letter generator must treat not_checked
// differently from checked_not_used.
const (
	EvidenceStatusFound          EvidenceStatus = "found"
	EvidenceStatusCheckedNotUsed                = "checked_not_used"
	EvidenceStatusNotApplicable                 = "not_applicable"
	EvidenceStatusNotChecked                    = "not_checked"
)

// EvidenceSource is one source's contribution to a bundle. Immutable once
// created; re-running evidence gathering produces a whole new bundle.
type EvidenceSource struct {
	Key    EvidenceSourceKey `groups:"basic"`
	Status EvidenceStatus    `groups:"basic"`

	// DefenseRelevant marks a finding that plausibly supports dismissing
	// the citation
	DefenseRelevant bool `groups:"basic"`

	Payload any    `groups:"basic"`
	Error   string `groups:"basic"`
}

// Typed payloads per source key. Each source owns its payload shape
// rather than sharing an open-ended blob.

type WeatherEvidencePayload struct {
	SnowfallInches      float64 `groups:"basic"`
	PrecipitationInches float64 `groups:"basic"`
	TemperatureHighF    float64 `groups:"basic"`
	TemperatureLowF     float64 `groups:"basic"`
	Conditions          string  `groups:"basic"`
}

type FOIAEvidencePayload struct {
	ViolationCode    string  `groups:"basic"`
	TicketsIssued    int     `groups:"basic"`
	TicketsContested int     `groups:"basic"`
	TicketsDismissed int     `groups:"basic"`
	DismissalRate    float64 `groups:"basic"`
}

type GPSParkingEvidencePayload struct {
	ParkedAt        time.Time `groups:"basic"`
	DepartedAt      time.Time `groups:"basic"`
	DistanceMeters  float64   `groups:"basic"`
	DurationMinutes int       `groups:"basic"`
}

type StreetViewEvidencePayload struct {
	ImageryAvailable bool      `groups:"basic"`
	CaptureDate      time.Time `groups:"basic"`
	PanoramaID       string    `groups:"basic"`
}

type ScheduleEvidencePayload struct {
	ScheduleText        string `groups:"basic"`
	RestrictionInEffect bool   `groups:"basic"`
	MatchedRestriction  string `groups:"basic"`
}

// UserEvidence is whatever the ticket holder uploaded themselves. Always
// attached to the bundle when present, independent of automated sources.
type UserEvidence struct {
	TicketRef   string    `groups:"basic"`
	Description string    `groups:"basic"`
	PhotoURLs   []string  `groups:"basic"`
	SubmittedAt time.Time `groups:"basic"`
}

// CameraEnforcementCheck is the deterministic school-zone window check
// run for camera violations. Pure calendar arithmetic, no network calls.
type CameraEnforcementCheck struct {
	IsWeekend      bool `groups:"basic"`
	IsHoliday      bool `groups:"basic"`
	IsSummerRecess bool `groups:"basic"`
	IsSchoolDay    bool `groups:"basic"`

	SchoolZoneDefenseApplicable bool `groups:"basic"`
}

// EvidenceBundle is the full output of one evidence-gathering run for a
// ticket. Sources appear in catalogue order regardless of which external
// call finished first.
type EvidenceBundle struct {
	TicketRef   string    `groups:"basic"`
	GeneratedAt time.Time `groups:"basic"`

	Sources []EvidenceSource `groups:"basic"`

	UserEvidence *UserEvidence           `groups:"basic"`
	CameraCheck  *CameraEnforcementCheck `groups:"basic"`
}
