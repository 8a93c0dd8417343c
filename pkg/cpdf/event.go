package cpdf

import "time"

type Event struct {
	Type      EventType
	Timestamp time.Time
	Body      interface{}
}

type EventType string

const (
	EventTypeBanActivated EventType = "BanActivated"

	EventTypeBanDeactivated       = "BanDeactivated"
	EventTypeEvidenceRunCompleted = "EvidenceRunCompleted"
	EventTypeDatasetImported      = "DatasetImported"
)
