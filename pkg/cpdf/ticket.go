package cpdf

import "time"

type ViolationType string

const (
	ViolationTypeStreetCleaning    ViolationType = "street_cleaning"
	ViolationTypeSnowRoute                       = "snow_route"
	ViolationTypePermitZone                      = "permit_zone"
	ViolationTypeExpiredMeter                    = "expired_meter"
	ViolationTypeRedLight                        = "red_light"
	ViolationTypeSpeedCamera                     = "speed_camera"
	ViolationTypeMissingFrontPlate               = "missing_front_plate"
	ViolationTypeExpiredPlates                   = "expired_plates"
	ViolationTypeNoCitySticker                   = "no_city_sticker"
)

// CameraViolation reports whether the violation type is an automated
// camera citation, which gets the extra school-zone enforcement check.
func (v ViolationType) CameraViolation() bool {
	return v == ViolationTypeRedLight || v == ViolationTypeSpeedCamera
}

type Ticket struct {
	PrimaryIdentifier string `groups:"basic"`

	UserIdentifier string `groups:"internal"`
	Plate          string `groups:"basic"`

	City          string        `groups:"basic"`
	ViolationType ViolationType `groups:"basic"`
	ViolationCode string        `groups:"basic"`

	IssueDateTime time.Time `groups:"basic"`
	Location      Location  `groups:"basic"`
	Address       string    `groups:"basic"`

	Amount float64 `groups:"basic"`

	CreationDateTime     time.Time `groups:"internal"`
	ModificationDateTime time.Time `groups:"internal"`
}
