package evidence

import (
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
)

// CheckCameraEnforcement evaluates whether a camera ticket was issued
// outside the posted school-zone enforcement window. Pure calendar
// arithmetic over the cached school calendar; nothing here touches the
// network.
//
// Camera enforcement near schools only applies on school days, so a
// citation issued on a weekend, holiday or during summer recess carries a
// school-zone defense.
func CheckCameraEnforcement(ticket *cpdf.Ticket) *cpdf.CameraEnforcementCheck {
	issued := ticket.IssueDateTime

	check := &cpdf.CameraEnforcementCheck{
		IsWeekend:      issued.Weekday() == time.Saturday || issued.Weekday() == time.Sunday,
		IsHoliday:      cpdf.IsSchoolHoliday(issued),
		IsSummerRecess: cpdf.IsSummerRecess(issued),
		IsSchoolDay:    cpdf.IsSchoolDay(issued),
	}

	check.SchoolZoneDefenseApplicable = !check.IsSchoolDay

	return check
}
