package evidence

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"golang.org/x/exp/slices"
)

// Source is one independent evidence lookup. Implementations live under
// pkg/evidence/source and are registered into the aggregator catalogue at
// startup; catalogue order is the order sources appear in the bundle.
type Source interface {
	Key() cpdf.EvidenceSourceKey

	// Lookup queries the backing provider for facts about the ticket.
	// The context carries the per-source timeout. A nil error with
	// Status checked_not_used is "we looked and found nothing"; an error
	// becomes not_checked in the bundle.
	Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error)
}

// sourceApplicability is the static table of which sources apply to which
// violation type. Applicability is declared, never inferred: weather
// history cannot help contest a missing front plate.
var sourceApplicability = map[cpdf.ViolationType][]cpdf.EvidenceSourceKey{
	cpdf.ViolationTypeStreetCleaning: {
		cpdf.EvidenceSourceWeather,
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceGPSParking,
		cpdf.EvidenceSourceStreetView,
		cpdf.EvidenceSourceSchedule,
	},
	cpdf.ViolationTypeSnowRoute: {
		cpdf.EvidenceSourceWeather,
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceGPSParking,
		cpdf.EvidenceSourceSchedule,
	},
	cpdf.ViolationTypePermitZone: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceGPSParking,
		cpdf.EvidenceSourceStreetView,
		cpdf.EvidenceSourceSchedule,
	},
	cpdf.ViolationTypeExpiredMeter: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceGPSParking,
	},
	cpdf.ViolationTypeRedLight: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceStreetView,
	},
	cpdf.ViolationTypeSpeedCamera: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceStreetView,
	},
	cpdf.ViolationTypeMissingFrontPlate: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceStreetView,
	},
	cpdf.ViolationTypeExpiredPlates: {
		cpdf.EvidenceSourceFOIAData,
	},
	cpdf.ViolationTypeNoCitySticker: {
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceStreetView,
	},
}

func sourceApplies(violationType cpdf.ViolationType, key cpdf.EvidenceSourceKey) bool {
	return slices.Contains(sourceApplicability[violationType], key)
}
