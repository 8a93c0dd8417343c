package schedule

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/resolver"
)

// Source resolves the governing restriction schedule at the citation
// location and checks it against the violation time. A ticket written
// outside the posted window, or on a block with no posted restriction at
// all, is the clearest defense the system can produce automatically.
type Source struct {
	Resolver *resolver.Resolver
}

var violationDatasets = map[cpdf.ViolationType]cpdf.RestrictionDataset{
	cpdf.ViolationTypeStreetCleaning: cpdf.RestrictionDatasetStreetCleaning,
	cpdf.ViolationTypeSnowRoute:      cpdf.RestrictionDatasetSnowRoute,
	cpdf.ViolationTypePermitZone:     cpdf.RestrictionDatasetPermitZone,
}

func (s Source) Key() cpdf.EvidenceSourceKey {
	return cpdf.EvidenceSourceSchedule
}

func (s Source) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	dataset, known := violationDatasets[ticket.ViolationType]
	if !known {
		return &cpdf.EvidenceSource{
			Key:    s.Key(),
			Status: cpdf.EvidenceStatusCheckedNotUsed,
		}, nil
	}

	matches, err := s.Resolver.Resolve(ctx, ticket.City, ticket.Location, &resolver.Options{
		Datasets: []cpdf.RestrictionDataset{dataset},
	})
	if err != nil {
		return nil, err
	}

	if len(matches) == 0 {
		// No imported restriction covers this point. That is a finding,
		// not an absence of one: the citation names a restriction the
		// city's own data does not place here.
		return &cpdf.EvidenceSource{
			Key:             s.Key(),
			Status:          cpdf.EvidenceStatusFound,
			DefenseRelevant: true,
			Payload: cpdf.ScheduleEvidencePayload{
				RestrictionInEffect: false,
			},
		}, nil
	}

	governing := matches[0]

	inEffect := true
	if governing.Attributes.Schedule != nil {
		inEffect = governing.Attributes.Schedule.InEffect(ticket.IssueDateTime)
	}

	return &cpdf.EvidenceSource{
		Key:             s.Key(),
		Status:          cpdf.EvidenceStatusFound,
		DefenseRelevant: !inEffect,
		Payload: cpdf.ScheduleEvidencePayload{
			ScheduleText:        governing.Attributes.ScheduleText,
			RestrictionInEffect: inEffect,
			MatchedRestriction:  governing.RestrictionID,
		},
	}, nil
}
