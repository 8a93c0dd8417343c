package evidence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
)

type fakeSource struct {
	key   cpdf.EvidenceSourceKey
	delay time.Duration
	err   error
}

func (f *fakeSource) Key() cpdf.EvidenceSourceKey {
	return f.key
}

func (f *fakeSource) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}

	return &cpdf.EvidenceSource{
		Key:    f.key,
		Status: cpdf.EvidenceStatusFound,
	}, nil
}

func streetCleaningTicket() *cpdf.Ticket {
	return &cpdf.Ticket{
		PrimaryIdentifier: "chicago-ticket-1",
		City:              "chicago",
		ViolationType:     cpdf.ViolationTypeStreetCleaning,
		IssueDateTime:     time.Date(2025, time.October, 14, 10, 30, 0, 0, time.UTC),
		Location:          cpdf.NewLocation(-87.6298, 41.8781),
	}
}

func TestGatherCatalogueOrder(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil

	// The first source is slow; the bundle must still lead with it
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceWeather, delay: 50 * time.Millisecond})
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceFOIAData})
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceGPSParking})

	bundle, err := aggregator.Gather(context.Background(), streetCleaningTicket())
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	want := []cpdf.EvidenceSourceKey{
		cpdf.EvidenceSourceWeather,
		cpdf.EvidenceSourceFOIAData,
		cpdf.EvidenceSourceGPSParking,
	}
	if len(bundle.Sources) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(bundle.Sources))
	}
	for index, key := range want {
		if bundle.Sources[index].Key != key {
			t.Errorf("source %d = %s, want %s", index, bundle.Sources[index].Key, key)
		}
	}
}

func TestGatherFailureIsolation(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil

	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceWeather, err: errors.New("upstream 503")})
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceFOIAData})

	bundle, err := aggregator.Gather(context.Background(), streetCleaningTicket())
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	if bundle.Sources[0].Status != cpdf.EvidenceStatusNotChecked {
		t.Errorf("failed source status = %s, want not_checked", bundle.Sources[0].Status)
	}
	if bundle.Sources[0].Error == "" {
		t.Error("failed source should carry the error message")
	}
	if bundle.Sources[1].Status != cpdf.EvidenceStatusFound {
		t.Errorf("healthy source status = %s, want found", bundle.Sources[1].Status)
	}
}

func TestGatherSourceTimeout(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil
	aggregator.SourceTimeout = 20 * time.Millisecond

	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceWeather, delay: 500 * time.Millisecond})
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceFOIAData})

	start := time.Now()
	bundle, err := aggregator.Gather(context.Background(), streetCleaningTicket())
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("gather waited %s for a timed-out source", elapsed)
	}

	if bundle.Sources[0].Status != cpdf.EvidenceStatusNotChecked {
		t.Errorf("timed-out source status = %s, want not_checked", bundle.Sources[0].Status)
	}
	if bundle.Sources[1].Status != cpdf.EvidenceStatusFound {
		t.Errorf("healthy source status = %s, want found", bundle.Sources[1].Status)
	}
}

func TestGatherCancellation(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil

	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceWeather, delay: 100 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bundle, err := aggregator.Gather(ctx, streetCleaningTicket())
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if bundle != nil {
		t.Error("cancelled gather must discard the bundle")
	}
}

func TestGatherApplicabilityFilter(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil

	// Weather never applies to an expired plates citation
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceWeather})
	aggregator.RegisterSource(&fakeSource{key: cpdf.EvidenceSourceFOIAData})

	ticket := streetCleaningTicket()
	ticket.ViolationType = cpdf.ViolationTypeExpiredPlates

	bundle, err := aggregator.Gather(context.Background(), ticket)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	if len(bundle.Sources) != 1 || bundle.Sources[0].Key != cpdf.EvidenceSourceFOIAData {
		t.Fatalf("expected only the FOIA source, got %v", bundle.Sources)
	}
}

func TestGatherUserEvidence(t *testing.T) {
	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = func(ctx context.Context, ticketRef string) (*cpdf.UserEvidence, error) {
		return &cpdf.UserEvidence{TicketRef: ticketRef}, nil
	}

	bundle, err := aggregator.Gather(context.Background(), streetCleaningTicket())
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	if bundle.UserEvidence == nil || bundle.UserEvidence.TicketRef != "chicago-ticket-1" {
		t.Errorf("user evidence not attached: %+v", bundle.UserEvidence)
	}
}

func TestGatherCameraCheck(t *testing.T) {
	cpdf.LoadSchoolCalendarCache("")

	aggregator := NewAggregator()
	aggregator.UserEvidenceLookup = nil

	ticket := streetCleaningTicket()
	ticket.ViolationType = cpdf.ViolationTypeRedLight
	// A Saturday
	ticket.IssueDateTime = time.Date(2025, time.October, 11, 14, 0, 0, 0, time.UTC)

	bundle, err := aggregator.Gather(context.Background(), ticket)
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}

	if bundle.CameraCheck == nil {
		t.Fatal("camera violations should get the enforcement check")
	}
	if !bundle.CameraCheck.IsWeekend {
		t.Error("saturday citation should be flagged as weekend")
	}
	if !bundle.CameraCheck.SchoolZoneDefenseApplicable {
		t.Error("weekend citation should carry the school-zone defense")
	}

	// Non-camera violations never get the check
	bundle, err = aggregator.Gather(context.Background(), streetCleaningTicket())
	if err != nil {
		t.Fatalf("Gather returned error: %v", err)
	}
	if bundle.CameraCheck != nil {
		t.Error("street cleaning ticket should not get a camera check")
	}
}
