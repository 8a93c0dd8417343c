package evidence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"go.mongodb.org/mongo-driver/bson"
)

const DefaultSourceTimeout = 5 * time.Second

type Aggregator struct {
	// Sources in catalogue order; the bundle preserves this order no
	// matter which lookup finishes first
	Sources []Source

	SourceTimeout time.Duration

	// UserEvidenceLookup fetches whatever the ticket holder uploaded.
	// Swappable so tests do not need a database.
	UserEvidenceLookup func(ctx context.Context, ticketRef string) (*cpdf.UserEvidence, error)
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		SourceTimeout:      DefaultSourceTimeout,
		UserEvidenceLookup: lookupUserEvidence,
	}
}

func (a *Aggregator) RegisterSource(source Source) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("key", string(source.Key())).Msg("Registering new Evidence Source")
}

// Gather runs every applicable source concurrently and assembles the
// bundle. A failing or slow source degrades to not_checked; it never
// aborts its siblings. The only error returned is cancellation of the
// whole run, in which case any late source results are discarded along
// with the bundle.
func (a *Aggregator) Gather(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceBundle, error) {
	var applicable []Source
	for _, source := range a.Sources {
		if sourceApplies(ticket.ViolationType, source.Key()) {
			applicable = append(applicable, source)
		}
	}

	timeout := a.SourceTimeout
	if timeout == 0 {
		timeout = DefaultSourceTimeout
	}

	results := make([]cpdf.EvidenceSource, len(applicable))

	p := pool.New()
	for index, source := range applicable {
		p.Go(func() {
			results[index] = a.runSource(ctx, source, ticket, timeout)
		})
	}
	p.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	bundle := &cpdf.EvidenceBundle{
		TicketRef:   ticket.PrimaryIdentifier,
		GeneratedAt: time.Now(),
		Sources:     results,
	}

	if ticket.ViolationType.CameraViolation() {
		bundle.CameraCheck = CheckCameraEnforcement(ticket)
	}

	if a.UserEvidenceLookup != nil {
		userEvidence, err := a.UserEvidenceLookup(ctx, ticket.PrimaryIdentifier)
		if err != nil {
			log.Warn().Err(err).Str("ticket", ticket.PrimaryIdentifier).Msg("Failed to fetch user evidence")
		} else {
			bundle.UserEvidence = userEvidence
		}
	}

	return bundle, nil
}

type lookupResult struct {
	Source *cpdf.EvidenceSource
	Error  error
}

func (a *Aggregator) runSource(ctx context.Context, source Source, ticket *cpdf.Ticket, timeout time.Duration) cpdf.EvidenceSource {
	sourceCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so an abandoned lookup can still complete and be thrown
	// away rather than leaking its goroutine
	resultChannel := make(chan lookupResult, 1)

	go func() {
		lookedUp, err := source.Lookup(sourceCtx, ticket)
		resultChannel <- lookupResult{Source: lookedUp, Error: err}
	}()

	select {
	case result := <-resultChannel:
		if result.Error != nil {
			log.Warn().
				Err(result.Error).
				Str("key", string(source.Key())).
				Str("ticket", ticket.PrimaryIdentifier).
				Msg("Evidence source lookup failed")

			return notChecked(source.Key(), result.Error)
		}

		return *result.Source
	case <-sourceCtx.Done():
		log.Warn().
			Str("key", string(source.Key())).
			Str("ticket", ticket.PrimaryIdentifier).
			Msg("Evidence source lookup timed out")

		return notChecked(source.Key(), sourceCtx.Err())
	}
}

func notChecked(key cpdf.EvidenceSourceKey, err error) cpdf.EvidenceSource {
	return cpdf.EvidenceSource{
		Key:    key,
		Status: cpdf.EvidenceStatusNotChecked,
		Error:  err.Error(),
	}
}

func lookupUserEvidence(ctx context.Context, ticketRef string) (*cpdf.UserEvidence, error) {
	userEvidenceCollection := database.GetCollection("user_evidence")

	var userEvidence *cpdf.UserEvidence
	userEvidenceCollection.FindOne(ctx, bson.M{"ticketref": ticketRef}).Decode(&userEvidence)

	// No upload is the common case & not an error
	return userEvidence, nil
}

// SaveRun records a completed bundle for the contest pipeline. Runs are
// append-only; re-gathering inserts a new document.
func SaveRun(ctx context.Context, bundle *cpdf.EvidenceBundle) error {
	evidenceRunsCollection := database.GetCollection("evidence_runs")

	_, err := evidenceRunsCollection.InsertOne(ctx, bundle)
	if err != nil {
		return err
	}

	publishRunEvent(bundle)

	return nil
}

func publishRunEvent(bundle *cpdf.EvidenceBundle) {
	if redis_client.QueueConnection == nil {
		return
	}

	queue, err := redis_client.QueueConnection.OpenQueue("curbwise-events")
	if err != nil {
		log.Error().Err(err).Msg("Failed to open events queue")
		return
	}

	event := cpdf.Event{
		Type:      cpdf.EventTypeEvidenceRunCompleted,
		Timestamp: time.Now(),
		Body:      bundle,
	}

	eventBytes, _ := json.Marshal(event)
	if err := queue.Publish(string(eventBytes)); err != nil {
		log.Error().Err(err).Msg("Failed to publish evidence run event")
	}
}
