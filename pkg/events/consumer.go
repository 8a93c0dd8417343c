package events

import (
	"bytes"
	"encoding/json"

	"github.com/adjust/rmq/v5"
	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/elastic_client"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
)

// EventsBatchConsumer drains the curbwise-events queue & indexes every
// event for the analytics dashboards.
type EventsBatchConsumer struct {
}

func NewEventsBatchConsumer() *EventsBatchConsumer {
	return &EventsBatchConsumer{}
}

func (consumer *EventsBatchConsumer) Consume(batch rmq.Deliveries) {
	payloads := batch.Payloads()

	for _, payload := range payloads {
		var event cpdf.Event
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			log.Error().Err(err).Msg("Failed to decode event")
			continue
		}

		pretty.Println(event.Type, event.Timestamp)

		elasticEvent, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal event for indexing")
			continue
		}

		elastic_client.IndexRequest("curbwise-events-1", bytes.NewReader(elasticEvent))
	}

	if ackErrors := batch.Ack(); len(ackErrors) > 0 {
		for _, err := range ackErrors {
			log.Fatal().Err(err).Msg("Failed to consume event")
		}
	}
}
