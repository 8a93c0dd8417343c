package consumer

import (
	"fmt"
	"net/http"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
)

const prefetchPollInterval = 1 * time.Second
const monitoringListen = ":3333"

// RedisConsumer runs a pool of batch consumers over one rmq queue and
// serves queue stats plus a health endpoint for the deployment probes.
type RedisConsumer struct {
	QueueName string

	NumberConsumers int
	BatchSize       int

	Timeout time.Duration

	Consumer rmq.BatchConsumer
}

// Setup starts the consumer pool and the monitoring endpoints, then
// returns; callers decide how to wait for shutdown.
func (c *RedisConsumer) Setup() {
	queue, err := redis_client.QueueConnection.OpenQueue(c.QueueName)
	if err != nil {
		log.Fatal().Err(err).Str("queue", c.QueueName).Msg("Failed to open queue")
	}

	prefetch := int64(c.NumberConsumers * c.BatchSize)
	if err := queue.StartConsuming(prefetch, prefetchPollInterval); err != nil {
		log.Fatal().Err(err).Str("queue", c.QueueName).Msg("Failed to start consuming")
	}

	for id := 0; id < c.NumberConsumers; id++ {
		tag := fmt.Sprintf("%s-%d", c.QueueName, id)

		log.Info().Str("tag", tag).Msg("Starting queue consumer")

		if _, err := queue.AddBatchConsumer(tag, int64(c.BatchSize), c.Timeout, c.Consumer); err != nil {
			log.Fatal().Err(err).Str("tag", tag).Msg("Failed to register batch consumer")
		}
	}

	go c.serveMonitoring()
}

func (c *RedisConsumer) serveMonitoring() {
	endpoint := fmt.Sprintf("/%s/stats", c.QueueName)
	http.Handle(endpoint, NewStatsHandler(redis_client.QueueConnection))
	http.Handle("/health", NewHealthHandler())

	log.Info().Str("listen", monitoringListen).Str("endpoint", endpoint).Msg("Monitoring server started")
	if err := http.ListenAndServe(monitoringListen, nil); err != nil {
		log.Fatal().Err(err).Msg("Monitoring server failed")
	}
}
