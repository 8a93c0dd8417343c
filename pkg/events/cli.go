package events

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/curbwise/curbwise/pkg/consumer"
	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/elastic_client"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Provides the events runner",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run events consumer",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						return err
					}
					if err := elastic_client.Connect(false); err != nil {
						return err
					}

					redisConsumer := consumer.RedisConsumer{
						QueueName:       "curbwise-events",
						NumberConsumers: 5,
						BatchSize:       20,
						Timeout:         2 * time.Second,
						Consumer:        NewEventsBatchConsumer(),
					}
					redisConsumer.Setup()

					signals := make(chan os.Signal, 1)
					signal.Notify(signals, syscall.SIGINT)
					defer signal.Stop(signals)

					<-signals // wait for signal
					go func() {
						<-signals // hard exit on second signal (in case shutdown gets stuck)
						os.Exit(1)
					}()

					<-redis_client.QueueConnection.StopAllConsuming() // wait for all Consume() calls to finish

					return nil
				},
			},
			{
				Name:  "test-event",
				Usage: "generate a test event",
				Action: func(c *cli.Context) error {
					if err := redis_client.Connect(); err != nil {
						return err
					}

					activationDate := time.Now()
					banStatus := cpdf.BanStatus{
						City:            "chicago",
						RestrictionType: cpdf.RestrictionDatasetSnowRoute,

						IsActive:       true,
						ActivationDate: &activationDate,
						Amount:         3.2,
						Notes:          "Test activation",
					}

					eventsQueue, err := redis_client.QueueConnection.OpenQueue("curbwise-events")
					if err != nil {
						log.Fatal().Err(err).Msg("Failed to start event queue")
					}

					event := cpdf.Event{
						Type:      cpdf.EventTypeBanActivated,
						Timestamp: time.Now(),
						Body:      banStatus,
					}

					eventBytes, _ := json.Marshal(event)

					eventsQueue.PublishBytes(eventBytes)

					return nil
				},
			},
		},
	}
}
