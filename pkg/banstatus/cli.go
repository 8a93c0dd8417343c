package banstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const defaultSnowfallThresholdInches = 2.0

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "ban-status",
		Usage: "Manage & watch time-bounded parking ban activation",
		Subcommands: []*cli.Command{
			{
				Name:  "activate",
				Usage: "manually activate a ban",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city", Required: true},
					&cli.Float64Flag{Name: "amount"},
					&cli.StringFlag{Name: "notes"},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Error().Err(err).Msg("Failed to connect to Redis, events will not be published")
					}

					manager := NewManager()
					status, err := manager.Activate(context.Background(), c.String("city"), cpdf.RestrictionDatasetSnowRoute, c.Float64("amount"), c.String("notes"))
					if err != nil {
						return err
					}

					log.Info().
						Str("city", status.City).
						Time("activated", *status.ActivationDate).
						Msg("Ban active")

					return nil
				},
			},
			{
				Name:  "deactivate",
				Usage: "manually deactivate a ban",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "city", Required: true},
					&cli.StringFlag{Name: "notes"},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Error().Err(err).Msg("Failed to connect to Redis, events will not be published")
					}

					manager := NewManager()
					status, err := manager.Deactivate(context.Background(), c.String("city"), cpdf.RestrictionDatasetSnowRoute, c.String("notes"))
					if err != nil {
						return err
					}

					log.Info().Str("city", status.City).Bool("active", status.IsActive).Msg("Ban status")

					return nil
				},
			},
			{
				Name:  "watch",
				Usage: "poll snowfall observations & flip the ban when the threshold is crossed",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "city",
						Usage:    "cities to watch",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "24h snowfall in inches that activates the ban",
						Value: defaultSnowfallThresholdInches,
					},
					&cli.StringFlag{
						Name:     "observation-url",
						Usage:    "snowfall observation endpoint, %s is replaced with the city",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "poll interval",
						Value: 15 * time.Minute,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Fatal().Err(err).Msg("Failed to connect to Redis")
					}

					watcher := Watcher{
						Manager:        NewManager(),
						Cities:         c.StringSlice("city"),
						Threshold:      c.Float64("threshold"),
						ObservationURL: c.String("observation-url"),
					}

					for {
						watcher.CheckAll()

						time.Sleep(c.Duration("interval"))
					}
				},
			},
		},
	}
}

type Watcher struct {
	Manager *Manager

	Cities         []string
	Threshold      float64
	ObservationURL string
}

type snowfallObservation struct {
	City           string  `json:"city"`
	Snowfall24Hour float64 `json:"snowfall_24h_inches"`
	ObservedAt     string  `json:"observed_at"`
}

func (w *Watcher) CheckAll() {
	for _, city := range w.Cities {
		if err := w.Check(city); err != nil {
			log.Error().Err(err).Str("city", city).Msg("Snowfall check failed")
		}
	}
}

func (w *Watcher) Check(city string) error {
	observation, err := w.fetchObservation(city)
	if err != nil {
		return err
	}

	log.Debug().
		Str("city", city).
		Float64("snowfall", observation.Snowfall24Hour).
		Msg("Snowfall observation")

	if observation.Snowfall24Hour >= w.Threshold {
		notes := fmt.Sprintf("Automatic activation at %.1f inches over 24h", observation.Snowfall24Hour)
		_, err = w.Manager.Activate(context.Background(), city, cpdf.RestrictionDatasetSnowRoute, observation.Snowfall24Hour, notes)
		return err
	}

	status, err := w.Manager.Get(context.Background(), city, cpdf.RestrictionDatasetSnowRoute)
	if err != nil || !status.IsActive {
		// Nothing active to clear
		return nil
	}

	notes := fmt.Sprintf("Automatic all-clear at %.1f inches over 24h", observation.Snowfall24Hour)
	_, err = w.Manager.Deactivate(context.Background(), city, cpdf.RestrictionDatasetSnowRoute, notes)
	return err
}

func (w *Watcher) fetchObservation(city string) (*snowfallObservation, error) {
	resp, err := http.Get(fmt.Sprintf(w.ObservationURL, city))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("observation endpoint returned %d", resp.StatusCode)
	}

	var observation snowfallObservation
	if err := json.NewDecoder(resp.Body).Decode(&observation); err != nil {
		return nil, err
	}

	return &observation, nil
}
