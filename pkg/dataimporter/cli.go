package dataimporter

import (
	"time"

	"github.com/curbwise/curbwise/pkg/dataimporter/manager"

	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/urfave/cli/v2"

	"github.com/rs/zerolog/log"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Download & convert city restriction datasets into CPDF",
		Subcommands: []*cli.Command{
			{
				Name:  "dataset",
				Usage: "Import a dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "ID of the dataset",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat this import every X seconds",
						Required: false,
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Fatal().Err(err).Msg("Failed to connect to Redis")
					}

					datasetid := c.String("id")

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						var err error
						repeatDuration, err = time.ParseDuration(repeatEvery)

						if err != nil {
							return err
						}
					}

					dataset, err := manager.GetDataset(datasetid)
					if err != nil {
						return err
					}

					for {
						startTime := time.Now()

						err := manager.ImportDataset(&dataset)

						if err != nil {
							return err
						}
						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						waitTime := repeatDuration - executionDuration

						if waitTime.Seconds() > 0 {
							time.Sleep(waitTime)
						}
					}

					return nil
				},
			},
			{
				Name:  "all",
				Usage: "Import every registered dataset once",
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Fatal().Err(err).Msg("Failed to connect to Redis")
					}

					for _, dataset := range manager.GetRegisteredDataSets() {
						err := manager.ImportDataset(&dataset)

						if err != nil {
							log.Error().Err(err).Str("id", dataset.Identifier).Msg("Failed to import dataset")
						}
					}

					return nil
				},
			},
		},
	}
}
