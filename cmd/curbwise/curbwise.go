package main

import (
	"os"
	"time"

	"github.com/curbwise/curbwise/pkg/api"
	"github.com/curbwise/curbwise/pkg/banstatus"
	"github.com/curbwise/curbwise/pkg/dataimporter"
	"github.com/curbwise/curbwise/pkg/events"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("CURBWISE_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("CURBWISE_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "curbwise",
		Description: "Single binary of truth for Curbwise - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			dataimporter.RegisterCLI(),
			banstatus.RegisterCLI(),
			events.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
