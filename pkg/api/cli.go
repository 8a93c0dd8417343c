package api

import (
	"github.com/curbwise/curbwise/pkg/banstatus"
	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/database"
	"github.com/curbwise/curbwise/pkg/evidence/global"
	"github.com/curbwise/curbwise/pkg/geometryindex"
	"github.com/curbwise/curbwise/pkg/redis_client"
	"github.com/curbwise/curbwise/pkg/resolver"
	"github.com/curbwise/curbwise/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the core web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					if err := database.Connect(); err != nil {
						return err
					}
					if err := redis_client.Connect(); err != nil {
						log.Error().Err(err).Msg("Failed to connect to Redis, resolve caching disabled")
					}

					env := util.GetEnvironmentVariables()
					cpdf.LoadSchoolCalendarCache(env["CURBWISE_SCHOOL_CALENDAR_URL"])

					index := geometryindex.NewIndex()
					if err := resolver.LoadPartitions(index); err != nil {
						return err
					}

					restrictionResolver := resolver.NewResolver(index, banstatus.NewManager())

					if redis_client.Client != nil {
						cache := &resolver.Cache{}
						cache.Setup()
						restrictionResolver.Cache = cache
					}

					global.Setup(restrictionResolver)

					return SetupServer(c.String("listen"), restrictionResolver)
				},
			},
		},
	}
}
