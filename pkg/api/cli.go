package api

import (
	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/dataaggregator/global"
	"github.com/travigo/tisseo/pkg/passages"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the next passages web API",
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
					environment, err := global.SetupFromEnvironment(c.Context)
					if err != nil {
						return err
					}
					defer environment.Close()

					log.Info().Str("listen", c.String("listen")).Msg("Starting web API")

					return SetupServer(c.String("listen"), passages.NewService(environment.Aggregator))
				},
			},
		},
	}
}
