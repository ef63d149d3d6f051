package passages

import (
	"fmt"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/dataaggregator/global"
	"github.com/travigo/tisseo/pkg/util"
	"github.com/urfave/cli/v2"
)

func setupService(c *cli.Context) (*Service, *global.Environment, error) {
	environment, err := global.SetupFromEnvironment(c.Context)
	if err != nil {
		return nil, nil, err
	}

	return NewService(environment.Aggregator), environment, nil
}

func RegisterCLI() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "next",
			Usage: "list the next passages at one or more stops",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "stop",
					Usage:    "stop area name, can be repeated",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "line",
					Usage: "only show this line",
				},
				&cli.StringFlag{
					Name:  "destination",
					Usage: "only show this destination",
				},
				&cli.StringFlag{
					Name:  "where",
					Usage: "expression over Line, Destination, Minutes and Time",
				},
			},
			Action: func(c *cli.Context) error {
				service, environment, err := setupService(c)
				if err != nil {
					return err
				}
				defer environment.Close()

				filter := Filter{
					Line:        FilterValue(c.String("line")),
					Destination: FilterValue(c.String("destination")),
					Where:       c.String("where"),
				}

				results, err := service.NextPassagesForStops(c.Context, c.StringSlice("stop"), filter)
				if err != nil {
					return err
				}

				for _, result := range results {
					if len(results) > 1 {
						fmt.Fprintf(c.App.Writer, "%s\n", result.StopAreaName)
					}

					if len(result.Passages) == 0 {
						fmt.Fprintf(c.App.Writer, "Aucun passage prévu à %s\n", result.StopAreaName)
					}

					for _, passage := range result.Passages {
						fmt.Fprintf(c.App.Writer, "%s (dans %s)\n", Format(passage), passage.HumanTimeRemaining)
					}
				}

				return nil
			},
		},
		{
			Name:  "stops",
			Usage: "find stop areas by name",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Required: true,
				},
				&cli.BoolFlag{
					Name:  "debug",
					Usage: "dump the matching records",
				},
			},
			Action: func(c *cli.Context) error {
				service, environment, err := setupService(c)
				if err != nil {
					return err
				}
				defer environment.Close()

				stopAreas, err := service.FindStopsByName(c.Context, c.String("name"))
				if err != nil {
					return err
				}

				if len(stopAreas) == 0 {
					return &ctdf.NotFoundError{Kind: "stop", Name: c.String("name")}
				}

				if c.Bool("debug") {
					pretty.Fprintf(c.App.Writer, "%# v\n", stopAreas)
					return nil
				}

				for _, stopArea := range stopAreas {
					fmt.Fprintln(c.App.Writer, FormatStopArea(stopArea))
				}

				return nil
			},
		},
		{
			Name:  "departures",
			Usage: "list the raw departures of a stop area identifier",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "stop-id",
					Required: true,
				},
				&cli.IntFlag{
					Name:  "count",
					Value: ctdf.DefaultDepartureCount,
				},
				&cli.StringFlag{
					Name:  "datetime",
					Usage: "only departures after this local time, YYYY-MM-DD HH:MM",
				},
				&cli.StringFlag{
					Name:  "in",
					Usage: "only departures after now shifted by this ISO8601 duration, eg PT30M",
				},
			},
			Action: func(c *cli.Context) error {
				fromDate := c.String("datetime")

				if c.String("in") != "" {
					shifted, err := util.ShiftISO8601(time.Now(), c.String("in"))
					if err != nil {
						return fmt.Errorf("--in: %w", err)
					}
					fromDate = ctdf.FormatDepartureDateTime(shifted)
				}

				service, environment, err := setupService(c)
				if err != nil {
					return err
				}
				defer environment.Close()

				departures, err := service.FetchDepartures(c.Context, c.String("stop-id"), c.Int("count"), fromDate)
				if err != nil {
					return err
				}

				for _, departure := range departures {
					destination, err := departure.DestinationName()
					if err != nil {
						log.Warn().Err(err).Str("line", departure.Line.ShortName).Msg("Departure has no destination")
						destination = unknownDestination
					}

					fmt.Fprintln(c.App.Writer, formatDeparture(departure.Line.ShortName, destination, departure.DateTime))
				}

				return nil
			},
		},
	}
}
