package passages

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/dataaggregator"
	"github.com/travigo/tisseo/pkg/util"
)

// Departures are kept on the board for a short while after their scheduled time
const pastDepartureAllowance = 30 * time.Second

type Service struct {
	Aggregator *dataaggregator.Aggregator

	Now func() time.Time
}

func NewService(aggregator *dataaggregator.Aggregator) *Service {
	return &Service{
		Aggregator: aggregator,
		Now:        time.Now,
	}
}

type StopPassages struct {
	StopAreaName string          `groups:"basic"`
	Passages     []*ctdf.Passage `groups:"basic"`
}

func (s *Service) FindStopsByName(ctx context.Context, name string) ([]*ctdf.StopArea, error) {
	return dataaggregator.Lookup[[]*ctdf.StopArea](ctx, s.Aggregator, ctdf.QueryStopAreasByName{Name: name})
}

func (s *Service) FetchDepartures(ctx context.Context, stopAreaID string, limit int, fromDate string) ([]*ctdf.Departure, error) {
	return dataaggregator.Lookup[[]*ctdf.Departure](ctx, s.Aggregator, ctdf.QueryDepartures{
		StopAreaID: stopAreaID,
		Count:      limit,
		FromDate:   fromDate,
	})
}

// ResolveStopArea picks the first stop area matching the name, warning when the name is ambiguous
func (s *Service) ResolveStopArea(ctx context.Context, name string) (*ctdf.StopArea, error) {
	stopAreas, err := s.FindStopsByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if len(stopAreas) == 0 {
		return nil, &ctdf.NotFoundError{Kind: "stop", Name: name}
	}

	if len(stopAreas) > 1 {
		log.Warn().
			Str("name", name).
			Int("matches", len(stopAreas)).
			Str("selected", stopAreas[0].ID).
			Msg("Multiple stop areas found, using the first one")
	}

	return stopAreas[0], nil
}

// NextPassages returns the upcoming passages at a stop, one per line and destination
func (s *Service) NextPassages(ctx context.Context, stopAreaName string, filter Filter) ([]*ctdf.Passage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	stopArea, err := s.ResolveStopArea(ctx, stopAreaName)
	if err != nil {
		return nil, err
	}

	departures, err := s.FetchDepartures(ctx, stopArea.ID, ctdf.DefaultDepartureCount, "")
	if err != nil {
		return nil, err
	}

	passages := make([]*ctdf.Passage, 0, len(departures))
	if len(departures) == 0 {
		return passages, nil
	}

	now := s.Now()

	for _, departure := range departures {
		passage, err := ctdf.NewPassage(departure, now)
		if err != nil {
			return nil, fmt.Errorf("departure at %s: %w", stopArea.Name, err)
		}

		passages = append(passages, passage)
	}

	util.InPlaceFilter(&passages, func(p *ctdf.Passage) bool {
		return p.TimeRemaining >= -pastDepartureAllowance
	})

	return filter.Apply(passages)
}

// NextPassagesForStops runs NextPassages for every stop concurrently, results follow the order of names
func (s *Service) NextPassagesForStops(ctx context.Context, names []string, filter Filter) ([]StopPassages, error) {
	return iter.MapErr(names, func(name *string) (StopPassages, error) {
		passages, err := s.NextPassages(ctx, *name, filter)
		if err != nil {
			return StopPassages{StopAreaName: *name}, err
		}

		return StopPassages{
			StopAreaName: *name,
			Passages:     passages,
		}, nil
	})
}
