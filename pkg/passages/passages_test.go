package passages

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/dataaggregator"
	"github.com/travigo/tisseo/pkg/dataaggregator/source"
	"github.com/travigo/tisseo/pkg/dataaggregator/source/stopdirectory"
)

const testDirectory = `{"stopAreas": {"stopArea": [
	{"name": "Ramonville", "id": "stop_area:SA_1"},
	{"name": "Capitole", "id": "stop_area:SA_2"},
	{"name": "Jeanne d'Arc", "id": "stop_area:SA_3"},
	{"name": "Jeanne d'Arc", "id": "stop_area:SA_4"},
	{"name": "Empty", "id": "stop_area:SA_5"}
]}}`

var testNow = time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC)

type departuresSource struct {
	departures map[string][]*ctdf.Departure
	err        error
	requests   atomic.Int32

	mutex   sync.Mutex
	queries []ctdf.QueryDepartures
}

func (d *departuresSource) GetName() string {
	return "Test departures"
}

func (d *departuresSource) Supports() []reflect.Type {
	return []reflect.Type{reflect.TypeOf([]*ctdf.Departure{})}
}

func (d *departuresSource) Lookup(ctx context.Context, q any) (interface{}, error) {
	query, ok := q.(ctdf.QueryDepartures)
	if !ok {
		return nil, source.UnsupportedSourceError
	}

	d.requests.Add(1)

	d.mutex.Lock()
	d.queries = append(d.queries, query)
	d.mutex.Unlock()

	if d.err != nil {
		return nil, d.err
	}

	return d.departures[query.StopAreaID], nil
}

// departure builds an API record leaving the given number of minutes after testNow, Paris local time
func departure(line string, destination string, minutes int) *ctdf.Departure {
	paris, _ := time.LoadLocation(ctdf.NetworkTimezone)

	return &ctdf.Departure{
		DateTime:    testNow.Add(time.Duration(minutes) * time.Minute).In(paris).Format(ctdf.DepartureDateTimeFormat),
		Line:        ctdf.DepartureLine{ShortName: line},
		Destination: []ctdf.DepartureDestination{{Name: destination}},
	}
}

func newTestService(t *testing.T, departures map[string][]*ctdf.Departure) (*Service, *departuresSource) {
	directory, err := stopdirectory.Parse([]byte(testDirectory))
	require.NoError(t, err)

	fake := &departuresSource{departures: departures}

	aggregator := &dataaggregator.Aggregator{}
	aggregator.RegisterSource(directory)
	aggregator.RegisterSource(fake)

	service := NewService(aggregator)
	service.Now = func() time.Time { return testNow }

	return service, fake
}

func summarise(passages []*ctdf.Passage) [][2]string {
	summary := [][2]string{}
	for _, p := range passages {
		summary = append(summary, [2]string{p.Line, p.Destination})
	}
	return summary
}

func TestNextPassagesDeduplicates(t *testing.T) {
	service, fake := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_1": {
			departure("L6", "Ramonville", 5),
			departure("109", "Labège", 8),
			departure("L6", "Ramonville", 20),
			departure("L6", "Castanet", 25),
		},
	})

	passages, err := service.NextPassages(context.Background(), "ramonville", Filter{})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"L6", "Ramonville"}, {"109", "Labège"}, {"L6", "Castanet"}}, summarise(passages))
	assert.Equal(t, "5 minutes", passages[0].HumanTimeRemaining)
	assert.Equal(t, "25 minutes", passages[2].HumanTimeRemaining)

	require.Len(t, fake.queries, 1)
	assert.Equal(t, "stop_area:SA_1", fake.queries[0].StopAreaID)
	assert.Equal(t, 15, fake.queries[0].Count)
}

func TestNextPassagesFilterByLine(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_1": {
			departure("L6", "Ramonville", 5),
			departure("109", "Labège", 8),
			departure("L6", "Castanet", 25),
		},
	})

	passages, err := service.NextPassages(context.Background(), "Ramonville", Filter{Line: "l6"})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"L6", "Ramonville"}, {"L6", "Castanet"}}, summarise(passages))
}

func TestNextPassagesFilterByDestination(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_2": {
			departure("L4", "Saint-Cyprien", 2),
			departure("A", "Basso Cambo", 3),
			departure("14", "saint cyprien", 6),
		},
	})

	passages, err := service.NextPassages(context.Background(), "Capitole", Filter{Destination: "Saint Cyprien"})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"L4", "Saint-Cyprien"}, {"14", "saint cyprien"}}, summarise(passages))

	passages, err = service.NextPassages(context.Background(), "Capitole", Filter{Line: "L4", Destination: "SAINT-CYPRIEN"})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"L4", "Saint-Cyprien"}}, summarise(passages))
}

func TestNextPassagesFilterByExpression(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_2": {
			departure("L4", "Saint-Cyprien", 2),
			departure("A", "Basso Cambo", 12),
			departure("B", "Ramonville", 40),
		},
	})

	passages, err := service.NextPassages(context.Background(), "Capitole", Filter{Where: `Minutes >= 10 && Line != "B"`})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"A", "Basso Cambo"}}, summarise(passages))
}

func TestNextPassagesInvalidExpression(t *testing.T) {
	service, fake := newTestService(t, nil)

	_, err := service.NextPassages(context.Background(), "Capitole", Filter{Where: `Minutes +`})

	var validationError *ctdf.ValidationError
	assert.ErrorAs(t, err, &validationError)
	assert.EqualValues(t, 0, fake.requests.Load())

	_, err = service.NextPassages(context.Background(), "Capitole", Filter{Where: `Line`})
	assert.ErrorAs(t, err, &validationError)
}

func TestNextPassagesUnknownStop(t *testing.T) {
	service, fake := newTestService(t, nil)

	_, err := service.NextPassages(context.Background(), "Nowhere", Filter{})

	assert.ErrorIs(t, err, ctdf.ErrNotFound)
	assert.EqualValues(t, 0, fake.requests.Load())
}

func TestNextPassagesEmpty(t *testing.T) {
	service, fake := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_5": {},
	})

	passages, err := service.NextPassages(context.Background(), "Empty", Filter{Line: "L6"})
	require.NoError(t, err)
	assert.NotNil(t, passages)
	assert.Empty(t, passages)
	assert.EqualValues(t, 1, fake.requests.Load())
}

func TestNextPassagesAmbiguousStopUsesFirst(t *testing.T) {
	service, fake := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_3": {departure("B", "Borderouge", 4)},
		"stop_area:SA_4": {departure("L1", "Sept Deniers", 4)},
	})

	passages, err := service.NextPassages(context.Background(), "JEANNE D'ARC", Filter{})
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"B", "Borderouge"}}, summarise(passages))
	assert.Equal(t, "stop_area:SA_3", fake.queries[0].StopAreaID)
}

func TestNextPassagesDropsPastDepartures(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_1": {
			departure("L6", "Castanet", -5),
			departure("L6", "Castanet", 0),
			departure("L6", "Ramonville", 3),
		},
	})

	passages, err := service.NextPassages(context.Background(), "Ramonville", Filter{})
	require.NoError(t, err)

	require.Len(t, passages, 2)
	assert.Equal(t, "moins d'une minute", passages[0].HumanTimeRemaining)
	assert.Equal(t, time.Duration(0), passages[0].TimeRemaining)
}

func TestNextPassagesInvalidDateTime(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_1": {
			{DateTime: "18/10/2026 10:52", Line: ctdf.DepartureLine{ShortName: "L6"}, Destination: []ctdf.DepartureDestination{{Name: "Castanet"}}},
		},
	})

	_, err := service.NextPassages(context.Background(), "Ramonville", Filter{})

	var validationError *ctdf.ValidationError
	require.ErrorAs(t, err, &validationError)
	assert.Equal(t, "18/10/2026 10:52", validationError.Value)
}

func TestNextPassagesTransportError(t *testing.T) {
	service, fake := newTestService(t, nil)
	fake.err = &ctdf.TransportError{StatusCode: 500, Body: "oops"}

	_, err := service.NextPassages(context.Background(), "Ramonville", Filter{})

	var transportError *ctdf.TransportError
	require.ErrorAs(t, err, &transportError)
	assert.Equal(t, 500, transportError.StatusCode)
}

func TestNextPassagesForStops(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_1": {departure("L6", "Castanet", 3)},
		"stop_area:SA_2": {departure("A", "Balma-Gramont", 1), departure("B", "Borderouge", 2)},
	})

	results, err := service.NextPassagesForStops(context.Background(), []string{"Capitole", "Ramonville"}, Filter{})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "Capitole", results[0].StopAreaName)
	assert.Len(t, results[0].Passages, 2)
	assert.Equal(t, "Ramonville", results[1].StopAreaName)
	assert.Len(t, results[1].Passages, 1)
}

func TestNextPassagesForStopsReportsFailures(t *testing.T) {
	service, _ := newTestService(t, map[string][]*ctdf.Departure{
		"stop_area:SA_2": {departure("A", "Balma-Gramont", 1)},
	})

	results, err := service.NextPassagesForStops(context.Background(), []string{"Capitole", "Nowhere"}, Filter{})

	assert.True(t, errors.Is(err, ctdf.ErrNotFound))
	require.Len(t, results, 2)
	assert.Len(t, results[0].Passages, 1)
}

func TestFilterValue(t *testing.T) {
	assert.Equal(t, "", FilterValue("None"))
	assert.Equal(t, "", FilterValue(""))
	assert.Equal(t, "L6", FilterValue("L6"))
	assert.Equal(t, " L6 ", FilterValue(" L6 "))
	assert.Equal(t, "none", FilterValue("none"))
}
