package tisseo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/dataaggregator/source"
	"github.com/travigo/tisseo/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/tisseo/pkg/util"
)

const maxErrorBodyLength = 2048

type Source struct {
	APIBase string
	APIKey  string

	Client        *http.Client
	CachedResults *cachedresults.Cache
}

func NewSource(apiBase string, apiKey string, timeout time.Duration) *Source {
	return &Source{
		APIBase: strings.TrimSuffix(apiBase, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *Source) GetName() string {
	return "Tisseo API"
}

func (s *Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]*ctdf.Departure{}),
	}
}

func (s *Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case ctdf.QueryDepartures:
		return s.DeparturesQuery(ctx, q)
	default:
		return nil, source.UnsupportedSourceError
	}
}

func (s *Source) DeparturesQuery(ctx context.Context, q ctdf.QueryDepartures) ([]*ctdf.Departure, error) {
	if q.Count <= 0 {
		q.Count = ctdf.DefaultDepartureCount
	}

	if s.CachedResults != nil {
		var departures []*ctdf.Departure
		found, err := s.CachedResults.Get(ctx, q.CacheKey(), &departures)

		if err != nil {
			log.Warn().Err(err).Str("key", q.CacheKey()).Msg("Failed to decode cached departures")
		} else if found {
			return departures, nil
		}
	}

	departures, err := s.FetchDepartures(ctx, q.StopAreaID, q.Count, q.FromDate)
	if err != nil {
		return nil, err
	}

	if s.CachedResults != nil {
		if err := s.CachedResults.Set(ctx, q.CacheKey(), departures); err != nil {
			log.Warn().Err(err).Str("key", q.CacheKey()).Msg("Failed to cache departures")
		}
	}

	return departures, nil
}

// FetchDepartures performs a single stops_schedules request, fromDate is optional
func (s *Source) FetchDepartures(ctx context.Context, stopAreaID string, limit int, fromDate string) ([]*ctdf.Departure, error) {
	requestURL := s.stopsSchedulesURL(stopAreaID, limit, fromDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting departures for %s: %w", stopAreaID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading departures response for %s: %w", stopAreaID, err)
	}

	log.Debug().
		Str("stoparea", stopAreaID).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Tisseo stops_schedules request")

	if resp.StatusCode != http.StatusOK {
		return nil, &ctdf.TransportError{
			StatusCode: resp.StatusCode,
			URL:        s.redact(requestURL),
			Body:       util.TrimString(string(body), maxErrorBodyLength),
		}
	}

	var departuresResponse ctdf.DeparturesResponse
	if err := json.Unmarshal(body, &departuresResponse); err != nil {
		return nil, fmt.Errorf("parsing departures response for %s: %w", stopAreaID, err)
	}

	departures := departuresResponse.Departures.Departure
	if departures == nil {
		departures = []*ctdf.Departure{}
	}

	return departures, nil
}

func (s *Source) stopsSchedulesURL(stopAreaID string, limit int, fromDate string) string {
	params := url.Values{}
	params.Set("stopAreaId", stopAreaID)
	params.Set("key", s.APIKey)
	params.Set("number", strconv.Itoa(limit))

	if fromDate != "" {
		params.Set("datetime", fromDate)
	}

	return fmt.Sprintf("%s/stops_schedules.json?%s", s.APIBase, params.Encode())
}

func (s *Source) redact(requestURL string) string {
	if s.APIKey == "" {
		return requestURL
	}

	return strings.ReplaceAll(requestURL, url.QueryEscape(s.APIKey), "REDACTED")
}
