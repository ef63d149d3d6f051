package stopdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/ctdf"
	"github.com/travigo/tisseo/pkg/dataaggregator/source"
)

var ErrMissingStopAreas = errors.New("stop directory does not contain stopAreas.stopArea")

// Source resolves stop names against the static stop directory. It is never modified after loading.
type Source struct {
	stopAreas []*ctdf.StopArea
}

type stopAreasFile struct {
	StopAreas *struct {
		StopArea []*ctdf.StopArea `json:"stopArea" validate:"dive"`
	} `json:"stopAreas"`
}

func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stop directory: %w", err)
	}

	source, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Info().Str("path", path).Int("stopareas", len(source.stopAreas)).Msg("Loaded stop directory")

	return source, nil
}

func Parse(data []byte) (*Source, error) {
	var file stopAreasFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing stop directory: %w", err)
	}

	if file.StopAreas == nil || file.StopAreas.StopArea == nil {
		return nil, ErrMissingStopAreas
	}

	if err := validator.New().Struct(file.StopAreas); err != nil {
		return nil, fmt.Errorf("invalid stop area: %w", err)
	}

	return &Source{stopAreas: file.StopAreas.StopArea}, nil
}

func (s *Source) GetName() string {
	return "Stop Directory"
}

func (s *Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf([]*ctdf.StopArea{}),
	}
}

func (s *Source) Lookup(ctx context.Context, q any) (interface{}, error) {
	switch q := q.(type) {
	case ctdf.QueryStopAreasByName:
		return s.FindStopsByName(q.Name), nil
	default:
		return nil, source.UnsupportedSourceError
	}
}

// FindStopsByName returns every stop area whose name matches case-insensitively, in directory order
func (s *Source) FindStopsByName(name string) []*ctdf.StopArea {
	query := ctdf.QueryStopAreasByName{Name: name}
	stopAreas := []*ctdf.StopArea{}

	for _, stopArea := range s.stopAreas {
		if query.Matches(stopArea) {
			stopAreas = append(stopAreas, stopArea)
		}
	}

	return stopAreas
}

func (s *Source) Len() int {
	return len(s.stopAreas)
}
