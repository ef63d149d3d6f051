package ctdf

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s, received : %s", e.Field, e.Message, e.Value)
}

// TransportError is returned when the upstream API answers with anything other than 200
type TransportError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("status code %d for url %s\n%s", e.StatusCode, e.URL, e.Body)
}
