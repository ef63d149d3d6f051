package util

import (
	"time"

	iso8601 "github.com/senseyeio/duration"
)

// ShiftISO8601 moves a date forward by an ISO8601 duration such as PT30M or P1D
func ShiftISO8601(date time.Time, duration string) (time.Time, error) {
	parsedDuration, err := iso8601.ParseISO8601(duration)
	if err != nil {
		return time.Time{}, err
	}

	return parsedDuration.Shift(date), nil
}
