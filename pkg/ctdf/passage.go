package ctdf

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

const DepartureDateTimeFormat = "2006-01-02 15:04:05"

// departureDateTimeLayout is DepartureDateTimeFormat as shown to users
const departureDateTimeLayout = "YYYY-MM-DD HH:MM:SS"

// NetworkTimezone is the zone the Tisseo API reports its local times in
const NetworkTimezone = "Europe/Paris"

var networkLocation = mustLoadLocation(NetworkTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type Passage struct {
	DateTimeString string `groups:"basic"`
	Line           string `groups:"basic"`
	Destination    string `groups:"basic"`

	Time               time.Time     `groups:"basic"`
	TimeRemaining      time.Duration `groups:"detailed"`
	HumanTimeRemaining string        `groups:"basic"`

	LineDestination string `groups:"detailed"`
}

// NewPassage builds a display ready passage from a raw API departure relative to now
func NewPassage(departure *Departure, now time.Time) (*Passage, error) {
	destination, err := departure.DestinationName()
	if err != nil {
		return nil, err
	}

	departureTime, err := ParseDepartureDateTime(departure.DateTime)
	if err != nil {
		return nil, err
	}

	remaining := departureTime.Sub(now.UTC())

	return &Passage{
		DateTimeString:     departure.DateTime,
		Line:               departure.Line.ShortName,
		Destination:        destination,
		Time:               departureTime,
		TimeRemaining:      remaining,
		HumanTimeRemaining: FormatTimeRemaining(remaining),
		LineDestination:    fmt.Sprintf("%s : %s", departure.Line.ShortName, destination),
	}, nil
}

// ParseDepartureDateTime parses an API timestamp, which never carries a zone, in the network timezone
func ParseDepartureDateTime(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DepartureDateTimeFormat, value, networkLocation)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "date",
			Value:   value,
			Message: fmt.Sprintf("date must match the format %s", departureDateTimeLayout),
		}
	}

	return parsed, nil
}

// FormatDepartureDateTime renders a time in the network timezone using the minute precision the API accepts
func FormatDepartureDateTime(t time.Time) string {
	return t.In(networkLocation).Format("2006-01-02 15:04")
}

// FormatTimeRemaining renders a duration in French, showing only the largest unit for anything over a day.
// Negative durations are treated as zero.
func FormatTimeRemaining(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	totalSeconds := int64(remaining / time.Second)
	days := totalSeconds / 86400
	hours, rem := divmod(totalSeconds%86400, 3600)
	minutes, _ := divmod(rem, 60)

	switch {
	case days > 0:
		return fmt.Sprintf("%d jours", days)
	case hours > 0:
		delta := fmt.Sprintf("%d heures", hours)
		if minutes > 0 {
			delta += fmt.Sprintf(" et %d minutes", minutes)
		}
		return delta
	case minutes < 1:
		return "moins d'une minute"
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

func divmod(numerator, denominator int64) (int64, int64) {
	return numerator / denominator, numerator % denominator
}
