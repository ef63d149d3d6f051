package ctdf

// Departure is a single record of the stops_schedules API response
type Departure struct {
	DateTime string `json:"dateTime" groups:"basic"`

	Line DepartureLine `json:"line" groups:"basic"`

	Destination []DepartureDestination `json:"destination" groups:"basic"`
}

type DepartureLine struct {
	ShortName string `json:"shortName" groups:"basic"`
}

type DepartureDestination struct {
	Name string `json:"name" groups:"basic"`
}

// DestinationName returns the first listed destination, which is the one shown on the vehicle
func (d *Departure) DestinationName() (string, error) {
	if len(d.Destination) == 0 {
		return "", &ValidationError{
			Field:   "destination",
			Value:   d.DateTime,
			Message: "departure has no destination",
		}
	}

	return d.Destination[0].Name, nil
}

type DeparturesResponse struct {
	Departures struct {
		Departure []*Departure `json:"departure"`
	} `json:"departures"`
}
