package ctdf

import "strings"

type QueryStopAreasByName struct {
	Name string
}

func (q *QueryStopAreasByName) Matches(stopArea *StopArea) bool {
	return strings.EqualFold(stopArea.Name, q.Name)
}
