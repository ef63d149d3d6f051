package ctdf

import "fmt"

const DefaultDepartureCount = 15

type QueryDepartures struct {
	StopAreaID string
	Count      int

	// FromDate is passed verbatim to the API as the datetime parameter when set
	FromDate string
}

func (q *QueryDepartures) CacheKey() string {
	return fmt.Sprintf("cachedresults/tisseo/departures/%s/%d/%s", q.StopAreaID, q.Count, q.FromDate)
}
