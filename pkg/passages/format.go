package passages

import (
	"fmt"

	"github.com/travigo/tisseo/pkg/ctdf"
)

const unknownDestination = "?"

// Format renders a passage as "line (destination) : date"
func Format(passage *ctdf.Passage) string {
	return formatDeparture(passage.Line, passage.Destination, passage.DateTimeString)
}

func FormatStopArea(stopArea *ctdf.StopArea) string {
	return fmt.Sprintf("%s (%s)", stopArea.Name, stopArea.ID)
}

func formatDeparture(line string, destination string, dateTime string) string {
	return fmt.Sprintf("%s (%s) : %s", line, destination, dateTime)
}
