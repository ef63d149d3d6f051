package ctdf

// StopArea is a named physical stop in the Tisseo network, as listed in the stop directory
type StopArea struct {
	Name string `json:"name" validate:"required" groups:"basic"`
	ID   string `json:"id" validate:"required" groups:"basic"`
}
