package models

// SelectionResult is the curated output of the selection engine: the ordered
// member ids plus a telemetry map counting every acceptance and rejection
// reason. Always returned, possibly empty; never nil telemetry.
type SelectionResult struct {
	Members   []string       `json:"members"`
	Telemetry map[string]int `json:"telemetry"`
}
