package domain

import "encoding/json"

// RatePayload is the expected shape of an enriched feed document. The
// pipeline itself treats payloads as opaque JSON; this type is only used to
// summarize them.
type RatePayload struct {
	Base      string             `json:"base"`
	Date      string             `json:"date,omitempty"`
	Rates     map[string]float64 `json:"rates"`
	Timestamp string             `json:"timestamp"`
}

func ParseRatePayload(data []byte) (RatePayload, error) {
	var p RatePayload
	err := json.Unmarshal(data, &p)
	return p, err
}
