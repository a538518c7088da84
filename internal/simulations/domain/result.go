package domain

import (
	"encoding/json"
	"time"
)

// ResultPayload is the structured content of a record's result field.
type ResultPayload struct {
	SimulationType string                 `json:"simulationType"`
	Success        bool                   `json:"success"`
	Metrics        map[string]interface{} `json:"metrics,omitempty"`
	Timestamp      string                 `json:"timestamp"`
	Duration       int64                  `json:"duration"`
	Message        string                 `json:"message"`
	Details        *ResultDetails         `json:"details,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// ResultDetails echoes the launch config plus synthetic performance numbers.
type ResultDetails struct {
	StartTime   string                 `json:"startTime"`
	EndTime     string                 `json:"endTime"`
	Config      map[string]interface{} `json:"config"`
	Performance map[string]int         `json:"performance"`
}

// InitializingResult is the placeholder written at launch time, before the
// engine has produced anything.
func InitializingResult(now time.Time) string {
	b, _ := json.Marshal(map[string]string{
		"status":    "initializing",
		"message":   "Simulation is starting...",
		"timestamp": now.UTC().Format(time.RFC3339),
	})
	return string(b)
}

// WrapInvalidResult replaces an unparsable result with a well-formed error
// object that preserves the original raw text.
func WrapInvalidResult(raw string, now time.Time) string {
	b, _ := json.Marshal(map[string]string{
		"error":        "Invalid result data",
		"originalData": raw,
		"timestamp":    now.UTC().Format(time.RFC3339),
	})
	return string(b)
}

// SanitizeResult is the single read-time repair policy for result fields.
// Callers never receive a result string that fails to parse as JSON:
// an empty result becomes a "no data" marker and a corrupted one becomes a
// wrapped error object. The second return reports whether a repair was made.
func SanitizeResult(raw string) (string, bool) {
	if raw == "" {
		b, _ := json.Marshal(map[string]string{
			"status":    "no_data",
			"message":   "No result data available",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return string(b), true
	}
	if json.Valid([]byte(raw)) {
		return raw, false
	}
	return WrapInvalidResult(raw, time.Now()), true
}

// ParseResult decodes a result string into a ResultPayload.
func ParseResult(raw string) (*ResultPayload, error) {
	var p ResultPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, err
	}
	return &p, nil
}
