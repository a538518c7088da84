package domain

import "time"

// SimulationType is the closed set of supported attack scenarios.
// Unrecognized values are stored as-is and fall back to DDoS when the
// engine executes them.
type SimulationType string

const (
	TypeDDoS         SimulationType = "DDoS"
	TypeMalware      SimulationType = "Malware"
	TypePhishing     SimulationType = "Phishing"
	TypeRansomware   SimulationType = "Ransomware"
	TypeSQLInjection SimulationType = "SQL Injection"
)

// KnownTypes lists every supported simulation type.
var KnownTypes = []SimulationType{
	TypeDDoS, TypeMalware, TypePhishing, TypeRansomware, TypeSQLInjection,
}

// ParseType maps a raw type string to a known SimulationType,
// falling back to DDoS for anything unrecognized.
func ParseType(raw string) SimulationType {
	for _, t := range KnownTypes {
		if raw == string(t) {
			return t
		}
	}
	return TypeDDoS
}

// Record status constants
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusUnknown   = "unknown" // sentinel applied by integrity cleanup
)

// IsTerminal reports whether a status can no longer transition.
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// SimulationRecord is a single mock attack-scenario execution record.
// Result holds the serialized ResultPayload once the run finalizes.
type SimulationRecord struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Type          string                 `json:"type"`
	Config        map[string]interface{} `json:"config,omitempty"`
	OwnerID       string                 `json:"owner_id"`
	OwnerName     string                 `json:"owner_name,omitempty"`
	OwnerUsername string                 `json:"owner_username,omitempty"`
	Status        string                 `json:"status"`
	Result        string                 `json:"result,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// LaunchRequest carries the client-supplied inputs for a new simulation.
type LaunchRequest struct {
	Name   string
	Type   string
	Config map[string]interface{}
}

// LaunchResponse is the public projection returned synchronously from a
// launch, before the result is known.
type LaunchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusView is the lightweight poll projection for a single run.
// Terminal tells clients when to stop polling.
type StatusView struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Terminal bool   `json:"terminal"`
}
