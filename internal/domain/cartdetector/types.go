package cartdetector

import "time"

// CartCandidate is an ephemeral, per-run abandoned-cart candidate (spec.md §3).
type CartCandidate struct {
	CartID     string    `json:"cart_id"`
	CustomerID string    `json:"customer_id"`
	SessionID  string    `json:"session_id,omitempty"`
	LastSeen   time.Time `json:"last_seen"`
	CartValue  float64   `json:"cart_value"`
	Currency   string    `json:"currency"`
	DeviceType string    `json:"device_type,omitempty"`
}

// Request bounds mirror spec.md §4.1's contract exactly.
type Request struct {
	LookbackMinutes    int `validate:"gte=1,lte=43200"`
	AbandonmentMinutes int `validate:"gte=5,lte=1440"`
	MaxCandidates      int `validate:"gte=1,lte=200"`
}
