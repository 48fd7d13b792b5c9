// Package recovery implements the Attempt Recorder (spec.md §4.7): it
// persists one recovery_history document per call, with a fresh
// recovery_id. It does not look at the dispatch outcome.
package recovery

import "time"

// Outcome starts every record as pending; later updates (conversion,
// abandonment) are out of this module's scope per spec.md's Non-goals.
type Outcome struct {
	Status           string  `json:"status"`
	RevenueRecovered float64 `json:"revenue_recovered,omitempty"`
}

// Record is the document persisted to the recovery_history collection.
type Record struct {
	Timestamp  time.Time    `json:"@timestamp"`
	RecoveryID string       `json:"recovery_id"`
	CartID     string       `json:"cart_id"`
	CustomerID string       `json:"customer_id"`
	Segment    string       `json:"segment"`
	CartValue  float64      `json:"cart_value"`
	Currency   string       `json:"currency"`
	Diagnosis  DiagnosisRef `json:"diagnosis"`
	Action     ActionRef    `json:"action"`
	SentAt     time.Time    `json:"sent_at"`
	Outcome    Outcome      `json:"outcome"`
}

// DiagnosisRef mirrors the fields of diagnosis.Diagnosis relevant to later
// similarity queries, without importing the diagnosis package's evidence map
// verbatim into the stored document.
type DiagnosisRef struct {
	RootCause string   `json:"root_cause"`
	Signals   []string `json:"signals"`
}

// ActionRef mirrors the fields of policy.Action persisted for later
// aggregation and inspection.
type ActionRef struct {
	Type            string  `json:"type"`
	Channel         string  `json:"channel"`
	DiscountPercent float64 `json:"discount_percent,omitempty"`
	FreeShipping    bool    `json:"free_shipping,omitempty"`
	Template        string  `json:"template"`
}
