// Package similarity implements the Similarity & Outcome Aggregator (spec.md
// §4.4): it looks at how past recovery attempts for comparable carts turned
// out, grouped by action type.
package similarity

import "time"

// Request bounds mirror spec.md §4.4's contract.
type Request struct {
	RootCause    string `validate:"required"`
	Segment      string `validate:"required"`
	CartValue    float64
	LookbackDays int `validate:"gte=7,lte=730"`
	Size         int `validate:"gte=1,lte=100"`
}

// ActionStats summarizes outcomes for one action type across matching past
// attempts, per spec.md §4.4's result shape.
type ActionStats struct {
	ActionType          string  `json:"action_type"`
	Total               int     `json:"total"`
	Recovered           int     `json:"recovered"`
	SuccessRate         float64 `json:"success_rate"`
	AvgRevenueRecovered float64 `json:"avg_revenue_recovered"`
}

// HistoryHit is a single matching past attempt, returned for inspection
// alongside the aggregated stats.
type HistoryHit struct {
	RecoveryID string    `json:"recovery_id"`
	CartID     string    `json:"cart_id"`
	ActionType string    `json:"action_type"`
	Outcome    string    `json:"outcome_status"`
	SentAt     time.Time `json:"sent_at"`
}

// Result is the aggregated view spec.md §4.4 returns.
type Result struct {
	Stats []ActionStats `json:"stats"`
	Hits  []HistoryHit  `json:"hits"`
}
