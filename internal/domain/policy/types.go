// Package policy implements the Policy Decider (spec.md §4.5): a pure
// decision function with no I/O that picks one recovery action given a
// diagnosis, a customer profile, and historical action performance.
package policy

// ActionType is the closed set of recovery actions the decider can choose.
type ActionType string

const (
	ActionDiscount     ActionType = "discount"
	ActionFreeShipping ActionType = "free_shipping"
	ActionReminder     ActionType = "reminder"
	ActionPaymentRetry ActionType = "payment_retry"
)

// Action is the decider's chosen intervention.
type Action struct {
	Type            ActionType     `json:"type"`
	Channel         string         `json:"channel"`
	Template        string         `json:"template"`
	DiscountPercent float64        `json:"discount_percent,omitempty"`
	FreeShipping    bool           `json:"free_shipping,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}
