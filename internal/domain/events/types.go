// Package events holds the raw document shapes of the four behavioral
// streams the Cart Candidate Detector and the Abandonment Diagnoser both
// read: cart actions, checkout steps, payment attempts, and session
// telemetry (spec.md §3).
package events

import "time"

// CartEvent is a single append-only cart action.
type CartEvent struct {
	Timestamp  time.Time `json:"@timestamp"`
	CartID     string    `json:"cart_id"`
	CustomerID string    `json:"customer_id"`
	SessionID  string    `json:"session_id,omitempty"`
	EventType  string    `json:"event_type"` // add_to_cart, view_cart, remove, ...
	ProductID  string    `json:"product_id,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	UnitPrice  float64   `json:"unit_price,omitempty"`
	CartValue  float64   `json:"cart_value"`
	Currency   string    `json:"currency,omitempty"`
	DeviceType string    `json:"device_type,omitempty"`
}

// CheckoutEvent is a single append-only checkout step.
type CheckoutEvent struct {
	Timestamp    time.Time `json:"@timestamp"`
	CheckoutID   string    `json:"checkout_id"`
	CartID       string    `json:"cart_id"`
	CustomerID   string    `json:"customer_id"`
	SessionID    string    `json:"session_id,omitempty"`
	Step         string    `json:"step"` // shipping, payment, or a step-failed variant
	Status       string    `json:"status"`
	ShippingCost *float64  `json:"shipping_cost,omitempty"`
	Tax          *float64  `json:"tax,omitempty"`
	Total        *float64  `json:"total,omitempty"`
	PaymentMethod string   `json:"payment_method,omitempty"`
}

// PaymentLog is a single append-only payment provider attempt.
type PaymentLog struct {
	Timestamp        time.Time `json:"@timestamp"`
	PaymentID        string    `json:"payment_id"`
	CheckoutID       string    `json:"checkout_id"`
	CartID           string    `json:"cart_id"`
	CustomerID       string    `json:"customer_id"`
	Provider         string    `json:"provider"`
	Status           string    `json:"status"` // failed, authorized, captured
	FailureCode      string    `json:"failure_code,omitempty"`
	FailureMessage   string    `json:"failure_message,omitempty"`
	Retryable        bool      `json:"retryable,omitempty"`
	GatewayLatencyMs int       `json:"gateway_latency_ms,omitempty"`
	Attempt          int       `json:"attempt,omitempty"`
}

// SessionMetrics is a single append-only telemetry sample for a session.
type SessionMetrics struct {
	Timestamp    time.Time `json:"@timestamp"`
	SessionID    string    `json:"session_id"`
	Route        string    `json:"route,omitempty"`
	DeviceType   string    `json:"device_type,omitempty"`
	P95LatencyMs *int      `json:"p95_latency_ms,omitempty"`
	ErrorRate    *float64  `json:"error_rate,omitempty"`
	Apdex        *float64  `json:"apdex,omitempty"`
}
