// Package dispatch implements the Dispatch Gate (spec.md §4.6): it confirms
// a customer is addressable on the chosen channel, generates a message id,
// and best-effort-invokes an optional transport sender.
package dispatch

import "context"

// Status is the closed set of dispatch outcomes.
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
)

// Result is the non-error outcome of a Trigger call. A skipped dispatch is
// not an apperr.Error: it is a valid business outcome (spec.md §1, §7).
type Result struct {
	Status    Status `json:"status"`
	MessageID string `json:"message_id,omitempty"`
	Channel   string `json:"channel"`
	Reason    string `json:"reason,omitempty"`
}

// Sender is the extension point spec.md §9 calls out: the core module does
// not itself deliver messages, so real transport is injected per channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is everything a Sender needs to actually deliver the recovery
// action, independent of how it was decided.
type Message struct {
	RecipientEmail string
	RecipientPhone string
	PushToken      string
	Template       string
	Metadata       map[string]any
}
