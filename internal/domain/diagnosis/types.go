package diagnosis

// RootCause is the closed set of abandonment reasons (spec.md §3/§9),
// represented as a tagged string variant with a defined textual form for the
// document store wire format.
type RootCause string

const (
	PaymentFailure     RootCause = "payment_failure"
	PerformanceLatency RootCause = "performance_latency"
	PricingShipping    RootCause = "pricing_shipping"
	CheckoutFriction   RootCause = "checkout_friction"
	Unknown            RootCause = "unknown"
)

// Precedence is the fixed cascade order spec.md §4.2/§8 requires: the first
// rule that matches wins.
var Precedence = []RootCause{
	PaymentFailure,
	PerformanceLatency,
	PricingShipping,
	CheckoutFriction,
	Unknown,
}

// Diagnosis is the structured output of the rule cascade.
type Diagnosis struct {
	RootCause RootCause      `json:"root_cause"`
	Signals   []string       `json:"signals"`
	Evidence  map[string]any `json:"evidence"`
}
