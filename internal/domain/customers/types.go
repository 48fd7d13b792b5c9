// Package customers implements the Customer Profile Reader (spec.md §4.3): a
// thin, default-filling lookup over the customer_profiles collection.
package customers

// Segment is the closed set of customer tiers.
type Segment string

const (
	SegmentStandard Segment = "standard"
	SegmentVIP      Segment = "vip"
	SegmentAtRisk   Segment = "at_risk"
)

// FraudRisk is the closed set of fraud-risk tiers.
type FraudRisk string

const (
	FraudRiskLow    FraudRisk = "low"
	FraudRiskMedium FraudRisk = "medium"
	FraudRiskHigh   FraudRisk = "high"
)

// Channel is the closed set of outreach channels a customer can be reached
// on (spec.md §4.6).
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Profile is a customer's recovery-relevant attributes.
type Profile struct {
	CustomerID       string  `json:"customer_id"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	PushToken        string  `json:"push_token,omitempty"`
	Segment          Segment `json:"segment"`
	PreferredChannel Channel `json:"preferred_channel"`
	FraudRisk        FraudRisk `json:"fraud_risk"`
	LifetimeValue    float64 `json:"lifetime_value"`
}

// applyDefaults fills the defaults spec.md §3/§9 assigns when a profile
// document omits a field: segment=standard, preferred_channel=email,
// fraud_risk=low, lifetime_value=0.
func (p *Profile) applyDefaults() {
	if p.Segment == "" {
		p.Segment = SegmentStandard
	}
	if p.PreferredChannel == "" {
		p.PreferredChannel = ChannelEmail
	}
	if p.FraudRisk == "" {
		p.FraudRisk = FraudRiskLow
	}
}
