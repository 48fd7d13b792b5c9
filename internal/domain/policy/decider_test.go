package policy_test

import (
	"testing"

	"cartrecovery/internal/domain/customers"
	"cartrecovery/internal/domain/diagnosis"
	"cartrecovery/internal/domain/policy"
	"cartrecovery/internal/domain/similarity"
)

func profile(segment customers.Segment, fraudRisk customers.FraudRisk, channel customers.Channel) customers.Profile {
	return customers.Profile{
		CustomerID:       "cust-1",
		Segment:          segment,
		FraudRisk:        fraudRisk,
		PreferredChannel: channel,
	}
}

func TestDecide_PaymentFailureRetriesPayment(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PaymentFailure}
	action, _ := policy.Decide(100, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.Type != policy.ActionPaymentRetry {
		t.Fatalf("action = %s, want payment_retry", action.Type)
	}
	if action.Template != "retry_payment" {
		t.Fatalf("template = %s", action.Template)
	}
}

func TestDecide_PerformanceLatencyOffersSupportiveReminder(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PerformanceLatency}
	action, _ := policy.Decide(100, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.Type != policy.ActionReminder || action.Template != "supportive_reminder" {
		t.Fatalf("action = %+v, want supportive_reminder", action)
	}
}

func TestDecide_PricingShippingPrefersHistoricalFreeShipping(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PricingShipping}
	stats := []similarity.ActionStats{
		{ActionType: "discount", SuccessRate: 0.3},
		{ActionType: "free_shipping", SuccessRate: 0.6},
	}
	action, _ := policy.Decide(100, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelEmail), stats)
	if action.Type != policy.ActionFreeShipping {
		t.Fatalf("action = %s, want free_shipping", action.Type)
	}
}

func TestDecide_PricingShippingFallsBackToDiscount(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PricingShipping}
	action, _ := policy.Decide(100, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.Type != policy.ActionDiscount {
		t.Fatalf("action = %s, want discount", action.Type)
	}
	if action.DiscountPercent != 10.0 {
		t.Fatalf("discount_percent = %v, want 10.0 for standard segment", action.DiscountPercent)
	}
}

func TestDecide_PricingShippingVIPDiscountIsHigher(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PricingShipping}
	action, _ := policy.Decide(100, d, profile(customers.SegmentVIP, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.DiscountPercent != 12.5 {
		t.Fatalf("discount_percent = %v, want 12.5 for vip segment", action.DiscountPercent)
	}
}

func TestDecide_FraudRiskHighDiscardsDiscountAndFreeShipping(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.PricingShipping}
	action, _ := policy.Decide(100, d, profile(customers.SegmentStandard, customers.FraudRiskHigh, customers.ChannelEmail), nil)
	if action.Type == policy.ActionDiscount || action.Type == policy.ActionFreeShipping {
		t.Fatalf("action = %s, high fraud risk must not receive a monetary incentive", action.Type)
	}
}

func TestDecide_VIPHighValueCartWithNoHistoryGetsProactiveDiscount(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.CheckoutFriction}
	action, _ := policy.Decide(80, d, profile(customers.SegmentVIP, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.Type != policy.ActionDiscount || action.DiscountPercent != 10.0 {
		t.Fatalf("action = %+v, want a 10%% discount", action)
	}
}

func TestDecide_ReminderWinningHistoryPreemptsVIPProactiveDiscount(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.CheckoutFriction}
	stats := []similarity.ActionStats{
		{ActionType: "discount", SuccessRate: 0.2},
		{ActionType: "reminder", SuccessRate: 0.5},
	}
	action, _ := policy.Decide(100, d, profile(customers.SegmentVIP, customers.FraudRiskLow, customers.ChannelEmail), stats)
	if action.Type != policy.ActionReminder || action.Template != "simple_reminder" {
		t.Fatalf("action = %+v, want simple_reminder; a reminder-winning history must preempt the VIP proactive discount", action)
	}
}

func TestDecide_DefaultIsSimpleReminder(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.Unknown}
	action, _ := policy.Decide(20, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelEmail), nil)
	if action.Type != policy.ActionReminder || action.Template != "simple_reminder" {
		t.Fatalf("action = %+v, want simple_reminder", action)
	}
}

func TestDecide_ChannelMatchesCustomerPreference(t *testing.T) {
	d := diagnosis.Diagnosis{RootCause: diagnosis.Unknown}
	action, _ := policy.Decide(20, d, profile(customers.SegmentStandard, customers.FraudRiskLow, customers.ChannelSMS), nil)
	if action.Channel != "sms" {
		t.Fatalf("channel = %s, want sms", action.Channel)
	}
}
