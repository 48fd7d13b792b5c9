package policy

import (
	"cartrecovery/internal/domain/customers"
	"cartrecovery/internal/domain/diagnosis"
	"cartrecovery/internal/domain/similarity"
)

// allowedActions is the full action set the decider can choose from before
// the fraud guardrail narrows it (spec.md §4.5).
var allowedActions = []ActionType{ActionDiscount, ActionFreeShipping, ActionReminder, ActionPaymentRetry}

// Decide picks exactly one recovery action given a cart's diagnosis, the
// owning customer's profile, and aggregated outcome stats for comparable past
// attempts. It performs no I/O; every input is already resolved. Returns the
// chosen action and a short rationale string.
func Decide(cartValue float64, d diagnosis.Diagnosis, customer customers.Profile, stats []similarity.ActionStats) (Action, string) {
	allowed := allowedSet(customer.FraudRisk)
	channel := string(customer.PreferredChannel)

	if d.RootCause == diagnosis.PaymentFailure && allowed[ActionPaymentRetry] {
		return Action{
			Type:     ActionPaymentRetry,
			Channel:  channel,
			Template: "retry_payment",
			Metadata: map[string]any{"priority": "high"},
		}, "payment failed; offering a retry is the most direct recovery path"
	}

	if d.RootCause == diagnosis.PerformanceLatency && allowed[ActionReminder] {
		return Action{
			Type:     ActionReminder,
			Channel:  channel,
			Template: "supportive_reminder",
			Metadata: map[string]any{"offer_support": true},
		}, "site performance likely caused the drop-off; a supportive reminder avoids compounding friction"
	}

	if d.RootCause == diagnosis.PricingShipping {
		best, found := bestActionFromHistory(stats, allowed)
		if found && best == ActionFreeShipping && allowed[ActionFreeShipping] {
			return Action{
				Type:         ActionFreeShipping,
				Channel:      channel,
				Template:     "free_shipping_offer",
				FreeShipping: true,
			}, "free shipping has historically converted this root cause and segment best"
		}
		if allowed[ActionDiscount] {
			percent := 10.0
			if customer.Segment == customers.SegmentVIP {
				percent = 12.5
			}
			return Action{
				Type:            ActionDiscount,
				Channel:         channel,
				Template:        "discount_offer",
				DiscountPercent: percent,
				Metadata:        map[string]any{"reason": "shipping_or_price_sensitivity"},
			}, "shipping cost or price sensitivity flagged; a discount addresses it directly"
		}
	}

	if action, rationale, ok := fallbackFromHistory(channel, customer, allowed, stats); ok {
		return action, rationale
	}

	if customer.Segment == customers.SegmentVIP && allowed[ActionDiscount] && cartValue >= 75 {
		return Action{
			Type:            ActionDiscount,
			Channel:         channel,
			Template:        "discount_offer",
			DiscountPercent: 10.0,
		}, "no comparable history but a high-value VIP cart warrants a proactive discount"
	}

	return Action{
		Type:     ActionReminder,
		Channel:  channel,
		Template: "simple_reminder",
	}, "no stronger signal available; a plain reminder is the safe default"
}

// fallbackFromHistory is the cascade's general-purpose branch: it reuses
// whatever action has performed best historically for this root cause and
// segment, regardless of which specific root cause triggered it.
func fallbackFromHistory(channel string, customer customers.Profile, allowed map[ActionType]bool, stats []similarity.ActionStats) (Action, string, bool) {
	best, found := bestActionFromHistory(stats, allowed)
	if !found {
		return Action{}, "", false
	}

	switch best {
	case ActionReminder:
		return Action{
			Type:     ActionReminder,
			Channel:  channel,
			Template: "simple_reminder",
		}, "a reminder is the best-performing action on record for comparable carts", true
	case ActionFreeShipping:
		return Action{
			Type:         ActionFreeShipping,
			Channel:      channel,
			Template:     "free_shipping_offer",
			FreeShipping: true,
		}, "free shipping is the best-performing action on record for comparable carts", true
	case ActionDiscount:
		if !allowed[ActionDiscount] {
			break
		}
		percent := 7.5
		if customer.Segment == customers.SegmentVIP {
			percent = 10.0
		}
		return Action{
			Type:            ActionDiscount,
			Channel:         channel,
			Template:        "discount_offer",
			DiscountPercent: percent,
		}, "a discount is the best-performing action on record for comparable carts", true
	case ActionPaymentRetry:
		if !allowed[ActionPaymentRetry] {
			break
		}
		return Action{
			Type:     ActionPaymentRetry,
			Channel:  channel,
			Template: "retry_payment",
		}, "a payment retry is the best-performing action on record for comparable carts", true
	}
	return Action{}, "", false
}

// bestActionFromHistory returns the allowed action type with the strictly
// highest success rate among stats. A strict > comparison means the
// first-seen action with a given rate wins ties, matching spec.md §8's stable
// tie-break requirement.
func bestActionFromHistory(stats []similarity.ActionStats, allowed map[ActionType]bool) (ActionType, bool) {
	var best ActionType
	bestRate := -1.0
	found := false
	for _, s := range stats {
		t := ActionType(s.ActionType)
		if !allowed[t] {
			continue
		}
		if s.SuccessRate > bestRate {
			best = t
			bestRate = s.SuccessRate
			found = true
		}
	}
	return best, found
}

func allowedSet(fraudRisk customers.FraudRisk) map[ActionType]bool {
	set := make(map[ActionType]bool, len(allowedActions))
	for _, a := range allowedActions {
		set[a] = true
	}
	if fraudRisk == customers.FraudRiskHigh {
		delete(set, ActionDiscount)
		delete(set, ActionFreeShipping)
	}
	return set
}
