// Package diagnosis implements the Abandonment Diagnoser (spec.md §4.2): a
// prioritized rule cascade over four behavioral streams that classifies why a
// cart was abandoned.
package diagnosis

import (
	"context"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
	"cartrecovery/internal/domain/events"
)

const (
	maxCartEvents     = 50
	maxCheckoutEvents = 50
	maxPaymentLogs    = 25
	maxSessionMetrics = 10
)

// Diagnose loads a cart's event history across the four streams and returns
// the first matching diagnosis in the rule cascade, in this exact order:
// payment_failure, performance_latency, pricing_shipping, checkout_friction,
// unknown.
func Diagnose(ctx context.Context, store docstore.Store, cartID string) (Diagnosis, error) {
	cartEvents, err := loadCartEvents(ctx, store, cartID)
	if err != nil {
		return Diagnosis{}, err
	}
	checkoutEvents, err := loadCheckoutEvents(ctx, store, cartID)
	if err != nil {
		return Diagnosis{}, err
	}
	paymentLogs, err := loadPaymentLogs(ctx, store, cartID)
	if err != nil {
		return Diagnosis{}, err
	}

	sessionID := mostRecentSessionID(cartEvents, checkoutEvents)

	var sessionMetrics []events.SessionMetrics
	if sessionID != "" {
		sessionMetrics, err = loadSessionMetrics(ctx, store, sessionID)
		if err != nil {
			return Diagnosis{}, err
		}
	}

	d := evaluateCascade(checkoutEvents, paymentLogs, sessionMetrics)

	d.Evidence["checkout_events_count"] = len(checkoutEvents)
	d.Evidence["payment_logs_count"] = len(paymentLogs)
	d.Evidence["session_id"] = sessionID

	return d, nil
}

func evaluateCascade(checkoutEvents []events.CheckoutEvent, paymentLogs []events.PaymentLog, sessionMetrics []events.SessionMetrics) Diagnosis {
	if d, ok := diagnosePaymentFailure(paymentLogs); ok {
		return d
	}
	if d, ok := diagnosePerformanceLatency(sessionMetrics); ok {
		return d
	}
	if d, ok := diagnosePricingShipping(checkoutEvents); ok {
		return d
	}
	if d, ok := diagnoseCheckoutFriction(checkoutEvents); ok {
		return d
	}
	return Diagnosis{
		RootCause: Unknown,
		Signals:   []string{"insufficient_signals"},
		Evidence:  map[string]any{},
	}
}

// diagnosePaymentFailure is rule 1: any PaymentLog with status="failed".
func diagnosePaymentFailure(logs []events.PaymentLog) (Diagnosis, bool) {
	var failed *events.PaymentLog
	for i := range logs {
		if logs[i].Status == "failed" {
			failed = &logs[i]
			break
		}
	}
	if failed == nil {
		return Diagnosis{}, false
	}

	signal := failed.FailureCode
	if signal == "" {
		signal = "payment_failed"
	}

	return Diagnosis{
		RootCause: PaymentFailure,
		Signals:   []string{signal},
		Evidence: map[string]any{
			"failure_code":    failed.FailureCode,
			"failure_message": failed.FailureMessage,
			"retryable":       failed.Retryable,
		},
	}, true
}

// diagnosePerformanceLatency is rule 2: the most recent SessionMetrics record
// with a non-null p95_latency_ms breaches any threshold.
func diagnosePerformanceLatency(metrics []events.SessionMetrics) (Diagnosis, bool) {
	var m *events.SessionMetrics
	for i := range metrics {
		if metrics[i].P95LatencyMs != nil {
			m = &metrics[i]
			break
		}
	}
	if m == nil {
		return Diagnosis{}, false
	}

	p95 := *m.P95LatencyMs
	var apdex, errRate float64
	if m.Apdex != nil {
		apdex = *m.Apdex
	}
	if m.ErrorRate != nil {
		errRate = *m.ErrorRate
	}

	highLatency := p95 >= 1000
	lowApdex := apdex < 0.85
	highErrorRate := errRate >= 0.05

	if !highLatency && !lowApdex && !highErrorRate {
		return Diagnosis{}, false
	}

	var signals []string
	if highLatency {
		signals = append(signals, "high_latency")
	}
	if lowApdex {
		signals = append(signals, "low_apdex")
	}
	if highErrorRate {
		signals = append(signals, "high_error_rate")
	}

	return Diagnosis{
		RootCause: PerformanceLatency,
		Signals:   signals,
		Evidence: map[string]any{
			"p95_latency_ms": p95,
			"apdex":          apdex,
			"error_rate":     errRate,
		},
	}, true
}

// diagnosePricingShipping is rule 3: the most-recent CheckoutEvent with both
// shipping_cost and total present has a shipping/total ratio >= 0.18.
func diagnosePricingShipping(checkoutEvents []events.CheckoutEvent) (Diagnosis, bool) {
	var shippingCost, total *float64
	for i := range checkoutEvents {
		ce := checkoutEvents[i]
		if ce.ShippingCost != nil && ce.Total != nil {
			shippingCost, total = ce.ShippingCost, ce.Total
			break
		}
	}
	if shippingCost == nil || total == nil || *total <= 0 {
		return Diagnosis{}, false
	}
	if *shippingCost / *total < 0.18 {
		return Diagnosis{}, false
	}

	return Diagnosis{
		RootCause: PricingShipping,
		Signals:   []string{"high_shipping_cost"},
		Evidence: map[string]any{
			"shipping_cost": *shippingCost,
			"total":         *total,
		},
	}, true
}

// diagnoseCheckoutFriction is rule 4: at least 3 checkout events exist, the
// distinct step set contains "shipping" but not "payment".
func diagnoseCheckoutFriction(checkoutEvents []events.CheckoutEvent) (Diagnosis, bool) {
	if len(checkoutEvents) < 3 {
		return Diagnosis{}, false
	}

	seen := map[string]bool{}
	var steps []string
	for _, ce := range checkoutEvents {
		if ce.Step == "" {
			continue
		}
		steps = append(steps, ce.Step)
		seen[ce.Step] = true
	}
	if !seen["shipping"] || seen["payment"] {
		return Diagnosis{}, false
	}

	if len(steps) > 10 {
		steps = steps[:10]
	}

	return Diagnosis{
		RootCause: CheckoutFriction,
		Signals:   []string{"stalled_before_payment"},
		Evidence:  map[string]any{"steps": steps},
	}, true
}

func mostRecentSessionID(cartEvents []events.CartEvent, checkoutEvents []events.CheckoutEvent) string {
	for _, ce := range cartEvents {
		if ce.SessionID != "" {
			return ce.SessionID
		}
	}
	for _, ce := range checkoutEvents {
		if ce.SessionID != "" {
			return ce.SessionID
		}
	}
	return ""
}

func loadCartEvents(ctx context.Context, store docstore.Store, cartID string) ([]events.CartEvent, error) {
	res, err := store.Search(ctx, docstore.CartEvents, docstore.Query{
		Terms: []docstore.Term{{Field: "cart_id", Value: cartID}},
		Sort:  &docstore.Sort{Field: "@timestamp", Order: docstore.Descending},
		Size:  maxCartEvents,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[events.CartEvent](res)
}

func loadCheckoutEvents(ctx context.Context, store docstore.Store, cartID string) ([]events.CheckoutEvent, error) {
	res, err := store.Search(ctx, docstore.CheckoutEvents, docstore.Query{
		Terms: []docstore.Term{{Field: "cart_id", Value: cartID}},
		Sort:  &docstore.Sort{Field: "@timestamp", Order: docstore.Descending},
		Size:  maxCheckoutEvents,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[events.CheckoutEvent](res)
}

func loadPaymentLogs(ctx context.Context, store docstore.Store, cartID string) ([]events.PaymentLog, error) {
	res, err := store.Search(ctx, docstore.PaymentLogs, docstore.Query{
		Terms: []docstore.Term{{Field: "cart_id", Value: cartID}},
		Sort:  &docstore.Sort{Field: "@timestamp", Order: docstore.Descending},
		Size:  maxPaymentLogs,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[events.PaymentLog](res)
}

func loadSessionMetrics(ctx context.Context, store docstore.Store, sessionID string) ([]events.SessionMetrics, error) {
	res, err := store.Search(ctx, docstore.SessionMetrics, docstore.Query{
		Terms: []docstore.Term{{Field: "session_id", Value: sessionID}},
		Sort:  &docstore.Sort{Field: "@timestamp", Order: docstore.Descending},
		Size:  maxSessionMetrics,
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[events.SessionMetrics](res)
}

func decodeAll[T any](res docstore.SearchResult) ([]T, error) {
	out := make([]T, 0, len(res.Hits))
	for _, hit := range res.Hits {
		var v T
		if err := hit.Decode(&v); err != nil {
			return nil, apperr.StoreUnavailablef(err, "decode document %s", hit.ID)
		}
		out = append(out, v)
	}
	return out, nil
}
