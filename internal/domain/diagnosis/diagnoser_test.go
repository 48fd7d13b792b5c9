package diagnosis_test

import (
	"context"
	"testing"
	"time"

	"cartrecovery/internal/docstore"
	"cartrecovery/internal/docstore/docstoretest"
	"cartrecovery/internal/domain/diagnosis"
	"cartrecovery/internal/domain/events"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestDiagnose_PaymentFailureTakesPrecedence(t *testing.T) {
	store := docstoretest.New()
	now := time.Now().UTC()

	store.Seed(docstore.PaymentLogs, "", events.PaymentLog{
		Timestamp:      now.Add(-time.Minute),
		CartID:         "cart-1",
		Status:         "failed",
		FailureCode:    "card_declined",
		FailureMessage: "insufficient funds",
		Retryable:      true,
	})
	// Even with a high-shipping checkout event present, payment_failure wins.
	store.Seed(docstore.CheckoutEvents, "", events.CheckoutEvent{
		Timestamp:    now.Add(-2 * time.Minute),
		CartID:       "cart-1",
		Step:         "shipping",
		Status:       "in_progress",
		ShippingCost: ptrF(30),
		Total:        ptrF(100),
	})

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-1")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.RootCause != diagnosis.PaymentFailure {
		t.Fatalf("root cause = %s, want %s", d.RootCause, diagnosis.PaymentFailure)
	}
	if len(d.Signals) != 1 || d.Signals[0] != "card_declined" {
		t.Fatalf("signals = %v", d.Signals)
	}
	if d.Evidence["failure_code"] != "card_declined" {
		t.Fatalf("evidence failure_code = %v", d.Evidence["failure_code"])
	}
}

func TestDiagnose_PaymentFailureDefaultSignal(t *testing.T) {
	store := docstoretest.New()
	store.Seed(docstore.PaymentLogs, "", events.PaymentLog{
		Timestamp: time.Now().UTC(),
		CartID:    "cart-2",
		Status:    "failed",
	})

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-2")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.Signals[0] != "payment_failed" {
		t.Fatalf("signals = %v, want payment_failed fallback", d.Signals)
	}
}

func TestDiagnose_PerformanceLatency(t *testing.T) {
	store := docstoretest.New()
	now := time.Now().UTC()

	store.Seed(docstore.CartEvents, "", events.CartEvent{
		Timestamp: now.Add(-5 * time.Minute),
		CartID:    "cart-3",
		SessionID: "sess-3",
	})
	store.Seed(docstore.SessionMetrics, "", events.SessionMetrics{
		Timestamp:    now.Add(-1 * time.Minute),
		SessionID:    "sess-3",
		P95LatencyMs: ptrI(1500),
		Apdex:        ptrF(0.9),
		ErrorRate:    ptrF(0.01),
	})

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-3")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.RootCause != diagnosis.PerformanceLatency {
		t.Fatalf("root cause = %s, want %s", d.RootCause, diagnosis.PerformanceLatency)
	}
	if len(d.Signals) != 1 || d.Signals[0] != "high_latency" {
		t.Fatalf("signals = %v", d.Signals)
	}
	if d.Evidence["session_id"] != "sess-3" {
		t.Fatalf("evidence session_id = %v", d.Evidence["session_id"])
	}
}

func TestDiagnose_PerformanceLatencyAccumulatesSignalsInOrder(t *testing.T) {
	store := docstoretest.New()
	now := time.Now().UTC()

	store.Seed(docstore.CartEvents, "", events.CartEvent{
		Timestamp: now.Add(-5 * time.Minute),
		CartID:    "cart-4",
		SessionID: "sess-4",
	})
	store.Seed(docstore.SessionMetrics, "", events.SessionMetrics{
		Timestamp:    now,
		SessionID:    "sess-4",
		P95LatencyMs: ptrI(1200),
		Apdex:        ptrF(0.5),
		ErrorRate:    ptrF(0.1),
	})

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-4")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	want := []string{"high_latency", "low_apdex", "high_error_rate"}
	if len(d.Signals) != len(want) {
		t.Fatalf("signals = %v, want %v", d.Signals, want)
	}
	for i := range want {
		if d.Signals[i] != want[i] {
			t.Fatalf("signals = %v, want %v", d.Signals, want)
		}
	}
}

func TestDiagnose_PricingShipping(t *testing.T) {
	store := docstoretest.New()
	now := time.Now().UTC()

	store.Seed(docstore.CheckoutEvents, "", events.CheckoutEvent{
		Timestamp:    now,
		CartID:       "cart-5",
		Step:         "shipping",
		Status:       "in_progress",
		ShippingCost: ptrF(20),
		Total:        ptrF(100),
	})

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-5")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.RootCause != diagnosis.PricingShipping {
		t.Fatalf("root cause = %s, want %s", d.RootCause, diagnosis.PricingShipping)
	}
}

func TestDiagnose_CheckoutFriction(t *testing.T) {
	store := docstoretest.New()
	now := time.Now().UTC()

	steps := []string{"cart_review", "shipping", "shipping_confirmed"}
	for i, step := range steps {
		store.Seed(docstore.CheckoutEvents, "", events.CheckoutEvent{
			Timestamp: now.Add(-time.Duration(len(steps)-i) * time.Minute),
			CartID:    "cart-6",
			Step:      step,
			Status:    "in_progress",
		})
	}

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-6")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.RootCause != diagnosis.CheckoutFriction {
		t.Fatalf("root cause = %s, want %s", d.RootCause, diagnosis.CheckoutFriction)
	}
}

func TestDiagnose_UnknownWhenNoSignalsMatch(t *testing.T) {
	store := docstoretest.New()

	d, err := diagnosis.Diagnose(context.Background(), store, "cart-7")
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if d.RootCause != diagnosis.Unknown {
		t.Fatalf("root cause = %s, want %s", d.RootCause, diagnosis.Unknown)
	}
	if d.Evidence["checkout_events_count"] != 0 || d.Evidence["payment_logs_count"] != 0 {
		t.Fatalf("evidence counts = %v", d.Evidence)
	}
}
