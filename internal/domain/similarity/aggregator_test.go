package similarity_test

import (
	"context"
	"testing"
	"time"

	"cartrecovery/internal/docstore"
	"cartrecovery/internal/docstore/docstoretest"
	"cartrecovery/internal/domain/similarity"
)

func seedAttempt(store *docstoretest.Fake, id string, daysAgo int, rootCause, segment string, cartValue float64, actionType, outcomeStatus string, revenue float64) {
	store.Seed(docstore.RecoveryHistory, id, map[string]any{
		"@timestamp": time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339),
		"recovery_id": id,
		"cart_id":     "cart-" + id,
		"segment":     segment,
		"cart_value":  cartValue,
		"diagnosis": map[string]any{
			"root_cause": rootCause,
		},
		"action": map[string]any{
			"type": actionType,
		},
		"sent_at": time.Now().UTC().Format(time.RFC3339),
		"outcome": map[string]any{
			"status":            outcomeStatus,
			"revenue_recovered": revenue,
		},
	})
}

func TestFindSimilar_AggregatesByActionType(t *testing.T) {
	store := docstoretest.New()
	seedAttempt(store, "1", 1, "pricing_shipping", "standard", 100, "discount", "recovered", 40)
	seedAttempt(store, "2", 2, "pricing_shipping", "standard", 105, "discount", "abandoned", 0)
	seedAttempt(store, "3", 3, "pricing_shipping", "standard", 95, "free_shipping", "recovered", 20)

	result, err := similarity.FindSimilar(context.Background(), store, similarity.Request{
		RootCause:    "pricing_shipping",
		Segment:      "standard",
		CartValue:    100,
		LookbackDays: 30,
		Size:         10,
	})
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}

	byType := map[string]similarity.ActionStats{}
	for _, s := range result.Stats {
		byType[s.ActionType] = s
	}

	discount, ok := byType["discount"]
	if !ok {
		t.Fatalf("expected discount stats, got %v", result.Stats)
	}
	if discount.Total != 2 || discount.Recovered != 1 {
		t.Fatalf("discount stats = %+v", discount)
	}
	if discount.SuccessRate != 0.5 {
		t.Fatalf("discount success_rate = %v, want 0.5", discount.SuccessRate)
	}
	if discount.AvgRevenueRecovered != 20 {
		t.Fatalf("discount avg_revenue_recovered = %v, want 20", discount.AvgRevenueRecovered)
	}

	if len(result.Hits) != 3 {
		t.Fatalf("hits = %d, want 3", len(result.Hits))
	}
}

func TestFindSimilar_ExcludesOutOfBandCartValue(t *testing.T) {
	store := docstoretest.New()
	seedAttempt(store, "1", 1, "pricing_shipping", "standard", 100, "discount", "recovered", 40)
	// Out of the [80,120] band for cart_value=100.
	seedAttempt(store, "2", 1, "pricing_shipping", "standard", 500, "discount", "recovered", 200)

	result, err := similarity.FindSimilar(context.Background(), store, similarity.Request{
		RootCause:    "pricing_shipping",
		Segment:      "standard",
		CartValue:    100,
		LookbackDays: 30,
		Size:         10,
	})
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(result.Hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(result.Hits))
	}
}

func TestFindSimilar_ZeroCartValueUsesWideBand(t *testing.T) {
	store := docstoretest.New()
	seedAttempt(store, "1", 1, "pricing_shipping", "standard", 50000, "discount", "recovered", 100)

	result, err := similarity.FindSimilar(context.Background(), store, similarity.Request{
		RootCause:    "pricing_shipping",
		Segment:      "standard",
		CartValue:    0,
		LookbackDays: 30,
		Size:         10,
	})
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(result.Hits) != 1 {
		t.Fatalf("hits = %d, want 1 (wide band should include high-value carts)", len(result.Hits))
	}
}
