// Package cartdetector implements the Cart Candidate Detector (spec.md
// §4.1): it aggregates recent cart events per cart, drops carts that are
// still active or that later converted, and ranks what remains by cart
// value.
package cartdetector

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
	"cartrecovery/internal/domain/events"
)

// maxCartGroups bounds the per-run aggregation cost (spec.md §4.1 step 1).
const maxCartGroups = 1000

var validate = validator.New(validator.WithRequiredStructEnabled())

// Detect returns abandoned-cart candidates ordered by cart_value descending,
// ties broken by earlier last_seen.
func Detect(ctx context.Context, store docstore.Store, req Request) ([]CartCandidate, error) {
	if err := validate.Struct(req); err != nil {
		return nil, apperr.ValidationErrorf("invalid detect request: %v", err)
	}

	now := time.Now().UTC()
	windowStart := now.Add(-time.Duration(req.LookbackMinutes) * time.Minute)
	cutoff := now.Add(-time.Duration(req.AbandonmentMinutes) * time.Minute)

	agg, err := store.Aggregate(ctx, docstore.CartEvents, docstore.AggregationRequest{
		Query: docstore.Query{
			Ranges: []docstore.Range{{
				Field: "@timestamp",
				Gte:   windowStart.Format(time.RFC3339),
				Lte:   now.Format(time.RFC3339),
			}},
		},
		GroupBy:   "cart_id",
		GroupSize: maxCartGroups,
		TopHits:   1,
		TopHitsSort: &docstore.Sort{
			Field: "@timestamp",
			Order: docstore.Descending,
		},
	})
	if err != nil {
		return nil, err
	}

	var candidates []CartCandidate
	for _, bucket := range agg.Buckets {
		if len(bucket.TopHitDocs) == 0 {
			continue
		}

		var ev events.CartEvent
		if err := bucket.TopHitDocs[0].Decode(&ev); err != nil {
			return nil, apperr.StoreUnavailablef(err, "decode cart event for cart %s", bucket.Key)
		}

		if ev.Timestamp.After(cutoff) {
			continue // still active
		}
		if ev.CartID == "" || ev.CustomerID == "" {
			continue
		}

		converted, err := cartHasCompletedCheckout(ctx, store, ev.CartID, windowStart, now)
		if err != nil {
			return nil, err
		}
		if converted {
			continue
		}

		candidates = append(candidates, CartCandidate{
			CartID:     ev.CartID,
			CustomerID: ev.CustomerID,
			SessionID:  ev.SessionID,
			LastSeen:   ev.Timestamp,
			CartValue:  ev.CartValue,
			Currency:   ev.Currency,
			DeviceType: ev.DeviceType,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CartValue != candidates[j].CartValue {
			return candidates[i].CartValue > candidates[j].CartValue
		}
		return candidates[i].LastSeen.Before(candidates[j].LastSeen)
	})

	if len(candidates) > req.MaxCandidates {
		candidates = candidates[:req.MaxCandidates]
	}
	return candidates, nil
}

func cartHasCompletedCheckout(ctx context.Context, store docstore.Store, cartID string, windowStart, windowEnd time.Time) (bool, error) {
	result, err := store.Search(ctx, docstore.CheckoutEvents, docstore.Query{
		Terms: []docstore.Term{
			{Field: "cart_id", Value: cartID},
			{Field: "status", Value: "completed"},
		},
		Ranges: []docstore.Range{{
			Field: "@timestamp",
			Gte:   windowStart.Format(time.RFC3339),
			Lte:   windowEnd.Format(time.RFC3339),
		}},
		Size: 1,
	})
	if err != nil {
		return false, err
	}
	return result.Total > 0, nil
}
