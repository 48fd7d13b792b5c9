package similarity

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FindSimilar aggregates past recovery attempts for comparable carts (same
// root cause, segment, and a cart-value band) by action type, per spec.md
// §4.4.
func FindSimilar(ctx context.Context, store docstore.Store, req Request) (Result, error) {
	if err := validate.Struct(req); err != nil {
		return Result{}, apperr.ValidationErrorf("invalid similarity request: %v", err)
	}

	low := req.CartValue * 0.8
	if low < 0 {
		low = 0
	}
	high := 999999.0
	if req.CartValue > 0 {
		high = req.CartValue * 1.2
	}

	since := time.Now().UTC().AddDate(0, 0, -req.LookbackDays)

	query := docstore.Query{
		Terms: []docstore.Term{
			{Field: "diagnosis.root_cause", Value: req.RootCause},
			{Field: "segment", Value: req.Segment},
		},
		Ranges: []docstore.Range{
			{Field: "cart_value", Gte: low, Lte: high},
			{Field: "@timestamp", Gte: since.Format(time.RFC3339)},
		},
	}

	agg, err := store.Aggregate(ctx, docstore.RecoveryHistory, docstore.AggregationRequest{
		Query:    query,
		GroupBy:  "action.type",
		SubTerms: "outcome.status",
		SubAvg:   "outcome.revenue_recovered",
	})
	if err != nil {
		return Result{}, err
	}

	var stats []ActionStats
	for _, b := range agg.Buckets {
		recovered := b.SubCounts["recovered"]
		total := b.DocCount
		successRate := 0.0
		if total > 0 {
			successRate = float64(recovered) / float64(total)
		}
		stats = append(stats, ActionStats{
			ActionType:          b.Key,
			Total:               total,
			Recovered:           recovered,
			SuccessRate:         successRate,
			AvgRevenueRecovered: b.AvgValue,
		})
	}

	hitsQuery := query
	hitsQuery.Sort = &docstore.Sort{Field: "@timestamp", Order: docstore.Descending}
	hitsQuery.Size = req.Size

	searchResult, err := store.Search(ctx, docstore.RecoveryHistory, hitsQuery)
	if err != nil {
		return Result{}, err
	}

	var hits []HistoryHit
	for _, doc := range searchResult.Hits {
		var raw struct {
			RecoveryID string    `json:"recovery_id"`
			CartID     string    `json:"cart_id"`
			SentAt     time.Time `json:"sent_at"`
			Action     struct {
				Type string `json:"type"`
			} `json:"action"`
			Outcome struct {
				Status string `json:"status"`
			} `json:"outcome"`
		}
		if err := doc.Decode(&raw); err != nil {
			return Result{}, apperr.StoreUnavailablef(err, "decode recovery history hit")
		}
		hits = append(hits, HistoryHit{
			RecoveryID: raw.RecoveryID,
			CartID:     raw.CartID,
			ActionType: raw.Action.Type,
			Outcome:    raw.Outcome.Status,
			SentAt:     raw.SentAt,
		})
	}

	return Result{Stats: stats, Hits: hits}, nil
}
