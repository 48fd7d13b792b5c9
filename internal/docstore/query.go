package docstore

import (
	"encoding/json"

	"cartrecovery/internal/apperr"
)

// buildSearchBody translates a Query (plus an optional aggs block) into the
// search engine's JSON wire format: a bool/filter query with term and range
// clauses, an optional sort, and a size.
func buildSearchBody(q Query, aggs map[string]any) map[string]any {
	var filters []map[string]any
	for _, t := range q.Terms {
		filters = append(filters, map[string]any{"term": map[string]any{t.Field: t.Value}})
	}
	for _, r := range q.Ranges {
		rng := map[string]any{}
		if r.Gte != nil {
			rng["gte"] = r.Gte
		}
		if r.Lte != nil {
			rng["lte"] = r.Lte
		}
		filters = append(filters, map[string]any{"range": map[string]any{r.Field: rng}})
	}

	body := map[string]any{
		"query": map[string]any{"bool": map[string]any{"filter": filters}},
	}
	if q.Size > 0 {
		body["size"] = q.Size
	} else if aggs != nil {
		// an aggregation-only query asks for zero raw hits unless the
		// caller also wants raw hits via Size; per-bucket top-hits are
		// requested separately through AggregationRequest.TopHits.
		body["size"] = 0
	}
	if q.Sort != nil {
		body["sort"] = []map[string]any{
			{q.Sort.Field: map[string]any{"order": string(q.Sort.Order)}},
		}
	}
	if aggs != nil {
		body["aggs"] = aggs
	}
	return body
}

func buildAggs(agg AggregationRequest) map[string]any {
	inner := map[string]any{}
	if agg.SubTerms != "" {
		inner["by_sub"] = map[string]any{
			"terms": map[string]any{"field": agg.SubTerms, "size": 50},
		}
	}
	if agg.SubAvg != "" {
		inner["avg_value"] = map[string]any{
			"avg": map[string]any{"field": agg.SubAvg},
		}
	}
	if agg.TopHits > 0 {
		topHits := map[string]any{"size": agg.TopHits}
		if agg.TopHitsSort != nil {
			topHits["sort"] = []map[string]any{
				{agg.TopHitsSort.Field: map[string]any{"order": string(agg.TopHitsSort.Order)}},
			}
		}
		inner["top"] = map[string]any{"top_hits": topHits}
	}

	group := map[string]any{
		"terms": map[string]any{"field": agg.GroupBy, "size": agg.groupSize()},
	}
	if len(inner) > 0 {
		group["aggs"] = inner
	}

	return map[string]any{"by_group": group}
}

type aggBucket struct {
	Key      string `json:"key"`
	DocCount int    `json:"doc_count"`
	BySub    struct {
		Buckets []struct {
			Key      string `json:"key"`
			DocCount int    `json:"doc_count"`
		} `json:"buckets"`
	} `json:"by_sub"`
	AvgValue struct {
		Value *float64 `json:"value"`
	} `json:"avg_value"`
	Top struct {
		Hits struct {
			Hits []searchHit `json:"hits"`
		} `json:"hits"`
	} `json:"top"`
}

type aggregationsPayload struct {
	ByGroup struct {
		Buckets []aggBucket `json:"buckets"`
	} `json:"by_group"`
}

func parseAggregationResponse(raw []byte, req AggregationRequest) (AggregationResult, error) {
	var parsed struct {
		Aggregations aggregationsPayload `json:"aggregations"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return AggregationResult{}, apperr.StoreUnavailablef(err, "decode aggregation response")
	}

	var result AggregationResult
	for _, b := range parsed.Aggregations.ByGroup.Buckets {
		bucket := Bucket{Key: b.Key, DocCount: b.DocCount}

		if req.SubTerms != "" {
			bucket.SubCounts = make(map[string]int, len(b.BySub.Buckets))
			for _, sb := range b.BySub.Buckets {
				bucket.SubCounts[sb.Key] = sb.DocCount
			}
		}
		if req.SubAvg != "" && b.AvgValue.Value != nil {
			bucket.AvgValue = *b.AvgValue.Value
		}
		if req.TopHits > 0 {
			for _, h := range b.Top.Hits.Hits {
				bucket.TopHitDocs = append(bucket.TopHitDocs, Document{ID: h.ID, Source: h.Source})
			}
		}
		result.Buckets = append(result.Buckets, bucket)
	}
	return result, nil
}
