// Package docstoretest provides an in-memory docstore.Store fake so domain
// packages can be tested without a live search engine, grounded on the
// teacher's habit of depending on narrow interfaces (dbx.Querier, Store) that
// a hand-rolled fake can satisfy in package tests.
package docstoretest

import (
	"context"
	"encoding/json"
	"sort"

	"cartrecovery/internal/apperr"
	"cartrecovery/internal/docstore"
)

type record struct {
	id     string
	source map[string]any
	raw    json.RawMessage
}

// Fake is a minimal, single-process implementation of docstore.Store backed
// by plain Go slices and maps. It supports exactly the query shapes this
// module issues: term equality, numeric/time range, a single sort key, and a
// one-level terms aggregation with optional sub-terms/avg/top-hits.
type Fake struct {
	collections map[docstore.Collection][]record
}

func New() *Fake {
	return &Fake{collections: make(map[docstore.Collection][]record)}
}

// Seed inserts a document into a collection for a test fixture. id may be
// empty for append-only streams where the test does not care about the id.
func (f *Fake) Seed(col docstore.Collection, id string, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		panic(err)
	}
	f.collections[col] = append(f.collections[col], record{id: id, source: generic, raw: raw})
}

func (f *Fake) GetByID(_ context.Context, col docstore.Collection, id string) (docstore.Document, error) {
	for _, r := range f.collections[col] {
		if r.id == id {
			return docstore.Document{ID: r.id, Source: r.raw}, nil
		}
	}
	return docstore.Document{}, apperr.NotFoundf("%s/%s not found", col, id)
}

func (f *Fake) IndexWithID(_ context.Context, col docstore.Collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return apperr.StoreUnavailablef(err, "encode document")
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return apperr.StoreUnavailablef(err, "decode document")
	}

	for i, r := range f.collections[col] {
		if r.id == id {
			f.collections[col][i] = record{id: id, source: generic, raw: raw}
			return nil
		}
	}
	f.collections[col] = append(f.collections[col], record{id: id, source: generic, raw: raw})
	return nil
}

func (f *Fake) Search(_ context.Context, col docstore.Collection, q docstore.Query) (docstore.SearchResult, error) {
	matches := f.filter(col, q)

	if q.Sort != nil {
		sort.SliceStable(matches, func(i, j int) bool {
			a := valueAt(matches[i].source, q.Sort.Field)
			b := valueAt(matches[j].source, q.Sort.Field)
			less := compare(a, b) < 0
			if q.Sort.Order == docstore.Descending {
				return !less && compare(a, b) != 0
			}
			return less
		})
	}

	total := len(matches)
	if q.Size > 0 && len(matches) > q.Size {
		matches = matches[:q.Size]
	}

	result := docstore.SearchResult{Total: total}
	for _, r := range matches {
		result.Hits = append(result.Hits, docstore.Document{ID: r.id, Source: r.raw})
	}
	return result, nil
}

func (f *Fake) Aggregate(_ context.Context, col docstore.Collection, agg docstore.AggregationRequest) (docstore.AggregationResult, error) {
	matches := f.filter(col, agg.Query)

	buckets := map[string][]record{}
	var order []string
	for _, r := range matches {
		key := toString(valueAt(r.source, agg.GroupBy))
		if _, ok := buckets[key]; !ok {
			if len(order) >= groupSize(agg) {
				continue
			}
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	var result docstore.AggregationResult
	for _, key := range order {
		group := buckets[key]
		b := docstore.Bucket{Key: key, DocCount: len(group)}

		if agg.SubTerms != "" {
			b.SubCounts = map[string]int{}
			for _, r := range group {
				sub := toString(valueAt(r.source, agg.SubTerms))
				b.SubCounts[sub]++
			}
		}
		if agg.SubAvg != "" {
			var sum float64
			var n int
			for _, r := range group {
				if v := valueAt(r.source, agg.SubAvg); v != nil {
					if f, ok := toFloat(v); ok {
						sum += f
						n++
					}
				}
			}
			if n > 0 {
				b.AvgValue = sum / float64(n)
			}
		}
		if agg.TopHits > 0 {
			ordered := group
			if agg.TopHitsSort != nil {
				ordered = append([]record(nil), group...)
				sort.SliceStable(ordered, func(i, j int) bool {
					a := valueAt(ordered[i].source, agg.TopHitsSort.Field)
					bv := valueAt(ordered[j].source, agg.TopHitsSort.Field)
					less := compare(a, bv) < 0
					if agg.TopHitsSort.Order == docstore.Descending {
						return !less && compare(a, bv) != 0
					}
					return less
				})
			}
			n := agg.TopHits
			if n > len(ordered) {
				n = len(ordered)
			}
			for _, r := range ordered[:n] {
				b.TopHitDocs = append(b.TopHitDocs, docstore.Document{ID: r.id, Source: r.raw})
			}
		}
		result.Buckets = append(result.Buckets, b)
	}
	return result, nil
}

func (f *Fake) filter(col docstore.Collection, q docstore.Query) []record {
	var out []record
	for _, r := range f.collections[col] {
		if matchesTerms(r.source, q.Terms) && matchesRanges(r.source, q.Ranges) {
			out = append(out, r)
		}
	}
	return out
}

func matchesTerms(doc map[string]any, terms []docstore.Term) bool {
	for _, t := range terms {
		if toString(valueAt(doc, t.Field)) != toString(t.Value) {
			return false
		}
	}
	return true
}

func matchesRanges(doc map[string]any, ranges []docstore.Range) bool {
	for _, rg := range ranges {
		v := valueAt(doc, rg.Field)
		if rg.Gte != nil && compare(v, rg.Gte) < 0 {
			return false
		}
		if rg.Lte != nil && compare(v, rg.Lte) > 0 {
			return false
		}
	}
	return true
}

// valueAt resolves a possibly dotted field path (e.g. "outcome.status")
// against a generic decoded document, the way the real engine addresses
// nested object fields.
func valueAt(doc map[string]any, path string) any {
	cur := any(doc)
	for _, part := range splitPath(path) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[part]
	}
	return cur
}

func splitPath(path string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			parts = append(parts, path[start:i])
			start = i + 1
		}
	}
	parts = append(parts, path[start:])
	return parts
}
