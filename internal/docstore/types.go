package docstore

import (
	"context"
	"encoding/json"
)

// Store is the capability surface every domain package depends on, narrow
// enough that tests substitute an in-memory fake
// (internal/docstore/docstoretest) for the real *Gateway — the same shape as
// the teacher's dbx.Querier/Store interfaces standing in for a concrete pgx
// pool.
type Store interface {
	Search(ctx context.Context, col Collection, q Query) (SearchResult, error)
	GetByID(ctx context.Context, col Collection, id string) (Document, error)
	IndexWithID(ctx context.Context, col Collection, id string, doc any) error
	Aggregate(ctx context.Context, col Collection, agg AggregationRequest) (AggregationResult, error)
}

// Document is a single stored record as returned by the search engine: its
// source fields plus the id the store assigned (or the caller supplied).
type Document struct {
	ID     string
	Source json.RawMessage
}

// Decode unmarshals the document's source into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Source, v)
}

// SearchResult is the typed result of a filtered/sorted search.
type SearchResult struct {
	Total int
	Hits  []Document
}

// SortOrder controls the direction of a sort clause.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Sort orders results by a single field; the Gateway only ever needs one sort
// key at a time (timestamp, recency) across this module's queries.
type Sort struct {
	Field string
	Order SortOrder
}

// Term is an exact-match filter clause, e.g. Term{Field: "status", Value: "completed"}.
type Term struct {
	Field string
	Value any
}

// Range is an inclusive or half-open numeric/time range filter.
type Range struct {
	Field string
	Gte   any // inclusive lower bound, nil if unbounded
	Lte   any // inclusive upper bound, nil if unbounded
}

// Query describes a filtered search against one collection.
type Query struct {
	Terms  []Term
	Ranges []Range
	Sort   *Sort
	Size   int
}
