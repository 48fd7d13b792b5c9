// Package docstore is the thin capability gateway over the search and
// aggregation engine backing the abandonment pipeline (spec.md §4.0/§6): cart
// and checkout event streams, payment logs, session telemetry, customer
// profiles, and the recovery history collection. It knows nothing about
// carts, diagnoses, or policy — only filtered search, terms/top-hits/avg
// aggregation, keyed get, and indexed writes with a caller-supplied id.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"cartrecovery/internal/apperr"
)

// Gateway is the process-wide handle to the document store. It holds no
// mutable state beyond the *http.Client, so it is safe to share across
// concurrent orchestration passes (spec.md §5).
type Gateway struct {
	cfg    Config
	client *http.Client
	log    *zap.SugaredLogger
}

// New validates cfg, builds the underlying HTTP client, and pings the store
// before returning — mirroring the teacher's db.New, which dials and Pings a
// pgxpool before handing back a usable pool.
func New(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*Gateway, error) {
	if cfg.URL == "" {
		return nil, apperr.ValidationErrorf("doc_store_url is required")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	gw := &Gateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.timeout(),
		},
		log: log,
	}

	if err := gw.ping(ctx); err != nil {
		return nil, err
	}
	log.Infow("document store gateway ready", "url", cfg.URL)
	return gw, nil
}

func (g *Gateway) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.URL, nil)
	if err != nil {
		return apperr.StoreUnavailablef(err, "build ping request")
	}
	g.authenticate(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return apperr.StoreUnavailablef(err, "ping document store at %s", g.cfg.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return apperr.StoreUnavailablef(fmt.Errorf("status %d", resp.StatusCode), "document store unhealthy")
	}
	return nil
}

func (g *Gateway) authenticate(req *http.Request) {
	switch {
	case g.cfg.hasAPIKey():
		req.Header.Set("Authorization", "ApiKey "+g.cfg.APIKey)
	case g.cfg.hasBasicAuth():
		req.SetBasicAuth(g.cfg.Username, g.cfg.Password)
	}
}

func (g *Gateway) endpoint(parts ...string) string {
	return strings.TrimRight(g.cfg.URL, "/") + "/" + strings.Join(parts, "/")
}

func (g *Gateway) do(ctx context.Context, method, url string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, apperr.StoreUnavailablef(err, "encode request body")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, apperr.StoreUnavailablef(err, "build request to %s", url)
	}
	req.Header.Set("Content-Type", "application/json")
	g.authenticate(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, apperr.StoreUnavailablef(err, "request to %s", url)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apperr.StoreUnavailablef(err, "read response from %s", url)
	}
	return respBody, resp.StatusCode, nil
}

// searchHit mirrors a single `hits.hits[]` entry in the engine's wire format.
type searchHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations"`
}

// Search issues a filtered, sorted search against one collection.
func (g *Gateway) Search(ctx context.Context, col Collection, q Query) (SearchResult, error) {
	body := buildSearchBody(q, nil)
	raw, status, err := g.do(ctx, http.MethodPost, g.endpoint(string(col), "_search"), body)
	if err != nil {
		return SearchResult{}, err
	}
	if status >= 300 {
		return SearchResult{}, statusError(col, status, string(raw))
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return SearchResult{}, apperr.StoreUnavailablef(err, "decode search response from %s", col)
	}

	out := SearchResult{Total: parsed.Hits.Total.Value}
	for _, h := range parsed.Hits.Hits {
		out.Hits = append(out.Hits, Document{ID: h.ID, Source: h.Source})
	}
	return out, nil
}

// GetByID performs a keyed lookup, translating a missing document into
// apperr.NotFound per spec.md §4.3/§7.
func (g *Gateway) GetByID(ctx context.Context, col Collection, id string) (Document, error) {
	raw, status, err := g.do(ctx, http.MethodGet, g.endpoint(string(col), "_doc", id), nil)
	if err != nil {
		return Document{}, err
	}
	if status == http.StatusNotFound {
		return Document{}, apperr.NotFoundf("%s/%s not found", col, id)
	}
	if status >= 300 {
		return Document{}, statusError(col, status, string(raw))
	}

	var doc struct {
		ID     string          `json:"_id"`
		Source json.RawMessage `json:"_source"`
		Found  bool            `json:"found"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, apperr.StoreUnavailablef(err, "decode get response from %s", col)
	}
	if !doc.Found {
		return Document{}, apperr.NotFoundf("%s/%s not found", col, id)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return Document{ID: doc.ID, Source: doc.Source}, nil
}

// IndexWithID writes doc under the caller-supplied id. Writing the same id
// twice with the same document is idempotent at the store (spec.md §4.7).
func (g *Gateway) IndexWithID(ctx context.Context, col Collection, id string, doc any) error {
	raw, status, err := g.do(ctx, http.MethodPut, g.endpoint(string(col), "_doc", id), doc)
	if err != nil {
		return err
	}
	if status >= 300 {
		return statusError(col, status, string(raw))
	}
	return nil
}

// Aggregate issues a filtered terms aggregation with optional nested
// sub-terms/avg/top-hits aggregations, per spec.md §4.4.
func (g *Gateway) Aggregate(ctx context.Context, col Collection, agg AggregationRequest) (AggregationResult, error) {
	body := buildSearchBody(agg.Query, buildAggs(agg))
	raw, status, err := g.do(ctx, http.MethodPost, g.endpoint(string(col), "_search"), body)
	if err != nil {
		return AggregationResult{}, err
	}
	if status >= 300 {
		return AggregationResult{}, statusError(col, status, string(raw))
	}

	return parseAggregationResponse(raw, agg)
}
