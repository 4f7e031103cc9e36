// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/saffiyashabeen/get-papers-list/internal/httputil"
	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// SearchResult holds the outcome of an esearch query.
type SearchResult struct {
	// IDs are the matching PMIDs, up to the requested maximum.
	IDs []string

	// Count is the total number of matches PubMed reports for the query,
	// which can exceed len(IDs).
	Count int
}

// Search queries esearch for PMIDs matching the query string. An empty
// query is an error; a query with zero matches is not.
func (c *Client) Search(ctx context.Context, query string, cfg types.PubMedConfig) (SearchResult, error) {
	if query == "" {
		return SearchResult{}, fmt.Errorf("query is empty")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	params := c.commonParams()
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(maxResults))
	params.Set("retmode", "json")

	// Publication date range filter.
	if !cfg.DateFrom.IsZero() || !cfg.DateTo.IsZero() {
		params.Set("datetype", "pdat")
		if !cfg.DateFrom.IsZero() {
			params.Set("mindate", cfg.DateFrom.Format("2006/01/02"))
		}
		if !cfg.DateTo.IsZero() {
			params.Set("maxdate", cfg.DateTo.Format("2006/01/02"))
		}
	}

	reqURL := esearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return SearchResult{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent(cfg))

	if err := c.limiter.Wait(ctx); err != nil {
		return SearchResult{}, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return SearchResult{}, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SearchResult{}, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return SearchResult{}, fmt.Errorf("parsing esearch response: %w", err)
	}

	count, _ := strconv.Atoi(er.ESearchResult.Count)
	return SearchResult{
		IDs:   er.ESearchResult.IDList,
		Count: count,
	}, nil
}

// esearch JSON structures. Numeric fields arrive as strings.
type esearchResponse struct {
	ESearchResult esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	RetMax string   `json:"retmax"`
	IDList []string `json:"idlist"`
}
