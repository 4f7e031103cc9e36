// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API: esearch for PMID lists
// and efetch for full article records.
package pubmed

import (
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

const (
	// anonRateLimit and keyedRateLimit are the request rates NCBI permits
	// without and with an API key, in requests per second.
	anonRateLimit  = 3.0
	keyedRateLimit = 10.0

	// defaultBatchSize is the number of PMIDs per efetch request. NCBI
	// caps a single fetch at 200 IDs.
	defaultBatchSize = 200

	defaultMaxResults = 20
)

// Client is a rate-limited client for the PubMed E-utilities API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	tool       string
	email      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIKey sets the NCBI API key and raises the rate limit accordingly.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTool sets the tool name and contact email sent to NCBI with every
// request, per the E-utilities usage guidelines.
func WithTool(tool, email string) ClientOption {
	return func(c *Client) {
		c.tool = tool
		c.email = email
	}
}

// NewClient creates a PubMed E-utilities client. The rate limiter is sized
// to the NCBI policy: 3 requests per second anonymously, 10 with an API key.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		tool:       "get-papers-list",
	}
	for _, opt := range opts {
		opt(c)
	}

	limit := anonRateLimit
	if c.apiKey != "" {
		limit = keyedRateLimit
	}
	c.limiter = rate.NewLimiter(rate.Limit(limit), 1)

	return c
}

// commonParams returns the query parameters every E-utilities request carries.
func (c *Client) commonParams() url.Values {
	params := url.Values{"db": {"pubmed"}}
	if c.tool != "" {
		params.Set("tool", c.tool)
	}
	if c.email != "" {
		params.Set("email", c.email)
	}
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	return params
}

func userAgent(cfg types.PubMedConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return "get-papers-list/0.1"
}
