package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "get-papers-list/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// PubMedConfig holds settings for the PubMed E-utilities client.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Tool is the tool name sent to NCBI with every request, per the
	// E-utilities usage guidelines.
	Tool string `json:"tool" yaml:"tool"`

	// Email is the contact email sent to NCBI with every request.
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults is the maximum number of PMIDs requested from esearch (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DateFrom and DateTo restrict esearch to a publication date range.
	DateFrom time.Time `json:"date_from,omitempty" yaml:"date_from,omitempty"`
	DateTo   time.Time `json:"date_to,omitempty" yaml:"date_to,omitempty"`

	// BatchSize is the number of PMIDs per efetch request (default 200,
	// the E-utilities ceiling for a single fetch).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// FilterConfig holds settings for the affiliation filter stage.
type FilterConfig struct {
	// CompanyKeywords are the tokens that flag an affiliation as
	// pharmaceutical/biotech. Empty means the built-in default list.
	CompanyKeywords []string `json:"company_keywords,omitempty" yaml:"company_keywords,omitempty"`

	// KeepAll disables filtering: every fetched paper becomes a report row.
	KeepAll bool `json:"keep_all" yaml:"keep_all"`
}

// CacheConfig holds settings for the local SQLite paper cache.
type CacheConfig struct {
	// Dir is the directory holding papers.db. Empty disables caching.
	Dir string `json:"dir" yaml:"dir"`

	// Disabled bypasses the cache even when Dir is set.
	Disabled bool `json:"disabled" yaml:"disabled"`

	// TTL is how long a cached record stays fresh. Zero means records
	// never expire.
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// OutputFormat selects the export format.
type OutputFormat string

const (
	FormatCSV      OutputFormat = "csv"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "markdown"
	FormatTable    OutputFormat = "table"
)

// OutputConfig holds settings for the export stage.
type OutputConfig struct {
	// Path is the output file. "-" writes to stdout.
	Path string `json:"path" yaml:"path"`

	// Format selects the export format: csv, json, yaml, markdown, or table.
	Format OutputFormat `json:"format" yaml:"format"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	PubMed PubMedConfig `json:"pubmed" yaml:"pubmed"`
	Filter FilterConfig `json:"filter" yaml:"filter"`
	Cache  CacheConfig  `json:"cache" yaml:"cache"`
	Output OutputConfig `json:"output" yaml:"output"`
}
