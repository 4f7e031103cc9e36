// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the get-papers-list CLI: it queries
// PubMed for a search term, filters the results for papers with at least one
// pharmaceutical or biotech company author, and exports the matches.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffiyashabeen/get-papers-list/internal/pipeline"
	"github.com/saffiyashabeen/get-papers-list/internal/pubmed"
	"github.com/saffiyashabeen/get-papers-list/internal/secrets"
	"github.com/saffiyashabeen/get-papers-list/internal/store"
	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout  = 30 * time.Second
	defaultOutput   = "pubmed_papers.csv"
	defaultCacheTTL = 7 * 24 * time.Hour

	secretsDir = ".secrets/"
)

// rootCmd is the base command; the query itself is the positional argument,
// so a bare invocation prints usage and exits non-zero.
var rootCmd = &cobra.Command{
	Use:   "get-papers-list [query]",
	Short: "Fetch PubMed papers with pharmaceutical/biotech company authors",
	Long: `get-papers-list queries PubMed for papers matching a search term, fetches
the full article records, keeps the papers where at least one author lists a
pharmaceutical or biotech company affiliation, and exports the result as CSV
(or JSON, YAML, Markdown, or a terminal table).

The query supports full PubMed search syntax, including field tags and
boolean operators:

  get-papers-list "cancer immunotherapy"
  get-papers-list "CRISPR[Title] AND 2023[PDAT]" -f crispr.csv --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./get-papers-list.yaml or ~/.config/get-papers-list/config.yaml)")

	rootCmd.Flags().StringP("file", "f", defaultOutput, "output filename (\"-\" for stdout)")
	rootCmd.Flags().String("format", "csv", "output format: csv, json, yaml, markdown, or table")
	rootCmd.Flags().BoolP("debug", "d", false, "print per-paper details and progress information")
	rootCmd.Flags().Int("max-results", 0, "maximum number of papers to fetch (default 20)")
	rootCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	rootCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	rootCmd.Flags().String("api-key", "", "NCBI API key (raises the rate limit from 3 to 10 req/s)")
	rootCmd.Flags().String("email", "", "contact email sent to NCBI with every request")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	rootCmd.Flags().Bool("no-cache", false, "bypass the local paper cache")
	rootCmd.Flags().String("cache-dir", "", "cache directory (default ~/.cache/get-papers-list)")
	rootCmd.Flags().Bool("all", false, "export every fetched paper, skipping the affiliation filter")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("get-papers-list")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "get-papers-list"))
		}
	}

	viper.SetEnvPrefix("GET_PAPERS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	query := args[0]
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	debug, _ := cmd.Flags().GetBool("debug")

	client := pubmed.NewClient(
		pubmed.WithAPIKey(cfg.PubMed.APIKey),
		pubmed.WithTool("get-papers-list", cfg.PubMed.Email),
		pubmed.WithHTTPClient(&http.Client{Timeout: cfg.PubMed.Timeout}),
	)

	opts := pipeline.Options{Client: client, Debug: debug}
	if !cfg.Cache.Disabled {
		cache, err := store.Open(cfg.Cache)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cache unavailable, fetching directly: %v\n", err)
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	_, err = pipeline.Run(context.Background(), opts, cfg, query, os.Stderr)
	return err
}

// buildConfig assembles the pipeline configuration with precedence
// flag > environment > .env > .secrets/ > config file > default.
func buildConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig

	creds, err := secrets.Resolve(secretsDir)
	if err != nil {
		return cfg, err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("pubmed.timeout")
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = creds.APIKey
	}
	if apiKey == "" {
		apiKey = viper.GetString("pubmed.api_key")
	}
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = creds.Email
	}
	if email == "" {
		email = viper.GetString("pubmed.email")
	}

	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults == 0 {
		maxResults = viper.GetInt("pubmed.max_results")
	}

	cfg.PubMed = types.PubMedConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "get-papers-list/" + version,
		},
		Tool:       "get-papers-list",
		Email:      email,
		APIKey:     apiKey,
		MaxResults: maxResults,
	}

	from, _ := cmd.Flags().GetString("from")
	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return cfg, fmt.Errorf("invalid --from date %q: use YYYY-MM-DD", from)
		}
		cfg.PubMed.DateFrom = t
	}
	to, _ := cmd.Flags().GetString("to")
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return cfg, fmt.Errorf("invalid --to date %q: use YYYY-MM-DD", to)
		}
		cfg.PubMed.DateTo = t
	}

	keepAll, _ := cmd.Flags().GetBool("all")
	cfg.Filter = types.FilterConfig{
		CompanyKeywords: viper.GetStringSlice("filter.company_keywords"),
		KeepAll:         keepAll,
	}

	cfg.Cache, err = buildCacheConfig(cmd)
	if err != nil {
		return cfg, err
	}

	outPath, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")
	switch types.OutputFormat(format) {
	case types.FormatCSV, types.FormatJSON, types.FormatYAML, types.FormatMarkdown, types.FormatTable:
	default:
		return cfg, fmt.Errorf("unsupported format %q: use csv, json, yaml, markdown, or table", format)
	}
	cfg.Output = types.OutputConfig{
		Path:   outPath,
		Format: types.OutputFormat(format),
	}

	return cfg, nil
}

func buildCacheConfig(cmd *cobra.Command) (types.CacheConfig, error) {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if noCache || viper.GetBool("cache.disabled") {
		return types.CacheConfig{Disabled: true}, nil
	}

	dir, _ := cmd.Flags().GetString("cache-dir")
	if dir == "" {
		dir = viper.GetString("cache.dir")
	}
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return types.CacheConfig{Disabled: true}, nil
		}
		dir = filepath.Join(base, "get-papers-list")
	}

	ttl := viper.GetDuration("cache.ttl")
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return types.CacheConfig{Dir: dir, TTL: ttl}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
