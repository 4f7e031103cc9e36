// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the stages of a get-papers-list run: search,
// cache lookup, fetch, filter, and export.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/saffiyashabeen/get-papers-list/internal/export"
	"github.com/saffiyashabeen/get-papers-list/internal/filter"
	"github.com/saffiyashabeen/get-papers-list/internal/pubmed"
	"github.com/saffiyashabeen/get-papers-list/internal/store"
	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// Searcher is the subset of the PubMed client the pipeline needs;
// *pubmed.Client satisfies it and tests substitute a stub.
type Searcher interface {
	Search(ctx context.Context, query string, cfg types.PubMedConfig) (pubmed.SearchResult, error)
	Fetch(ctx context.Context, pmids []string, cfg types.PubMedConfig) ([]types.Paper, error)
}

// Cache is the subset of the store the pipeline needs. A nil Cache runs
// the pipeline without persistence.
type Cache interface {
	Lookup(ctx context.Context, pmids []string) ([]types.Paper, []string, error)
	Save(ctx context.Context, papers []types.Paper) error
	RecordRun(ctx context.Context, run store.Run) error
}

// Summary holds the counters from one pipeline run.
type Summary struct {
	// TotalFound is the full match count reported by esearch.
	TotalFound int

	// Fetched is the number of records retrieved from the API.
	Fetched int

	// FromCache is the number of records served from the local cache.
	FromCache int

	// Matched is the number of papers that passed the affiliation filter.
	Matched int

	// OutputPath is where the results were written ("-" for stdout).
	OutputPath string
}

// Options holds the pipeline collaborators.
type Options struct {
	Client Searcher
	Cache  Cache

	// Debug enables per-paper detail output for matched papers.
	Debug bool
}

// Run executes the full pipeline for query and writes progress to w.
// An empty search or an empty filter result is not an error.
func Run(ctx context.Context, opts Options, cfg types.PipelineConfig, query string, w io.Writer) (Summary, error) {
	summary := Summary{OutputPath: cfg.Output.Path}

	if opts.Debug {
		fmt.Fprintf(w, "searching PubMed for: %s\n", query)
	}

	sr, err := opts.Client.Search(ctx, query, cfg.PubMed)
	if err != nil {
		return summary, fmt.Errorf("searching PubMed: %w", err)
	}
	summary.TotalFound = sr.Count

	if len(sr.IDs) == 0 {
		fmt.Fprintln(w, "No papers found for query.")
		return summary, nil
	}
	if opts.Debug {
		fmt.Fprintf(w, "found %d papers (%d total matches), fetching details\n", len(sr.IDs), sr.Count)
	}

	papers, err := fetchWithCache(ctx, opts, cfg, sr.IDs, &summary, w)
	if err != nil {
		return summary, err
	}

	rows := filter.ApplyAll(papers, cfg.Filter)
	summary.Matched = len(rows)

	if opts.Debug {
		for _, row := range rows {
			printDetail(w, row)
		}
	}

	if len(rows) == 0 && !cfg.Filter.KeepAll {
		fmt.Fprintln(w, "No papers with pharmaceutical/biotech affiliations found.")
		recordRun(ctx, opts.Cache, query, summary, w)
		return summary, nil
	}

	if err := writeOutput(cfg.Output, rows); err != nil {
		return summary, fmt.Errorf("exporting results: %w", err)
	}
	if cfg.Output.Path != "-" {
		fmt.Fprintf(w, "Results exported to %s\n", cfg.Output.Path)
	}

	recordRun(ctx, opts.Cache, query, summary, w)
	return summary, nil
}

// fetchWithCache serves records from the cache where possible and fetches
// the rest from the API. Cache failures degrade to a full fetch with a
// warning; they never abort the run.
func fetchWithCache(ctx context.Context, opts Options, cfg types.PipelineConfig, pmids []string, summary *Summary, w io.Writer) ([]types.Paper, error) {
	toFetch := pmids
	var cached []types.Paper

	if opts.Cache != nil {
		var err error
		cached, toFetch, err = opts.Cache.Lookup(ctx, pmids)
		if err != nil {
			fmt.Fprintf(w, "warning: cache lookup failed: %v\n", err)
			cached, toFetch = nil, pmids
		}
	}
	summary.FromCache = len(cached)

	var fetched []types.Paper
	if len(toFetch) > 0 {
		var err error
		fetched, err = opts.Client.Fetch(ctx, toFetch, cfg.PubMed)
		if err != nil {
			return nil, fmt.Errorf("fetching paper details: %w", err)
		}
		summary.Fetched = len(fetched)

		if opts.Cache != nil {
			if err := opts.Cache.Save(ctx, fetched); err != nil {
				fmt.Fprintf(w, "warning: cache save failed: %v\n", err)
			}
		}
	}

	if opts.Debug && summary.FromCache > 0 {
		fmt.Fprintf(w, "%d records served from cache, %d fetched\n", summary.FromCache, summary.Fetched)
	}

	// Reassemble in esearch order, which is the query's relevance order.
	byID := make(map[string]types.Paper, len(cached)+len(fetched))
	for _, p := range cached {
		byID[p.PMID] = p
	}
	for _, p := range fetched {
		byID[p.PMID] = p
	}
	var ordered []types.Paper
	for _, id := range pmids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func writeOutput(cfg types.OutputConfig, rows []types.ReportRow) error {
	if cfg.Path == "-" || cfg.Path == "" {
		return export.Write(os.Stdout, rows, cfg.Format)
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Path, err)
	}
	if err := export.Write(f, rows, cfg.Format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func recordRun(ctx context.Context, cache Cache, query string, summary Summary, w io.Writer) {
	if cache == nil {
		return
	}
	err := cache.RecordRun(ctx, store.Run{
		Query:      query,
		TotalFound: summary.TotalFound,
		Fetched:    summary.Fetched,
		FromCache:  summary.FromCache,
		Matched:    summary.Matched,
		OutputPath: summary.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(w, "warning: run history write failed: %v\n", err)
	}
}

func printDetail(w io.Writer, row types.ReportRow) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "PubMed ID            : %s\n", row.PMID)
	fmt.Fprintf(w, "Title                : %s\n", row.Title)
	fmt.Fprintf(w, "Publication Date     : %s\n", row.PubDate)
	fmt.Fprintf(w, "Non-academic Authors : %s\n", strings.Join(row.NonAcademicAuthors, ", "))
	fmt.Fprintf(w, "Company Affiliations : %s\n", strings.Join(row.CompanyAffiliations, "; "))
	fmt.Fprintf(w, "Emails               : %s\n", strings.Join(row.CorrespondingEmails, ", "))
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
