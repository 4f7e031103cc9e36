// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/saffiyashabeen/get-papers-list/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local paper cache",
	Long: `Cache manages the local SQLite database that stores fetched PubMed
records and the history of past runs. Use subcommands to show cache
statistics, list recent runs, or wipe the cache.`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache statistics",
	RunE:  runCacheInfo,
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	s, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.Info(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("Cached papers: %d\n", stats.Papers)
	fmt.Printf("Recorded runs: %d\n", stats.Runs)
	return nil
}

var cacheRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs, newest first",
	RunE:  runCacheRuns,
}

func runCacheRuns(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	runs, err := s.Runs(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tQUERY\tFOUND\tFETCHED\tCACHED\tMATCHED\tOUTPUT")
	for _, r := range runs {
		query := r.Query
		if len(query) > 40 {
			query = query[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ExecutedAt.Local().Format("2006-01-02 15:04"),
			query, r.TotalFound, r.Fetched, r.FromCache, r.Matched, r.OutputPath)
	}
	return w.Flush()
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached papers and run history",
	RunE:  runCacheClear,
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	s, err := openCache(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("Cache cleared.")
	return nil
}

func openCache(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := buildCacheConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Disabled || cfg.Dir == "" {
		return nil, fmt.Errorf("no cache directory configured")
	}
	return store.Open(cfg)
}

func init() {
	cacheCmd.PersistentFlags().String("cache-dir", "", "cache directory (default ~/.cache/get-papers-list)")
	cacheRunsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = last 20)")

	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheRunsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
