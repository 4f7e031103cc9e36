// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes filtered paper rows in the supported output formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// csvHeader is the fixed CSV column order.
var csvHeader = []string{
	"PubmedID",
	"Title",
	"Publication Date",
	"Non-academic Author(s)",
	"Company Affiliation(s)",
	"Corresponding Author Email",
}

// Write renders rows to w in the given format.
func Write(w io.Writer, rows []types.ReportRow, format types.OutputFormat) error {
	switch format {
	case types.FormatCSV, "":
		return WriteCSV(w, rows)
	case types.FormatJSON:
		return WriteJSON(w, rows)
	case types.FormatYAML:
		return WriteYAML(w, rows)
	case types.FormatMarkdown:
		return WriteMarkdown(w, rows)
	case types.FormatTable:
		FormatTable(rows, w)
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use csv, json, yaml, markdown, or table", format)
	}
}

// WriteCSV writes rows as CSV with the fixed header. Multi-valued columns
// join authors and emails with ", " and affiliations with "; " (affiliation
// strings contain commas themselves).
func WriteCSV(w io.Writer, rows []types.ReportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.PMID,
			row.Title,
			row.PubDate,
			strings.Join(row.NonAcademicAuthors, ", "),
			strings.Join(row.CompanyAffiliations, "; "),
			strings.Join(row.CorrespondingEmails, ", "),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row for %s: %w", row.PMID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes rows as indented JSON.
func WriteJSON(w io.Writer, rows []types.ReportRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteYAML writes rows as a YAML list.
func WriteYAML(w io.Writer, rows []types.ReportRow) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(rows)
}

// FormatTable writes rows as a human-readable table to w.
func FormatTable(rows []types.ReportRow, w io.Writer) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-50s  %-12s  %-25s  %s\n",
		"PubmedID", "Title", "Date", "Non-academic Authors", "Emails")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %-50s  %-12s  %-25s  %s\n",
			r.PMID,
			truncate(r.Title, 50),
			truncate(r.PubDate, 12),
			truncate(strings.Join(r.NonAcademicAuthors, ", "), 25),
			strings.Join(r.CorrespondingEmails, ", "))
	}

	fmt.Fprintf(w, "\n%d papers\n", len(rows))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
