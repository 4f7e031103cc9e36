package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

func sampleRows() []types.ReportRow {
	return []types.ReportRow{
		{
			PMID:                "36000001",
			Title:               "A novel antibody therapeutic.",
			PubDate:             "2023 Jun 15",
			NonAcademicAuthors:  []string{"Wei Chen"},
			CompanyAffiliations: []string{"Genentech Inc, South San Francisco, CA, USA."},
			CorrespondingEmails: []string{"chen.wei@gene.com"},
		},
		{
			PMID:               "36000002",
			Title:              "Comma, in title",
			PubDate:            "2022",
			NonAcademicAuthors: []string{"Nils Larsen", "K Ito"},
			CompanyAffiliations: []string{
				"Novo Nordisk Pharma, Copenhagen, Denmark.",
				"Acme Therapeutics Ltd, London, UK.",
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want header + 2 rows", len(records))
	}

	wantHeader := []string{
		"PubmedID", "Title", "Publication Date",
		"Non-academic Author(s)", "Company Affiliation(s)", "Corresponding Author Email",
	}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	if records[1][0] != "36000001" {
		t.Errorf("row 1 PubmedID = %q", records[1][0])
	}
	if records[1][5] != "chen.wei@gene.com" {
		t.Errorf("row 1 email = %q", records[1][5])
	}
	// Title commas survive CSV quoting.
	if records[2][1] != "Comma, in title" {
		t.Errorf("row 2 title = %q", records[2][1])
	}
	// Affiliations are semicolon-joined, authors comma-joined.
	if !strings.Contains(records[2][4], "; ") {
		t.Errorf("affiliations not semicolon-joined: %q", records[2][4])
	}
	if records[2][3] != "Nils Larsen, K Ito" {
		t.Errorf("row 2 authors = %q", records[2][3])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("empty export should still have the header row, got %d records", len(records))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var parsed []types.ReportRow
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
	if parsed[0].PMID != "36000001" {
		t.Errorf("PMID = %q", parsed[0].PMID)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var parsed []types.ReportRow
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid YAML output: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
	if parsed[1].Title != "Comma, in title" {
		t.Errorf("Title = %q", parsed[1].Title)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	s := buf.String()

	if !strings.Contains(s, "# PubMed Papers") {
		t.Error("missing report title")
	}
	if !strings.Contains(s, "36000001") {
		t.Error("missing PMID in summary table")
	}
	if !strings.Contains(s, "Genentech Inc") {
		t.Error("missing company affiliation bullet")
	}
	if !strings.Contains(s, "chen.wei@gene.com") {
		t.Error("missing contact email")
	}
}

func TestWriteMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, nil); err != nil {
		t.Fatalf("WriteMarkdown: %v", err)
	}
	if !strings.Contains(buf.String(), "No papers matched.") {
		t.Error("empty report should say no papers matched")
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleRows(), &buf)
	s := buf.String()

	if !strings.Contains(s, "36000001") {
		t.Error("table should contain first PMID")
	}
	if !strings.Contains(s, "2 papers") {
		t.Error("table should contain row count")
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results") {
		t.Error("empty output should say 'No results'")
	}
}

func TestWriteDispatch(t *testing.T) {
	formats := []types.OutputFormat{
		types.FormatCSV, types.FormatJSON, types.FormatYAML,
		types.FormatMarkdown, types.FormatTable, "",
	}
	for _, f := range formats {
		var buf bytes.Buffer
		if err := Write(&buf, sampleRows(), f); err != nil {
			t.Errorf("Write(%q): %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%q) produced no output", f)
		}
	}

	var buf bytes.Buffer
	if err := Write(&buf, sampleRows(), "xlsx"); err == nil {
		t.Error("unsupported format should error")
	}
}
