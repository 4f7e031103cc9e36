package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/saffiyashabeen/get-papers-list/internal/pubmed"
	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// WriteMarkdown renders rows as a Markdown report: a summary table followed
// by one section per paper with its matched affiliations.
func WriteMarkdown(w io.Writer, rows []types.ReportRow) error {
	md := markdown.NewMarkdown(w)

	md.H1("PubMed Papers with Pharma/Biotech Affiliations")
	md.PlainText("")

	if len(rows) == 0 {
		md.PlainText("No papers matched.")
		return md.Build()
	}

	md.PlainText(fmt.Sprintf("%d matching paper(s).", len(rows)))
	md.PlainText("")

	tableRows := make([][]string, len(rows))
	for i, r := range rows {
		year := pubmed.Year(r.PubDate)
		if year == "" {
			year = r.PubDate
		}
		tableRows[i] = []string{
			r.PMID,
			truncate(r.Title, 60),
			year,
			strings.Join(r.NonAcademicAuthors, ", "),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"PubmedID", "Title", "Year", "Non-academic Author(s)"},
		Rows:   tableRows,
	})
	md.PlainText("")

	for _, r := range rows {
		md.H2(r.Title)
		md.PlainTextf("PubMed ID: `%s` (%s)", r.PMID, r.PubDate)
		md.PlainText("")
		if len(r.CompanyAffiliations) > 0 {
			md.H3("Company affiliations")
			md.BulletList(r.CompanyAffiliations...)
			md.PlainText("")
		}
		if len(r.CorrespondingEmails) > 0 {
			md.PlainTextf("Contact: %s", strings.Join(r.CorrespondingEmails, ", "))
			md.PlainText("")
		}
	}

	return md.Build()
}
