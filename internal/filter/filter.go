// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter flags papers with pharmaceutical/biotech-affiliated authors
// by matching company markers in author affiliation strings.
package filter

import (
	"regexp"
	"strings"

	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// defaultCompanyKeywords are the affiliation tokens that mark a commercial
// organization. Matching is case-sensitive on purpose: "Inc" is a corporate
// suffix, "inc" mid-word is not.
var defaultCompanyKeywords = []string{
	"Inc",
	"Ltd",
	"LLC",
	"Corp",
	"Corporation",
	"Company",
	"GmbH",
	"Pharma",
	"Pharmaceutical",
	"Pharmaceuticals",
	"Biotech",
	"Therapeutics",
	"Biosciences",
}

var emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Apply inspects a paper's authors and returns a report row when at least
// one author has a company-matching affiliation. With cfg.KeepAll every
// paper produces a row, matched or not.
func Apply(paper types.Paper, cfg types.FilterConfig) (types.ReportRow, bool) {
	keywords := cfg.CompanyKeywords
	if len(keywords) == 0 {
		keywords = defaultCompanyKeywords
	}

	row := types.ReportRow{
		PMID:    paper.PMID,
		Title:   paper.Title,
		PubDate: paper.PubDate,
	}

	seenAffiliation := make(map[string]bool)
	seenEmail := make(map[string]bool)

	for _, author := range paper.Authors {
		authorMatched := false
		for _, aff := range author.Affiliations {
			if MatchesCompany(aff, keywords) {
				authorMatched = true
				if !seenAffiliation[aff] {
					seenAffiliation[aff] = true
					row.CompanyAffiliations = append(row.CompanyAffiliations, aff)
				}
			}
			for _, email := range ExtractEmails(aff) {
				if !seenEmail[email] {
					seenEmail[email] = true
					row.CorrespondingEmails = append(row.CorrespondingEmails, email)
				}
			}
		}
		if authorMatched {
			row.NonAcademicAuthors = append(row.NonAcademicAuthors, author.DisplayName())
		}
	}

	matched := len(row.NonAcademicAuthors) > 0
	return row, matched || cfg.KeepAll
}

// ApplyAll filters a slice of papers, returning the rows that matched (or
// all rows with cfg.KeepAll).
func ApplyAll(papers []types.Paper, cfg types.FilterConfig) []types.ReportRow {
	var rows []types.ReportRow
	for _, p := range papers {
		if row, ok := Apply(p, cfg); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// MatchesCompany reports whether an affiliation string contains any company
// keyword as a whole word. Word-aware matching keeps "Inc" from firing
// inside "Incubation" or "Ltd" inside "Ltda".
func MatchesCompany(affiliation string, keywords []string) bool {
	for _, kw := range keywords {
		idx := 0
		for {
			pos := strings.Index(affiliation[idx:], kw)
			if pos < 0 {
				break
			}
			start := idx + pos
			end := start + len(kw)
			if isWordBoundary(affiliation, start-1) && isWordBoundary(affiliation, end) {
				return true
			}
			idx = end
		}
	}
	return false
}

// isWordBoundary reports whether position i in s is outside the string or a
// non-letter byte. Affiliation strings are ASCII-dominated; company suffixes
// always are.
func isWordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z')
}

// ExtractEmails returns the email addresses embedded in an affiliation
// string. PubMed appends the corresponding author's address to their
// affiliation, usually with a trailing period; the pattern's TLD anchor
// keeps that period out of the match.
func ExtractEmails(affiliation string) []string {
	return emailRe.FindAllString(affiliation, -1)
}
