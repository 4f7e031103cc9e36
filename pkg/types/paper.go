// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the get-papers-list pipeline.
package types

import "time"

// Author is a single entry from a PubMed article's author list. Affiliations
// are kept per author so the filter stage can attribute a company match to
// the person who declared it.
type Author struct {
	// LastName and ForeName come from the MedlineCitation author record.
	LastName string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	ForeName string `json:"fore_name,omitempty" yaml:"fore_name,omitempty"`

	// CollectiveName is set for group authors (consortia, working groups),
	// which carry no LastName/ForeName.
	CollectiveName string `json:"collective_name,omitempty" yaml:"collective_name,omitempty"`

	// Affiliations lists the author's declared institutional affiliation strings.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// DisplayName returns "ForeName LastName", the collective name for group
// authors, or whichever part is present.
func (a Author) DisplayName() string {
	if a.CollectiveName != "" {
		return a.CollectiveName
	}
	switch {
	case a.ForeName != "" && a.LastName != "":
		return a.ForeName + " " + a.LastName
	case a.LastName != "":
		return a.LastName
	default:
		return a.ForeName
	}
}

// Paper holds one PubMed article record as decoded from an efetch response.
type Paper struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// Journal is the journal title, when present.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// PubDate is the publication date as a display string. PubMed dates are
	// frequently partial ("2023", "2023 Jan"), so no time.Time round-trip.
	PubDate string `json:"pub_date" yaml:"pub_date"`

	// Authors lists the article authors in source order.
	Authors []Author `json:"authors" yaml:"authors"`

	// Abstract is the article abstract text.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// FetchedAt records when this record was retrieved from the API.
	FetchedAt time.Time `json:"fetched_at,omitempty" yaml:"fetched_at,omitempty"`
}

// ReportRow is one exported result: a paper with at least one author whose
// affiliation matched the company keyword list. Field order matches the CSV
// column order.
type ReportRow struct {
	PMID                string   `json:"pmid" yaml:"pmid"`
	Title               string   `json:"title" yaml:"title"`
	PubDate             string   `json:"pub_date" yaml:"pub_date"`
	NonAcademicAuthors  []string `json:"non_academic_authors" yaml:"non_academic_authors"`
	CompanyAffiliations []string `json:"company_affiliations" yaml:"company_affiliations"`
	CorrespondingEmails []string `json:"corresponding_emails" yaml:"corresponding_emails"`
}
