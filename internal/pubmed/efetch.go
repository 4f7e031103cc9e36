// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saffiyashabeen/get-papers-list/internal/httputil"
	"github.com/saffiyashabeen/get-papers-list/pkg/types"
)

// Fetch retrieves full article records for the given PMIDs via efetch.
// PMIDs are split into batches (at most cfg.BatchSize per request, default
// 200) and the batches are fetched concurrently under the shared rate
// limiter. Results preserve the input PMID order; PMIDs the server does not
// return are silently absent.
func (c *Client) Fetch(ctx context.Context, pmids []string, cfg types.PubMedConfig) ([]types.Paper, error) {
	if len(pmids) == 0 {
		return nil, nil
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > defaultBatchSize {
		batchSize = defaultBatchSize
	}

	var batches [][]string
	for start := 0; start < len(pmids); start += batchSize {
		end := start + batchSize
		if end > len(pmids) {
			end = len(pmids)
		}
		batches = append(batches, pmids[start:end])
	}

	results := make([][]types.Paper, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			papers, err := c.fetchBatch(gctx, batch, cfg)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			results[i] = papers
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Reassemble in input order.
	byID := make(map[string]types.Paper)
	for _, papers := range results {
		for _, p := range papers {
			byID[p.PMID] = p
		}
	}
	var ordered []types.Paper
	for _, id := range pmids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// fetchBatch retrieves one efetch page. The PMID list goes in a POST form
// body so large batches do not overflow URL length limits.
func (c *Client) fetchBatch(ctx context.Context, pmids []string, cfg types.PubMedConfig) ([]types.Paper, error) {
	params := c.commonParams()
	params.Set("id", strings.Join(pmids, ","))
	params.Set("retmode", "xml")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, efetchBase,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent(cfg))

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}

	now := time.Now().UTC()
	papers := make([]types.Paper, 0, len(set.Articles))
	for _, art := range set.Articles {
		papers = append(papers, art.toPaper(now))
	}
	return papers, nil
}

// efetch XML structures, following the PubmedArticleSet DTD.
type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string         `xml:"PMID"`
	Article medlineArticle `xml:"Article"`
}

type medlineArticle struct {
	Title    string         `xml:"ArticleTitle"`
	Journal  medlineJournal `xml:"Journal"`
	Authors  []xmlAuthor    `xml:"AuthorList>Author"`
	Abstract xmlAbstract    `xml:"Abstract"`
}

type medlineJournal struct {
	Title   string     `xml:"Title"`
	PubDate xmlPubDate `xml:"JournalIssue>PubDate"`
}

type xmlPubDate struct {
	Year  string `xml:"Year"`
	Month string `xml:"Month"`
	Day   string `xml:"Day"`

	// MedlineDate replaces Year/Month/Day for irregular dates
	// (e.g. "2000 Nov-Dec", "1998 Winter").
	MedlineDate string `xml:"MedlineDate"`
}

type xmlAuthor struct {
	LastName       string           `xml:"LastName"`
	ForeName       string           `xml:"ForeName"`
	CollectiveName string           `xml:"CollectiveName"`
	Affiliations   []xmlAffiliation `xml:"AffiliationInfo"`
}

type xmlAffiliation struct {
	Affiliation string `xml:"Affiliation"`
}

type xmlAbstract struct {
	Sections []string `xml:"AbstractText"`
}

func (a pubmedArticle) toPaper(fetchedAt time.Time) types.Paper {
	p := types.Paper{
		PMID:      strings.TrimSpace(a.Citation.PMID),
		Title:     strings.TrimSpace(a.Citation.Article.Title),
		Journal:   strings.TrimSpace(a.Citation.Article.Journal.Title),
		PubDate:   a.Citation.Article.Journal.PubDate.display(),
		Abstract:  strings.TrimSpace(strings.Join(a.Citation.Article.Abstract.Sections, " ")),
		FetchedAt: fetchedAt,
	}

	for _, au := range a.Citation.Article.Authors {
		author := types.Author{
			LastName:       strings.TrimSpace(au.LastName),
			ForeName:       strings.TrimSpace(au.ForeName),
			CollectiveName: strings.TrimSpace(au.CollectiveName),
		}
		for _, aff := range au.Affiliations {
			if s := strings.TrimSpace(aff.Affiliation); s != "" {
				author.Affiliations = append(author.Affiliations, s)
			}
		}
		if author.DisplayName() == "" {
			continue
		}
		p.Authors = append(p.Authors, author)
	}

	return p
}

// display renders a PubDate as "Year Month Day" with whatever parts exist,
// falling back to the MedlineDate string.
func (d xmlPubDate) display() string {
	if d.Year == "" {
		return strings.TrimSpace(d.MedlineDate)
	}
	parts := []string{d.Year}
	if d.Month != "" {
		parts = append(parts, d.Month)
		if d.Day != "" {
			parts = append(parts, d.Day)
		}
	}
	return strings.Join(parts, " ")
}

// Year extracts the publication year from a display date string, for
// summaries. Returns an empty string when no leading year is present.
func Year(pubDate string) string {
	fields := strings.Fields(pubDate)
	if len(fields) == 0 {
		return ""
	}
	y := fields[0]
	if len(y) != 4 {
		return ""
	}
	for _, r := range y {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return y
}
