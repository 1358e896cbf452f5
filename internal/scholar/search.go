// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/doc-agent/pkg/types"
)

// scholarURL is the search surface entry page. Package-level var so tests
// and alternate deployments can point elsewhere.
var scholarURL = "https://scholar.google.com/"

const (
	searchBoxSelector  = `input[name="q"]`
	resultNodeSelector = "div.gs_r.gs_or.gs_scl"
	titleSelector      = "h3.gs_rt"
)

// Searcher scrapes (title, link) candidates from the search surface.
type Searcher struct {
	// NewSession opens the browser session for one search.
	NewSession SessionFactory

	// Resolver resolves non-PDF result links to downloadable PDFs.
	Resolver LandingResolver

	// Sleep is invoked for the randomized render waits. Nil means
	// time.Sleep; tests set a no-op.
	Sleep func(d time.Duration)
}

// NewSearcher returns a Searcher backed by headless Chrome with the stub
// landing resolver.
func NewSearcher() *Searcher {
	return &Searcher{
		NewSession: NewChromeSession,
		Resolver:   NoopResolver{},
	}
}

// Search submits query and scrapes up to numResults candidates from the
// rendered result list. A detected block/challenge page yields an empty
// result and no error: the scraper does not fight anti-bot defenses, it
// fails soft. Individual result nodes that cannot be parsed are skipped.
// The session is always torn down, whatever the outcome.
func (s *Searcher) Search(ctx context.Context, query string, numResults int, w io.Writer) ([]types.Candidate, error) {
	sess, err := s.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening browser session: %w", err)
	}
	defer sess.Close()

	if err := sess.Open(ctx, scholarURL); err != nil {
		return nil, err
	}
	s.pause(2, 4)

	if err := sess.TypeAndSubmit(ctx, searchBoxSelector, query); err != nil {
		return nil, err
	}
	s.pause(2, 4)

	source, err := sess.PageSource(ctx)
	if err != nil {
		return nil, err
	}

	if strings.Contains(strings.ToLower(source), "captcha") {
		fmt.Fprintf(w, "blocked: search surface challenged the query %q\n", query)
		return nil, nil
	}

	candidates, err := s.extract(ctx, source, numResults)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(w, "search completed for %q: %d candidates\n", query, len(candidates))
	return candidates, nil
}

// extract parses the rendered result list out of the page source.
func (s *Searcher) extract(ctx context.Context, source string, numResults int) ([]types.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing result page: %w", err)
	}

	var candidates []types.Candidate
	doc.Find(resultNodeSelector).EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if numResults > 0 && len(candidates) >= numResults {
			return false
		}

		titleNode := node.Find(titleSelector).First()
		if titleNode.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(titleNode.Text())
		if title == "" {
			return true
		}

		link, _ := titleNode.Find("a").First().Attr("href")
		if link != "" && !strings.HasSuffix(strings.ToLower(link), ".pdf") {
			if pdfURL, err := s.Resolver.ResolvePDF(ctx, link); err == nil && pdfURL != "" {
				link = pdfURL
			}
		}

		candidates = append(candidates, types.Candidate{Title: title, Link: link})
		return true
	})

	return candidates, nil
}

// pause sleeps a random duration between min and max seconds, letting
// dynamic content render.
func (s *Searcher) pause(min, max float64) {
	d := time.Duration((min + rand.Float64()*(max-min)) * float64(time.Second))
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}
