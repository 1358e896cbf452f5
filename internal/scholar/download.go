// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/doc-agent/internal/score"
	"github.com/pdiddy/doc-agent/pkg/types"
)

// DefaultDownloadTimeout bounds a single PDF fetch.
const DefaultDownloadTimeout = 20 * time.Second

// Engine downloads selected candidates and backfills failed slots from the
// wider candidate pool, keeping the successful-download budget pursued
// until the pool runs dry.
type Engine struct {
	Client   *http.Client
	Scorer   *score.Scorer
	Resolver LandingResolver

	// UserAgent is sent with download requests.
	UserAgent string
}

// NewEngine returns an Engine with the default 20s download timeout and
// the stub landing resolver.
func NewEngine(s *score.Scorer, userAgent string) *Engine {
	return &Engine{
		Client:    &http.Client{Timeout: DefaultDownloadTimeout},
		Scorer:    s,
		Resolver:  NoopResolver{},
		UserAgent: userAgent,
	}
}

// Download works through a FIFO queue seeded with the selected candidates.
// Direct-PDF links are fetched; a fetch succeeds only on HTTP 200 with an
// application/pdf content type, and the bytes land in
// destDir/{index}_{sanitizedTitle}.pdf. Any failed or unresolvable item
// triggers a backfill: every unused .pdf candidate in pool is scored and
// the best one is appended to the queue tail (FIFO discovery order is kept,
// backfilled items are not re-prioritized). A link enters the used set the
// moment it is queued, so a failed candidate can never be chosen as its own
// replacement.
//
// The loop stops once maxAttempts downloads have succeeded or the queue is
// exhausted. Every dequeued item produces exactly one manifest record.
func (e *Engine) Download(ctx context.Context, selected, pool []types.Candidate, query, destDir string, maxAttempts int, w io.Writer) ([]types.Attempt, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating download directory: %w", err)
	}

	queue := make([]types.Candidate, len(selected))
	copy(queue, selected)

	used := make(map[string]bool)
	for _, c := range selected {
		if c.Link != "" {
			used[c.Link] = true
		}
	}

	var manifest []types.Attempt
	successes := 0

	for idx := 0; successes < maxAttempts && idx < len(queue); idx++ {
		c := queue[idx]

		pdfURL := ""
		switch {
		case isPDFLink(c.Link):
			pdfURL = c.Link
		case c.Link != "":
			resolved, err := e.Resolver.ResolvePDF(ctx, c.Link)
			if err == nil && resolved != "" {
				pdfURL = resolved
			}
		}

		if pdfURL == "" {
			fmt.Fprintf(w, "skip: no downloadable PDF for %q\n   %s\n", c.Title, c.Link)
			manifest = append(manifest, types.Attempt{
				Candidate: c,
				Status:    types.StatusSkip,
				Detail:    "not a direct PDF link",
			})
			e.backfill(ctx, pool, used, query, &queue, w)
			continue
		}

		path := filepath.Join(destDir, fmt.Sprintf("%d_%s.pdf", successes+1, SanitizeTitle(c.Title)))
		if err := e.fetchPDF(ctx, pdfURL, path); err != nil {
			fmt.Fprintf(w, "fail: %q\n   %s\n   %v\n", c.Title, pdfURL, err)
			attempt := types.Attempt{Candidate: c, Status: types.StatusFail, Detail: err.Error()}
			attempt.Link = pdfURL
			manifest = append(manifest, attempt)
			e.backfill(ctx, pool, used, query, &queue, w)
			continue
		}

		fmt.Fprintf(w, "downloaded: %q\n   %s\n", c.Title, pdfURL)
		attempt := types.Attempt{Candidate: c, Status: types.StatusSuccess, Detail: path}
		attempt.Link = pdfURL
		manifest = append(manifest, attempt)
		successes++
	}

	return manifest, nil
}

// backfill scores every unused PDF candidate in pool and appends the best
// one to the queue. No unused candidate left means the queue simply
// shrinks. This is the expensive path: each remaining pool candidate costs
// one rate-limited scoring call.
func (e *Engine) backfill(ctx context.Context, pool []types.Candidate, used map[string]bool, query string, queue *[]types.Candidate, w io.Writer) {
	var unused []types.Candidate
	for _, c := range pool {
		if isPDFLink(c.Link) && !used[c.Link] {
			unused = append(unused, c)
		}
	}
	if len(unused) == 0 {
		fmt.Fprintln(w, "backfill: no more PDF candidates available")
		return
	}

	for i := range unused {
		unused[i].Score = e.Scorer.Score(ctx, query, unused[i].Title, w)
	}
	sort.SliceStable(unused, func(i, j int) bool {
		return unused[i].Score > unused[j].Score
	})

	best := unused[0]
	used[best.Link] = true
	*queue = append(*queue, best)
	fmt.Fprintf(w, "backfill: queued replacement %q (score %.2f)\n   %s\n", best.Title, best.Score, best.Link)
}

// fetchPDF downloads url to destPath through a temp file, renaming only on
// a complete write. Success requires HTTP 200 and a PDF content type.
func (e *Engine) fetchPDF(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/pdf") {
		return fmt.Errorf("not a PDF content type: %q", ct)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// isPDFLink reports whether link points directly at a PDF.
func isPDFLink(link string) bool {
	return link != "" && strings.HasSuffix(strings.ToLower(link), ".pdf")
}

// invalidTitleChars matches characters that cannot appear in filenames.
var invalidTitleChars = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeTitle turns a paper title into a filesystem-safe name, capped at
// 100 bytes.
func SanitizeTitle(title string) string {
	name := invalidTitleChars.ReplaceAllString(title, "")
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
