// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research filters a folder of PDFs for topical relevance using
// LLM-generated scores and copies the relevant ones aside.
package research

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/doc-agent/internal/extract"
	"github.com/pdiddy/doc-agent/internal/llm"
	"github.com/pdiddy/doc-agent/pkg/types"
)

// promptTextChars caps how much document text is appended to the query.
const promptTextChars = 3000

// Workflow scores PDFs against a research question and copies the ones
// above the threshold. ExtractText is overridable for tests; nil means
// extract.Text.
type Workflow struct {
	Gen         llm.TextGenerator
	ExtractText func(path string) (string, error)
}

// FilterPDFs scores each path and returns those meeting threshold. A PDF
// that cannot be read or scored is treated as not relevant, logged, and
// skipped; the batch continues.
func (wf *Workflow) FilterPDFs(ctx context.Context, paths []string, threshold float64, query string, w io.Writer) []string {
	extractText := wf.ExtractText
	if extractText == nil {
		extractText = extract.Text
	}

	var relevant []string
	for _, path := range paths {
		text, err := extractText(path)
		if err != nil {
			fmt.Fprintf(w, "skipping %s: %v\n", path, err)
			continue
		}

		prompt := query + "\n\n" + truncateRunes(text, promptTextChars)
		resp, err := wf.Gen.Generate(ctx, prompt)
		if err != nil {
			fmt.Fprintf(w, "skipping %s: scoring failed: %v\n", path, err)
			continue
		}

		score := firstScoreToken(resp)
		fmt.Fprintf(w, "%s scored %.2f\n", path, score)
		if score >= threshold {
			relevant = append(relevant, path)
		}
	}
	return relevant
}

// Run scans cfg.SourceDir for PDFs, filters the relevant ones, and copies
// them into cfg.DestDir. It returns the copied destination paths.
func (wf *Workflow) Run(ctx context.Context, cfg types.ResearchConfig, query string, w io.Writer) ([]string, error) {
	if err := os.MkdirAll(cfg.DestDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("reading source directory %s: %w", cfg.SourceDir, err)
	}

	var pdfs []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}
		pdfs = append(pdfs, filepath.Join(cfg.SourceDir, entry.Name()))
	}

	relevant := wf.FilterPDFs(ctx, pdfs, cfg.Threshold, query, w)

	var copied []string
	for _, src := range relevant {
		dest := filepath.Join(cfg.DestDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			fmt.Fprintf(w, "copy failed %s -> %s: %v\n", src, dest, err)
			continue
		}
		fmt.Fprintf(w, "copied %s -> %s\n", src, dest)
		copied = append(copied, dest)
	}
	return copied, nil
}

// firstScoreToken returns the first whitespace-separated token that parses
// as a float in [0,1], or 0.0 when none does. The conservative default
// excludes rather than wrongly includes a document.
func firstScoreToken(resp string) float64 {
	for _, tok := range strings.Fields(resp) {
		v, err := strconv.ParseFloat(tok, 64)
		if err == nil && v >= 0 && v <= 1 {
			return v
		}
	}
	return 0.0
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
