// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score rates candidate papers against a search query with an
// external text-generation model and selects the most relevant ones.
package score

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/pdiddy/doc-agent/internal/httputil"
	"github.com/pdiddy/doc-agent/internal/llm"
)

// relevancePromptTmpl asks the model for a bare number in [0,1] so the
// response parses with strconv alone.
var relevancePromptTmpl = template.Must(template.New("relevance").Parse(`You are an expert research assistant. Given the following search query and a paper title, rate the relevance of the paper to the query on a scale from 0 (not relevant) to 1 (highly relevant). Only output a single number between 0 and 1.

Search Query: {{.Query}}
Paper Title: {{.Title}}
`))

const (
	// DefaultMinInterval keeps one agent under a 5-requests/minute quota.
	DefaultMinInterval = 12100 * time.Millisecond

	// DefaultMaxRetries is the per-score attempt budget.
	DefaultMaxRetries = 5
)

// Scorer rates paper titles against a query. The Limiter is owned state:
// two Scorer instances observe the external quota independently. A Scorer
// never returns an error from Score; a candidate it cannot rate is simply
// not relevant.
type Scorer struct {
	Gen        llm.TextGenerator
	Limiter    *httputil.Limiter
	MaxRetries int
}

// NewScorer builds a Scorer with its own rate-limit state. Zero values for
// minInterval and maxRetries select the defaults.
func NewScorer(gen llm.TextGenerator, minInterval time.Duration, maxRetries int) *Scorer {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Scorer{
		Gen:        gen,
		Limiter:    &httputil.Limiter{Interval: minInterval},
		MaxRetries: maxRetries,
	}
}

// Score returns the model's relevance rating for title against query,
// clamped to [0,1]. It waits out the rate-limit interval before the first
// attempt and sleeps the full interval between retries. Transport errors
// and unparseable responses are retried alike; after MaxRetries failed
// attempts the score degrades to 0.0.
//
// The limiter is marked after every generation call that returns, even
// when the response then fails to parse: the quota counts calls made, not
// scores obtained.
func (s *Scorer) Score(ctx context.Context, query, title string, w io.Writer) float64 {
	prompt, err := renderPrompt(query, title)
	if err != nil {
		fmt.Fprintf(w, "warning: rendering relevance prompt: %v\n", err)
		return 0.0
	}

	if err := s.Limiter.Wait(ctx); err != nil {
		return 0.0
	}

	var lastErr error
	for attempt := 1; attempt <= s.MaxRetries; attempt++ {
		if attempt > 1 {
			if err := s.Limiter.Pause(ctx); err != nil {
				return 0.0
			}
		}

		raw, err := s.Gen.Generate(ctx, prompt)
		if err != nil {
			lastErr = err
			fmt.Fprintf(w, "retry %d/%d scoring %q: %v\n", attempt, s.MaxRetries, title, err)
			continue
		}
		s.Limiter.Mark()

		score, err := parseScore(raw)
		if err != nil {
			lastErr = err
			fmt.Fprintf(w, "retry %d/%d scoring %q: %v\n", attempt, s.MaxRetries, title, err)
			continue
		}
		return score
	}

	fmt.Fprintf(w, "could not score %q after %d attempts: %v\n", title, s.MaxRetries, lastErr)
	return 0.0
}

// parseScore converts the model output to a float in [0,1]. Out-of-range
// values are clamped rather than rejected.
func parseScore(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric score response %q", strings.TrimSpace(raw))
	}
	if v < 0 {
		return 0, nil
	}
	if v > 1 {
		return 1, nil
	}
	return v, nil
}

// renderPrompt executes the relevance prompt template.
func renderPrompt(query, title string) (string, error) {
	var buf bytes.Buffer
	err := relevancePromptTmpl.Execute(&buf, struct{ Query, Title string }{Query: query, Title: title})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
