// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc-agent/pkg/types"
)

// Manifest is the on-disk record of one scholar run for a single query:
// the query, the attempts in processing order, and summary statistics.
type Manifest struct {
	Query    string          `yaml:"query"`
	Attempts []types.Attempt `yaml:"attempts"`
	Summary  ManifestSummary `yaml:"summary"`
}

// ManifestSummary holds attempt counts and a timestamp.
type ManifestSummary struct {
	Successes int       `yaml:"successes"`
	Failures  int       `yaml:"failures"`
	Skips     int       `yaml:"skips"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewManifest builds a Manifest from a download run.
func NewManifest(query string, attempts []types.Attempt) Manifest {
	m := Manifest{
		Query:    query,
		Attempts: attempts,
		Summary:  ManifestSummary{Timestamp: time.Now()},
	}
	for _, a := range attempts {
		switch a.Status {
		case types.StatusSuccess:
			m.Summary.Successes++
		case types.StatusFail:
			m.Summary.Failures++
		case types.StatusSkip:
			m.Summary.Skips++
		}
	}
	return m
}

// WriteManifest saves the manifest to a YAML file.
func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// FormatAttempts writes attempts as a human-readable table to w.
func FormatAttempts(attempts []types.Attempt, w io.Writer) {
	if len(attempts) == 0 {
		fmt.Fprintln(w, "No download attempts.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-6s  %-7s  %s\n", "#", "Title", "Score", "Status", "Detail")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for i, a := range attempts {
		title := a.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		detail := a.Detail
		if len(detail) > 40 {
			detail = detail[:37] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-50s  %-6.2f  %-7s  %s\n", i+1, title, a.Score, a.Status, detail)
	}
}
