// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/doc-agent/pkg/types"
)

func TestNewManifestTallies(t *testing.T) {
	attempts := []types.Attempt{
		{Candidate: types.Candidate{Title: "A"}, Status: types.StatusSuccess},
		{Candidate: types.Candidate{Title: "B"}, Status: types.StatusFail},
		{Candidate: types.Candidate{Title: "C"}, Status: types.StatusFail},
		{Candidate: types.Candidate{Title: "D"}, Status: types.StatusSkip},
	}

	m := NewManifest("quantum sensing", attempts)
	if m.Query != "quantum sensing" {
		t.Errorf("query = %q", m.Query)
	}
	if m.Summary.Successes != 1 || m.Summary.Failures != 2 || m.Summary.Skips != 1 {
		t.Errorf("summary = %+v", m.Summary)
	}
	if m.Summary.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestManifestRoundTrip(t *testing.T) {
	m := NewManifest("graph embeddings", []types.Attempt{
		{
			Candidate: types.Candidate{Title: "Paper", Link: "http://x/p.pdf", Score: 0.8},
			Status:    types.StatusSuccess,
			Detail:    "1_Paper.pdf",
		},
	})

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	got, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if got.Query != m.Query {
		t.Errorf("query = %q, want %q", got.Query, m.Query)
	}
	if len(got.Attempts) != 1 || got.Attempts[0].Link != "http://x/p.pdf" {
		t.Errorf("attempts = %+v", got.Attempts)
	}
	if got.Summary.Successes != 1 {
		t.Errorf("successes = %d", got.Summary.Successes)
	}
}

func TestFormatAttempts(t *testing.T) {
	var buf bytes.Buffer
	FormatAttempts(nil, &buf)
	if !strings.Contains(buf.String(), "No download attempts.") {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	FormatAttempts([]types.Attempt{
		{Candidate: types.Candidate{Title: "Short", Score: 0.5}, Status: types.StatusSuccess, Detail: "ok"},
		{Candidate: types.Candidate{Title: strings.Repeat("Long", 20)}, Status: types.StatusSkip},
	}, &buf)
	out := buf.String()
	if !strings.Contains(out, "Short") || !strings.Contains(out, "success") {
		t.Errorf("output missing rows: %q", out)
	}
	if !strings.Contains(out, "...") {
		t.Errorf("long title not truncated: %q", out)
	}
}
