// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rename

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/doc-agent/pkg/types"
)

type fixedGen struct {
	name string
	err  error
}

func (g fixedGen) Generate(context.Context, string) (string, error) {
	return g.name, g.err
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_RenamesFile(t *testing.T) {
	dir := t.TempDir()
	old := writeDoc(t, dir, "untitled.txt", "quarterly budget discussion")

	wf := &Workflow{Gen: fixedGen{name: "Quarterly Budget"}}
	results, err := wf.Run(context.Background(), types.RenameConfig{TargetDir: dir}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v, want one rename", results)
	}
	want := filepath.Join(dir, "Quarterly_Budget.txt")
	if results[0].OldPath != old || results[0].NewPath != want {
		t.Errorf("result = %+v, want %s -> %s", results[0], old, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Errorf("old path still present")
	}
}

func TestRun_DryRunLeavesFiles(t *testing.T) {
	dir := t.TempDir()
	old := writeDoc(t, dir, "untitled.txt", "content")

	wf := &Workflow{Gen: fixedGen{name: "Renamed_Document"}}
	results, err := wf.Run(context.Background(), types.RenameConfig{TargetDir: dir, DryRun: true}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v, want one planned rename", results)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
}

func TestRun_GenerationFailureSkipsFile(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "untitled.txt", "content")

	wf := &Workflow{Gen: fixedGen{err: errors.New("api down")}}
	var out bytes.Buffer
	results, err := wf.Run(context.Background(), types.RenameConfig{TargetDir: dir}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		ext  string
		want string
	}{
		{"spaces", "Annual Report 2026", ".pdf", "Annual_Report_2026.pdf"},
		{"punctuation stripped", "Budget: Q1/Q2!", ".txt", "Budget_Q1Q2.txt"},
		{"extension preserved", "notes.txt", ".txt", "notes.txt"},
		{"hyphens kept", "meeting-notes", ".docx", "meeting-notes.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in, tt.ext); got != tt.want {
				t.Errorf("SanitizeName(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
			}
		})
	}
}

func TestResolveCollision(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "report.txt", "a")
	writeDoc(t, dir, "report_1.txt", "b")

	if got := ResolveCollision(dir, "report.txt"); got != "report_2.txt" {
		t.Errorf("ResolveCollision() = %q, want report_2.txt", got)
	}
	if got := ResolveCollision(dir, "fresh.txt"); got != "fresh.txt" {
		t.Errorf("ResolveCollision() = %q, want fresh.txt", got)
	}
}

func TestScanFiles(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "x")
	writeDoc(t, dir, "b.csv", "x")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeDoc(t, sub, "c.TXT", "x")

	got, err := ScanFiles(dir, []string{".txt"})
	if err != nil {
		t.Fatalf("ScanFiles() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ScanFiles() = %v, want the two .txt files", got)
	}
}
