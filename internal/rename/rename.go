// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rename scans a directory for documents, asks the language model
// for a descriptive filename based on their text, and renames them.
package rename

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/pdiddy/doc-agent/internal/extract"
	"github.com/pdiddy/doc-agent/internal/llm"
	"github.com/pdiddy/doc-agent/pkg/types"
)

// namingPromptTmpl asks the model for a bare filename, no extension.
var namingPromptTmpl = template.Must(template.New("naming").Parse(`You are a document naming assistant. Based on the following document text, propose a short, descriptive filename. Use only letters, digits, spaces, and hyphens. Do not include a file extension. Output the filename only.

Document text:
{{.Text}}
`))

// defaultPromptChars caps how much document text goes into the prompt.
const defaultPromptChars = 3000

// Result pairs a file's old path with its new one.
type Result struct {
	OldPath string `json:"old_path" yaml:"old_path"`
	NewPath string `json:"new_path" yaml:"new_path"`
}

// Workflow renames documents using LLM-proposed names. ExtractText is
// overridable for tests; nil means extract.Text.
type Workflow struct {
	Gen         llm.TextGenerator
	ExtractText func(path string) (string, error)
}

// Run scans cfg.TargetDir for supported documents and renames each one.
// Per-file failures (extraction, generation, rename) are logged to w and
// skipped; the pipeline never aborts mid-batch.
func (wf *Workflow) Run(ctx context.Context, cfg types.RenameConfig, w io.Writer) ([]Result, error) {
	exts := cfg.Extensions
	if len(exts) == 0 {
		exts = extract.SupportedExtensions()
	}

	files, err := ScanFiles(cfg.TargetDir, exts)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		fmt.Fprintf(w, "no files found in %s with extensions %v\n", cfg.TargetDir, exts)
		return nil, nil
	}

	promptChars := cfg.PromptChars
	if promptChars <= 0 {
		promptChars = defaultPromptChars
	}

	extractText := wf.ExtractText
	if extractText == nil {
		extractText = extract.Text
	}

	var results []Result
	for _, path := range files {
		text, err := extractText(path)
		if err != nil {
			fmt.Fprintf(w, "skipping %s: %v\n", path, err)
			continue
		}

		prompt, err := renderNamingPrompt(truncateRunes(text, promptChars))
		if err != nil {
			fmt.Fprintf(w, "skipping %s: %v\n", path, err)
			continue
		}

		proposed, err := wf.Gen.Generate(ctx, prompt)
		if err != nil {
			fmt.Fprintf(w, "skipping %s: generation failed: %v\n", path, err)
			continue
		}

		ext := strings.ToLower(filepath.Ext(path))
		dir := filepath.Dir(path)
		newName := ResolveCollision(dir, SanitizeName(strings.TrimSpace(proposed), ext))
		newPath := filepath.Join(dir, newName)

		if !cfg.DryRun {
			if err := os.Rename(path, newPath); err != nil {
				fmt.Fprintf(w, "rename failed %s -> %s: %v\n", path, newPath, err)
				continue
			}
		}
		fmt.Fprintf(w, "%s -> %s\n", path, newPath)
		results = append(results, Result{OldPath: path, NewPath: newPath})
	}
	return results, nil
}

// ScanFiles walks dir recursively and returns files whose extension is in
// exts (case-insensitive).
func ScanFiles(dir string, exts []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, e := range exts {
		wanted[strings.ToLower(e)] = true
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if wanted[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return files, nil
}

// invalidNameChars matches everything except word characters, hyphens, and spaces.
var invalidNameChars = regexp.MustCompile(`[^\w\- ]+`)

// SanitizeName strips invalid characters from a proposed name, replaces
// spaces with underscores, and ensures the extension is present.
func SanitizeName(name, ext string) string {
	name = invalidNameChars.ReplaceAllString(name, "")
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	if !strings.HasSuffix(strings.ToLower(name), ext) {
		name += ext
	}
	return name
}

// ResolveCollision appends _1, _2… counters until filename does not exist
// in dir.
func ResolveCollision(dir, filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	candidate := filename
	for counter := 1; ; counter++ {
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d%s", base, counter, ext)
	}
}

// truncateRunes caps s at n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// renderNamingPrompt executes the naming prompt template.
func renderNamingPrompt(text string) (string, error) {
	var buf bytes.Buffer
	if err := namingPromptTmpl.Execute(&buf, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
