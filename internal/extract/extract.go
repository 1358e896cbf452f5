// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls plain text out of documents for LLM prompting.
// Plain-text files are read directly; PDF and DOCX go through docconv.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// Extractor pulls the text content out of one document. Implementations
// exist per file format.
type Extractor interface {
	Extract(path string) (string, error)
}

// extractors maps a lowercase file extension to its extractor.
var extractors = map[string]Extractor{
	".txt":  textExtractor{},
	".pdf":  docconvExtractor{},
	".docx": docconvExtractor{},
}

// SupportedExtensions returns the extensions the package can handle.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	return exts
}

// ForPath returns the extractor for the file's extension, or an error for
// unsupported formats.
func ForPath(path string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := extractors[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported document type %q", ext)
	}
	return e, nil
}

// Text extracts the text of the document at path using the extractor for
// its extension.
func Text(path string) (string, error) {
	e, err := ForPath(path)
	if err != nil {
		return "", err
	}
	return e.Extract(path)
}

// textExtractor reads plain-text files as-is.
type textExtractor struct{}

func (textExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file %s: %w", path, err)
	}
	return string(data), nil
}

// docconvExtractor converts rich document formats via docconv.
type docconvExtractor struct{}

func (docconvExtractor) Extract(path string) (string, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", path, err)
	}
	if strings.TrimSpace(res.Body) == "" {
		return "", fmt.Errorf("no readable text in %s", path)
	}
	return res.Body, nil
}
