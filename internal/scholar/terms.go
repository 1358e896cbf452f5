// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar discovers papers on a scholarly search surface, selects
// the most relevant ones, and downloads their PDFs with score-driven
// backfill when individual downloads fail.
package scholar

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// operatorExplanations are boilerplate sentences that survive the other
// filters but are never queries. Matched verbatim.
var operatorExplanations = map[string]bool{
	"AND: Narrows your search (all terms must be present).":       true,
	"OR: Broadens your search (any of the terms can be present).": true,
}

// LoadTerms reads a line-oriented search-terms file and returns the lines
// that look like boolean search queries. Headings, comments, and
// instructional prose are filtered by heuristic; the rules are pattern
// matches, not a parser, and are kept as-is because downstream behavior
// depends on their conservative bias. A missing file is a fatal error.
func LoadTerms(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("search terms file not found: %s", path)
		}
		return nil, fmt.Errorf("opening search terms file: %w", err)
	}
	defer f.Close()

	var terms []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if isQueryLine(line) {
			terms = append(terms, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading search terms file: %w", err)
	}
	return terms, nil
}

// isQueryLine applies the line classification heuristic: a line is kept
// only when it carries a boolean operator together with parentheses or
// quotation marks.
func isQueryLine(line string) bool {
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	// Short all-uppercase lines are section headings.
	if isUpper(line) && len(line) < 40 {
		return false
	}
	if strings.HasPrefix(line, "Example:") ||
		strings.HasPrefix(line, "Pro-Tip:") ||
		strings.HasPrefix(line, "Tips for") ||
		strings.HasSuffix(line, ":") {
		return false
	}
	if operatorExplanations[line] {
		return false
	}

	hasOperator := strings.Contains(line, "AND") || strings.Contains(line, "OR")
	hasParen := strings.Contains(line, "(") || strings.Contains(line, ")")
	hasQuote := strings.Contains(line, `"`)

	return (hasOperator && hasParen) || (hasQuote && hasOperator)
}

// isUpper reports whether line contains at least one cased character and
// no lowercase ones.
func isUpper(line string) bool {
	return line != strings.ToLower(line) && line == strings.ToUpper(line)
}
