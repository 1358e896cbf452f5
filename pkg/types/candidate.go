// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the doc-agent pipeline:
// scraped paper candidates, download attempt records, and the per-stage
// configuration structs consumed by the cmd layer.
package types

// Candidate is a paper discovered by the scholar search: a title, a link
// (possibly empty when the result carried no anchor), and a relevance score
// assigned lazily by the scorer. Candidate identity is the link value; two
// candidates with empty links are never considered the same paper.
type Candidate struct {
	// Title is the result title as rendered by the search surface.
	Title string `json:"title" yaml:"title"`

	// Link is the destination URL of the result, or "" if none was found.
	Link string `json:"link" yaml:"link"`

	// Score is the LLM relevance score in [0,1]. Zero until scored.
	Score float64 `json:"score" yaml:"score"`
}

// AttemptStatus is the outcome of a single download attempt.
type AttemptStatus string

const (
	// StatusSuccess means the PDF was fetched and written to disk.
	StatusSuccess AttemptStatus = "success"

	// StatusFail means the fetch was attempted and failed (bad status,
	// wrong content type, or transport error).
	StatusFail AttemptStatus = "fail"

	// StatusSkip means the candidate was never fetched because no
	// downloadable PDF link could be resolved for it.
	StatusSkip AttemptStatus = "skip"
)

// Attempt records one download attempt. The manifest returned by the
// download engine holds one Attempt per dequeued work item, in processing
// order; callers wanting only downloaded files filter by Status.
type Attempt struct {
	Candidate `yaml:",inline"`

	// Status is the attempt outcome: success, fail, or skip.
	Status AttemptStatus `json:"status" yaml:"status"`

	// Detail is the written artifact path on success, or the failure
	// reason otherwise.
	Detail string `json:"detail" yaml:"detail"`
}
