// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package score

import (
	"context"
	"io"
	"sort"

	"github.com/pdiddy/doc-agent/pkg/types"
)

// SelectTop scores every candidate sequentially and returns the n highest
// scorers in descending score order. The sort is stable, so candidates
// with equal scores keep their scraped order. Fewer than n candidates
// means all of them come back.
//
// Scoring is deliberately sequential: the scorer's rate limit would
// serialize concurrent calls anyway.
func SelectTop(ctx context.Context, s *Scorer, query string, candidates []types.Candidate, n int, w io.Writer) []types.Candidate {
	scored := make([]types.Candidate, len(candidates))
	for i, c := range candidates {
		c.Score = s.Score(ctx, query, c.Title, w)
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n > 0 && len(scored) > n {
		scored = scored[:n]
	}
	return scored
}
