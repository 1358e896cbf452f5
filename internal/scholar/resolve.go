// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import "context"

// LandingResolver tries to find a downloadable PDF URL on a result's
// landing page. Implementations return ("", nil) when no PDF could be
// resolved; that is not an error, the candidate is handled link-as-is at
// download time.
type LandingResolver interface {
	ResolvePDF(ctx context.Context, pageURL string) (string, error)
}

// NoopResolver is the current landing-page resolution hook: an explicitly
// unimplemented extension point that never finds a PDF.
type NoopResolver struct{}

// ResolvePDF always reports no PDF found.
func (NoopResolver) ResolvePDF(context.Context, string) (string, error) {
	return "", nil
}
