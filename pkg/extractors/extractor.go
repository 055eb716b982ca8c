// Package extractors defines the extraction capability contract and the
// registry that routes URLs to platform extractors.
package extractors

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
)

// Extractor is the capability every platform family implements. Extract
// must not fail for platform extractors: internal strategy failures fall
// through until something (at worst an empty result) is produced. Only the
// default extractor may return an error, which surfaces as an upstream
// fetch failure.
type Extractor interface {
	// Platform identifies which platform family this extractor serves.
	Platform() platform.Platform

	// CanHandle reports whether the extractor accepts the URL. The
	// registry double-checks this after platform detection.
	CanHandle(u *url.URL) bool

	// Extract produces preview metadata for the URL.
	Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error)
}

// Strategy is one step of an extractor's fallback chain. A nil or invalid
// result moves the chain to the next step.
type Strategy func(ctx context.Context) *metadata.Parsed

// FirstValid runs strategies in order and returns the first result passing
// the validity check, or nil when every step came up empty.
func FirstValid(ctx context.Context, strategies ...Strategy) *metadata.Parsed {
	for _, strategy := range strategies {
		if ctx.Err() != nil {
			return nil
		}
		if result := strategy(ctx); result.Valid() {
			return result
		}
	}
	return nil
}

// Fallthrough invokes the fallback extractor, swallowing its error: in a
// platform extractor's chain the default extractor's failure means "no
// metadata", not a request failure.
func Fallthrough(ctx context.Context, fallback Extractor, pageURL string) *metadata.Parsed {
	if fallback == nil {
		return nil
	}
	parsed, err := fallback.Extract(ctx, pageURL)
	if err != nil {
		slog.Debug("fallback extraction failed", "url", pageURL, "error", err)
		return nil
	}
	return parsed
}
