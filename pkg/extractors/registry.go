package extractors

import (
	"log/slog"
	"net/url"

	"github.com/lepinkainen/link-forge/pkg/platform"
)

// Registry routes URLs to extractors. It is built once at startup and
// read-only afterwards, so request handling needs no locking.
type Registry struct {
	byPlatform map[platform.Platform]Extractor
	fallback   Extractor
}

// NewRegistry builds a registry from a default extractor and the platform
// extractors. A later extractor claiming an already-registered platform is
// ignored.
func NewRegistry(fallback Extractor, platformExtractors ...Extractor) *Registry {
	byPlatform := make(map[platform.Platform]Extractor, len(platformExtractors))
	for _, e := range platformExtractors {
		p := e.Platform()
		if p == platform.None {
			continue
		}
		if _, exists := byPlatform[p]; exists {
			slog.Warn("duplicate extractor registration ignored", "platform", p)
			continue
		}
		byPlatform[p] = e
	}
	return &Registry{byPlatform: byPlatform, fallback: fallback}
}

// Select returns the extractor for a URL. Platform detection and the
// extractor's own CanHandle must agree; any mismatch or unknown platform
// routes to the default extractor.
func (r *Registry) Select(u *url.URL) Extractor {
	p := platform.Detect(u)
	if p == platform.None {
		return r.fallback
	}

	e, ok := r.byPlatform[p]
	if !ok || !e.CanHandle(u) {
		return r.fallback
	}
	return e
}

// Default returns the fallback extractor.
func (r *Registry) Default() Extractor {
	return r.fallback
}
