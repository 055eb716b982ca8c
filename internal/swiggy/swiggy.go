// Package swiggy extracts preview metadata for Swiggy links. The same
// implementation serves both the food-delivery site and its Instamart
// grocery storefront; the engine registers one instance per platform.
package swiggy

import (
	"context"
	"net/url"
	"strings"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

// Path segments that never describe the content itself.
var structuralSegments = map[string]bool{
	"restaurants": true,
	"instamart":   true,
	"city":        true,
	"menu":        true,
	"p":           true,
	"item":        true,
	"category":    true,
}

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles swiggy.com links for one of the two Swiggy platforms.
type Extractor struct {
	platform platform.Platform
	label    string
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates a Swiggy extractor bound to the given platform, which must
// be platform.Swiggy or platform.Instamart.
func New(p platform.Platform, client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	label := "Swiggy"
	if p == platform.Instamart {
		label = "Instamart"
	}
	return &Extractor{platform: p, label: label, client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return e.platform
}

// CanHandle accepts URLs detected as this extractor's platform.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == e.platform
}

// Extract runs the chain: scrape merged with slug inference, slug
// inference alone, default. Never returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrapeMerged(ctx, pageURL) },
		func(context.Context) *metadata.Parsed { return e.inferFromURL(pageURL) },
		func(ctx context.Context) *metadata.Parsed {
			return extractors.Fallthrough(ctx, e.fallback, pageURL)
		},
	)
	if result == nil {
		result = &metadata.Parsed{Title: e.label, URL: pageURL}
	}
	return result, nil
}

func (e *Extractor) scrapeMerged(ctx context.Context, pageURL string) *metadata.Parsed {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil
	}

	parsed := e.parser.Parse(res.Body, res.FinalURL)
	if parsed.Title == "" {
		if inferred := e.inferFromURL(pageURL); inferred != nil {
			parsed.Title = inferred.Title
		}
	}
	return parsed
}

// inferFromURL recovers a title from the first descriptive path segment.
// Restaurant URLs look like /city/<city>/<restaurant-slug>-rest123 or
// /restaurants/<restaurant-slug>-123; Instamart items like
// /instamart/item/<id>?storeId=... or /instamart/category/<slug>.
func (e *Extractor) inferFromURL(pageURL string) *metadata.Parsed {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	segments := urlutils.PathSegments(u)
	for i := 0; i < len(segments); i++ {
		seg := segments[i]
		if strings.EqualFold(seg, "city") {
			i++ // the city name follows
			continue
		}
		if structuralSegments[strings.ToLower(seg)] || looksLikeID(seg) {
			continue
		}
		if title := urlutils.HumanizeSlug(trimIDSuffix(seg)); title != "" {
			return &metadata.Parsed{Title: title + " on " + e.label, URL: pageURL}
		}
	}
	return &metadata.Parsed{Title: e.label, URL: pageURL}
}

// trimIDSuffix drops a trailing numeric id from slugs like
// "pizza-palace-rest456123" or "dominos-pizza-123456".
func trimIDSuffix(slug string) string {
	parts := strings.Split(slug, "-")
	for len(parts) > 1 {
		last := parts[len(parts)-1]
		if looksLikeID(last) || looksLikeID(strings.TrimPrefix(last, "rest")) {
			parts = parts[:len(parts)-1]
			continue
		}
		break
	}
	return strings.Join(parts, "-")
}

func looksLikeID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
