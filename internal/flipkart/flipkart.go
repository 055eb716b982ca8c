// Package flipkart extracts preview metadata for Flipkart product and
// search links. Flipkart search URLs carry the query text verbatim, so a
// readable title is recoverable without any network round trip.
package flipkart

import (
	"context"
	"net/url"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles flipkart.com links.
type Extractor struct {
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates the Flipkart extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	return &Extractor{client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.Flipkart
}

// CanHandle accepts URLs detected as Flipkart.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.Flipkart
}

// Extract runs the chain: OG scrape, URL inference, default. Never
// returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrape(ctx, pageURL) },
		func(context.Context) *metadata.Parsed { return InferFromURL(pageURL) },
		func(ctx context.Context) *metadata.Parsed {
			return extractors.Fallthrough(ctx, e.fallback, pageURL)
		},
	)
	if result == nil {
		result = &metadata.Parsed{URL: pageURL}
	}
	return result, nil
}

func (e *Extractor) scrape(ctx context.Context, pageURL string) *metadata.Parsed {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil
	}
	return e.parser.Parse(res.Body, res.FinalURL)
}

// InferFromURL recovers a title from the URL alone: the search query
// (?text= or ?q=) when present, otherwise the humanized product slug.
// Product URLs look like /<slug>/p/<item>.
func InferFromURL(pageURL string) *metadata.Parsed {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	if query := urlutils.QueryParam(u, "text", "q"); query != "" {
		return &metadata.Parsed{Title: metadata.SanitizeText(query), URL: pageURL}
	}

	segments := urlutils.PathSegments(u)
	if len(segments) >= 2 && segments[1] == "p" {
		if title := urlutils.HumanizeSlug(segments[0]); title != "" {
			return &metadata.Parsed{Title: title, URL: pageURL}
		}
	}
	if len(segments) > 0 {
		if title := urlutils.HumanizeSlug(segments[len(segments)-1]); title != "" {
			return &metadata.Parsed{Title: title, URL: pageURL}
		}
	}
	return nil
}
