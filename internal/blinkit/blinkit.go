// Package blinkit extracts preview metadata for Blinkit product links.
// Blinkit product pages are JS-rendered and often expose only partial
// metadata, so scraped fields are merged with a slug-derived title.
package blinkit

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

// Extractor handles blinkit.com links.
type Extractor struct {
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates the Blinkit extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	return &Extractor{client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.BlinkIt
}

// CanHandle accepts URLs detected as Blinkit.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.BlinkIt
}

// Extract runs the chain: scrape merged with slug inference, slug
// inference alone, default. Never returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrapeMerged(ctx, pageURL) },
		func(context.Context) *metadata.Parsed { return inferFromURL(pageURL) },
		func(ctx context.Context) *metadata.Parsed {
			return extractors.Fallthrough(ctx, e.fallback, pageURL)
		},
	)
	if result == nil {
		result = &metadata.Parsed{URL: pageURL}
	}
	return result, nil
}

// scrapeMerged fetches the page and fills a missing title from the URL
// slug, so a description or image scraped from a title-less page still
// yields a complete preview.
func (e *Extractor) scrapeMerged(ctx context.Context, pageURL string) *metadata.Parsed {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil
	}

	parsed := e.parser.Parse(res.Body, res.FinalURL)
	if parsed.Title == "" {
		if inferred := inferFromURL(pageURL); inferred != nil {
			parsed.Title = inferred.Title
		}
	}
	return parsed
}

// inferFromURL recovers a title from the product slug. Product URLs look
// like /prn/<slug>/prid/<id>.
func inferFromURL(pageURL string) *metadata.Parsed {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	segments := urlutils.PathSegments(u)
	for i, seg := range segments {
		if seg == "prn" && i+1 < len(segments) {
			if title := urlutils.HumanizeSlug(segments[i+1]); title != "" {
				return &metadata.Parsed{Title: title, URL: pageURL}
			}
		}
	}
	if len(segments) > 0 {
		if title := urlutils.HumanizeSlug(segments[len(segments)-1]); title != "" {
			return &metadata.Parsed{Title: title, URL: pageURL}
		}
	}
	return nil
}
