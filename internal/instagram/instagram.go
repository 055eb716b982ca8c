// Package instagram extracts preview metadata for Instagram links.
// Instagram's OG tags wrap the caption in platform boilerplate
// ('User on Instagram: "caption"', 'N likes, M comments - ...'), which is
// stripped by pure text transforms before the metadata is returned.
package instagram

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

var (
	// `Username on Instagram: "the caption"`
	titlePattern = regexp.MustCompile(`^(.+?) on Instagram:\s*[\x{201c}"](.*)[\x{201d}"]$`)

	// `123 likes, 4 comments - username on January 1, 2025: "the caption"`
	descriptionPattern = regexp.MustCompile(`^[\d,.KMkm]+ likes?, [\d,.KMkm]+ comments? - .+?:\s*[\x{201c}"](.*)[\x{201d}"]$`)

	// Path segments that identify content URLs rather than profiles.
	contentSegments = map[string]string{
		"p":       "Instagram post",
		"reel":    "Instagram reel",
		"reels":   "Instagram reel",
		"tv":      "Instagram video",
		"stories": "Instagram story",
	}
)

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles instagram.com links.
type Extractor struct {
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates the Instagram extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	return &Extractor{client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.Instagram
}

// CanHandle accepts URLs detected as Instagram.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.Instagram
}

// Extract runs the chain: OG scrape with boilerplate stripping, URL
// inference, default. Never returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrape(ctx, pageURL) },
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

func (e *Extractor) scrape(ctx context.Context, pageURL string) *metadata.Parsed {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil
	}

	parsed := e.parser.Parse(res.Body, res.FinalURL)
	parsed.Title = CleanTitle(parsed.Title)
	parsed.Description = CleanDescription(parsed.Description)
	if isLoginWall(parsed.Title) {
		// A login interstitial, everything scraped from it is boilerplate.
		return nil
	}
	return parsed
}

func isLoginWall(title string) bool {
	lower := strings.ToLower(title)
	return lower == "instagram" || strings.Contains(lower, "log in") || strings.Contains(lower, "login")
}

// CleanTitle strips the 'User on Instagram: "..."' wrapper, returning the
// caption when present and the decoded input otherwise.
func CleanTitle(title string) string {
	if m := titlePattern.FindStringSubmatch(title); m != nil {
		if caption := metadata.SanitizeText(html.UnescapeString(m[2])); caption != "" {
			return caption
		}
		return metadata.SanitizeText(m[1])
	}
	return metadata.SanitizeText(html.UnescapeString(title))
}

// CleanDescription strips the 'N likes, M comments - user on date: "..."'
// wrapper, returning the caption when present and the decoded input
// otherwise.
func CleanDescription(description string) string {
	if m := descriptionPattern.FindStringSubmatch(description); m != nil {
		return metadata.SanitizeText(html.UnescapeString(m[1]))
	}
	return metadata.SanitizeText(html.UnescapeString(description))
}

// inferFromURL produces a minimal label from the URL structure: the
// content type for post/reel URLs, the handle for profile URLs.
func inferFromURL(pageURL string) *metadata.Parsed {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	segments := urlutils.PathSegments(u)
	if len(segments) == 0 {
		return nil
	}

	if label, ok := contentSegments[segments[0]]; ok {
		return &metadata.Parsed{Title: label, URL: pageURL}
	}
	return &metadata.Parsed{Title: "@" + segments[0] + " on Instagram", URL: pageURL}
}
