// Package facebook extracts preview metadata for Facebook links. Facebook
// rarely serves useful OG tags to anonymous clients, so the chain leans on
// boilerplate stripping and URL structure.
package facebook

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
	// `Page Name - 1,234 likes` or trailing `| Facebook` suffixes.
	suffixPattern = regexp.MustCompile(`\s*[|\-\x{2013}]\s*(Facebook|Log in or sign up to view)\s*$`)

	// `Page Name. 1,234 likes · 56 talking about this. About text`
	statsPattern = regexp.MustCompile(`^(.+?)\.\s*[\d,.KMkm]+ likes?(?:\s*\x{b7}\s*[\d,.KMkm]+ talking about this)?\.\s*`)

	contentSegments = map[string]string{
		"watch":   "Facebook video",
		"reel":    "Facebook reel",
		"events":  "Facebook event",
		"groups":  "Facebook group",
		"photo":   "Facebook photo",
		"photos":  "Facebook photo",
		"posts":   "Facebook post",
		"stories": "Facebook story",
	}
)

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles facebook.com and fb.watch links.
type Extractor struct {
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates the Facebook extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	return &Extractor{client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.Facebook
}

// CanHandle accepts URLs detected as Facebook.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.Facebook
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

// CleanTitle drops the '| Facebook' style suffix and decodes entities.
func CleanTitle(title string) string {
	title = html.UnescapeString(title)
	title = suffixPattern.ReplaceAllString(title, "")
	return metadata.SanitizeText(title)
}

// CleanDescription strips the leading 'Page. N likes · M talking about
// this.' stats block, keeping the about text that follows. When the stats
// block is the whole string, the page name is kept.
func CleanDescription(description string) string {
	description = html.UnescapeString(description)
	if m := statsPattern.FindStringSubmatch(description); m != nil {
		rest := metadata.SanitizeText(description[len(m[0]):])
		if rest != "" {
			return rest
		}
		return metadata.SanitizeText(m[1])
	}
	return metadata.SanitizeText(description)
}

func isLoginWall(title string) bool {
	lower := strings.ToLower(title)
	return lower == "facebook" || strings.Contains(lower, "log in") || strings.Contains(lower, "log into facebook")
}

// inferFromURL produces a minimal label from the URL structure: content
// type for known segments, otherwise the page handle.
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
	return &metadata.Parsed{Title: urlutils.HumanizeSlug(segments[0]) + " on Facebook", URL: pageURL}
}
