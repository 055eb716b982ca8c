// Package reddit extracts preview metadata for Reddit links. Reddit often
// serves a generic landing page to automated fetches, so the HTML scrape is
// backed by the public JSON API (the post URL with ".json" appended) and a
// URL-path inference step.
package reddit

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

const maxDescriptionLen = 300

// genericTitles are landing-page titles Reddit serves to non-browser
// agents; they describe the site, not the post, and must never win.
var genericTitles = []string{
	"Reddit - The heart of the internet",
	"Reddit - Dive into anything",
}

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles reddit.com and redd.it links.
type Extractor struct {
	client   *fetch.Client
	parser   *htmlmeta.Parser
	fallback extractors.Extractor
}

// New creates the Reddit extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser, fallback extractors.Extractor) *Extractor {
	return &Extractor{client: client, parser: parser, fallback: fallback}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.Reddit
}

// CanHandle accepts URLs detected as Reddit.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.Reddit
}

// Extract runs the chain: OG scrape, JSON API, path inference, default.
// Never returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrape(ctx, pageURL) },
		func(ctx context.Context) *metadata.Parsed { return e.fromJSONAPI(ctx, pageURL) },
		func(context.Context) *metadata.Parsed { return inferFromPath(pageURL) },
		func(ctx context.Context) *metadata.Parsed {
			return extractors.Fallthrough(ctx, e.fallback, pageURL)
		},
	)
	if result == nil {
		result = &metadata.Parsed{URL: pageURL}
	}
	return result, nil
}

// scrape parses OG tags from the post page. A generic landing title means
// Reddit served its interstitial instead of the post, so the whole scrape
// is discarded rather than just the title; the parser's own fallbacks would
// otherwise surface more landing-page boilerplate.
func (e *Extractor) scrape(ctx context.Context, pageURL string) *metadata.Parsed {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil
	}

	parsed := e.parser.Parse(res.Body, res.FinalURL)
	if isGenericTitle(parsed.Title) {
		return nil
	}
	return parsed
}

// fromJSONAPI reads the post through Reddit's public JSON endpoint.
func (e *Extractor) fromJSONAPI(ctx context.Context, pageURL string) *metadata.Parsed {
	jsonURL, ok := apiURL(pageURL)
	if !ok {
		return nil
	}

	var listings []listing
	if err := e.client.GetJSON(ctx, jsonURL, &listings); err != nil {
		return nil
	}

	post, ok := firstPost(listings)
	if !ok {
		return nil
	}

	title := metadata.SanitizeText(html.UnescapeString(post.Title))
	if title != "" && post.Subreddit != "" {
		title = fmt.Sprintf("r/%s: %s", post.Subreddit, title)
	}

	description := metadata.SanitizeText(html.UnescapeString(post.SelfText))
	description = metadata.Truncate(description, maxDescriptionLen)

	return &metadata.Parsed{
		Title:       title,
		Description: description,
		Image:       post.imageURL(),
		URL:         pageURL,
	}
}

// apiURL converts a post URL into its JSON API form: the path with ".json"
// appended and the query dropped.
func apiURL(pageURL string) (string, bool) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return "", false
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	if u.Path == "" || strings.HasSuffix(u.Path, ".json") {
		return "", false
	}
	u.Path += ".json"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), true
}

// inferFromPath derives a title from /r/<sub>/comments/<id>/<slug> URLs.
func inferFromPath(pageURL string) *metadata.Parsed {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	segments := urlutils.PathSegments(u)
	if len(segments) < 2 || segments[0] != "r" {
		return nil
	}
	subreddit := segments[1]

	title := "r/" + subreddit
	if len(segments) >= 5 && segments[2] == "comments" {
		if slug := urlutils.HumanizeSlug(segments[4]); slug != "" {
			title = fmt.Sprintf("r/%s: %s", subreddit, slug)
		}
	}

	return &metadata.Parsed{Title: title, URL: pageURL}
}

// isGenericTitle reports whether a scraped title is Reddit's landing-page
// boilerplate rather than the post title.
func isGenericTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	for _, generic := range genericTitles {
		if strings.EqualFold(trimmed, generic) {
			return true
		}
	}
	return false
}
