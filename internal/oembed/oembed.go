// Package oembed implements extractors for platforms exposing an oEmbed
// endpoint: YouTube, Spotify and Twitter. One shared client handles the
// provider call; each extractor only differs in endpoint and platform.
package oembed

import (
	"context"
	"net/url"
	"time"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

// apiTimeout bounds the provider API call; stricter than a page fetch
// since oEmbed endpoints are fast when they work at all.
const apiTimeout = 5 * time.Second

var _ extractors.Extractor = (*Extractor)(nil)

// response is the subset of the oEmbed payload the preview needs.
type response struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Extractor resolves preview metadata through a provider oEmbed endpoint,
// falling through to the default extractor when the provider call yields
// nothing usable.
type Extractor struct {
	platform platform.Platform
	endpoint string
	client   *fetch.Client
	fallback extractors.Extractor
}

// NewYouTube creates the YouTube oEmbed extractor.
func NewYouTube(client *fetch.Client, fallback extractors.Extractor) *Extractor {
	return &Extractor{
		platform: platform.YouTube,
		endpoint: "https://www.youtube.com/oembed",
		client:   client,
		fallback: fallback,
	}
}

// NewSpotify creates the Spotify oEmbed extractor.
func NewSpotify(client *fetch.Client, fallback extractors.Extractor) *Extractor {
	return &Extractor{
		platform: platform.Spotify,
		endpoint: "https://open.spotify.com/oembed",
		client:   client,
		fallback: fallback,
	}
}

// NewTwitter creates the Twitter/X oEmbed extractor.
func NewTwitter(client *fetch.Client, fallback extractors.Extractor) *Extractor {
	return &Extractor{
		platform: platform.Twitter,
		endpoint: "https://publish.twitter.com/oembed",
		client:   client,
		fallback: fallback,
	}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return e.platform
}

// CanHandle accepts URLs detected as this extractor's platform.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == e.platform
}

// Extract tries the provider endpoint first, then the default extractor.
// It never returns an error: a dead provider degrades to whatever the
// fallback can produce, at worst an empty result.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.callProvider(ctx, pageURL) },
		func(ctx context.Context) *metadata.Parsed {
			return extractors.Fallthrough(ctx, e.fallback, pageURL)
		},
	)
	if result == nil {
		result = &metadata.Parsed{URL: pageURL}
	}
	return result, nil
}

// callProvider performs the oEmbed request and maps the payload onto
// preview metadata.
func (e *Extractor) callProvider(ctx context.Context, pageURL string) *metadata.Parsed {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	endpoint := e.endpoint + "?format=json&url=" + url.QueryEscape(pageURL)

	var payload response
	if err := e.client.GetJSON(ctx, endpoint, &payload); err != nil {
		return nil
	}

	title := metadata.SanitizeText(payload.Title)
	if title == "" {
		title = metadata.SanitizeText(payload.AuthorName)
	}

	return &metadata.Parsed{
		Title:       title,
		Description: synthesizeDescription(payload),
		Image:       resolveThumbnail(pageURL, payload.ThumbnailURL),
		URL:         pageURL,
	}
}

// synthesizeDescription builds a description from the author and provider
// names; oEmbed payloads carry no description field of their own.
func synthesizeDescription(payload response) string {
	author := metadata.SanitizeText(payload.AuthorName)
	provider := metadata.SanitizeText(payload.ProviderName)

	switch {
	case author != "" && provider != "":
		return "By " + author + " on " + provider
	case author != "":
		return "By " + author
	case provider != "":
		return provider
	default:
		return ""
	}
}

// resolveThumbnail makes the thumbnail absolute against the page URL.
func resolveThumbnail(pageURL, thumbnail string) string {
	if thumbnail == "" {
		return ""
	}
	return urlutils.ResolveURL(pageURL, thumbnail)
}
