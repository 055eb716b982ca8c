// Package netflix extracts preview metadata for Netflix links. Title
// pages behind the login wall expose nothing useful, so the chain bottoms
// out at a static label with the Netflix brand image.
package netflix

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

const (
	defaultTitle = "Netflix"
	defaultImage = "https://assets.nflxext.com/ffe/siteui/common/icons/nficon2016.png"
)

var contentSegments = map[string]string{
	"title": "Netflix title",
	"watch": "Netflix video",
	"browse": "Netflix",
}

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor handles netflix.com links.
type Extractor struct {
	client *fetch.Client
	parser *htmlmeta.Parser
}

// New creates the Netflix extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser) *Extractor {
	return &Extractor{client: client, parser: parser}
}

// Platform implements extractors.Extractor.
func (e *Extractor) Platform() platform.Platform {
	return platform.Netflix
}

// CanHandle accepts URLs detected as Netflix.
func (e *Extractor) CanHandle(u *url.URL) bool {
	return platform.Detect(u) == platform.Netflix
}

// Extract runs the chain: OG scrape, path inference, static label.
// Always produces at least the label; never returns an error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	result := extractors.FirstValid(ctx,
		func(ctx context.Context) *metadata.Parsed { return e.scrape(ctx, pageURL) },
		func(context.Context) *metadata.Parsed { return inferFromURL(pageURL) },
	)
	if result == nil {
		result = &metadata.Parsed{Title: defaultTitle, Image: defaultImage, URL: pageURL}
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

// inferFromURL labels the URL by content type. IDs are numeric so no
// readable title can be recovered from the path.
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
		return &metadata.Parsed{Title: label, Image: defaultImage, URL: pageURL}
	}
	return nil
}
