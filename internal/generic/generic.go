// Package generic implements the default extractor: a direct page fetch
// run through the heuristic HTML parser. It backs every unrecognized URL
// and is the last strategy of each platform extractor's chain.
package generic

import (
	"context"
	"net/url"

	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
)

var _ extractors.Extractor = (*Extractor)(nil)

// Extractor fetches the page and parses it heuristically. Unlike platform
// extractors it reports its fetch failure to the caller: when the default
// extractor was the selected route, that failure is the request's outcome.
type Extractor struct {
	client *fetch.Client
	parser *htmlmeta.Parser
}

// New creates the default extractor.
func New(client *fetch.Client, parser *htmlmeta.Parser) *Extractor {
	return &Extractor{client: client, parser: parser}
}

// Platform returns None; the default extractor serves every platform.
func (e *Extractor) Platform() platform.Platform {
	return platform.None
}

// CanHandle accepts any URL.
func (e *Extractor) CanHandle(_ *url.URL) bool {
	return true
}

// Extract fetches pageURL and runs the generic parser over the body.
// Parsed metadata may be empty; that is a valid degraded outcome, not an
// error.
func (e *Extractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	res, err := e.client.FetchHTML(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return e.parser.Parse(res.Body, res.FinalURL), nil
}
