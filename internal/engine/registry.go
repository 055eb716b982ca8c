package engine

import (
	"github.com/lepinkainen/link-forge/internal/blinkit"
	"github.com/lepinkainen/link-forge/internal/facebook"
	"github.com/lepinkainen/link-forge/internal/flipkart"
	"github.com/lepinkainen/link-forge/internal/generic"
	"github.com/lepinkainen/link-forge/internal/instagram"
	"github.com/lepinkainen/link-forge/internal/netflix"
	"github.com/lepinkainen/link-forge/internal/oembed"
	"github.com/lepinkainen/link-forge/internal/reddit"
	"github.com/lepinkainen/link-forge/internal/swiggy"
	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/platform"
)

// NewDefaultRegistry wires every platform extractor around a shared fetch
// client and parser. The generic extractor doubles as the fallback inside
// each platform chain and as the route for undetected hosts.
func NewDefaultRegistry(client *fetch.Client, parser *htmlmeta.Parser) *extractors.Registry {
	fallback := generic.New(client, parser)

	return extractors.NewRegistry(fallback,
		oembed.NewYouTube(client, fallback),
		oembed.NewSpotify(client, fallback),
		oembed.NewTwitter(client, fallback),
		reddit.New(client, parser, fallback),
		instagram.New(client, parser, fallback),
		facebook.New(client, parser, fallback),
		flipkart.New(client, parser, fallback),
		blinkit.New(client, parser, fallback),
		swiggy.New(platform.Swiggy, client, parser, fallback),
		swiggy.New(platform.Instamart, client, parser, fallback),
		netflix.New(client, parser),
	)
}
