package reddit

import "html"

// listing mirrors one element of Reddit's JSON API response; the endpoint
// returns an array whose first listing holds the post itself.
type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// post is the subset of a Reddit post the preview needs.
type post struct {
	Title     string       `json:"title"`
	Subreddit string       `json:"subreddit"`
	SelfText  string       `json:"selftext"`
	Thumbnail string       `json:"thumbnail"`
	Preview   *previewData `json:"preview,omitempty"`
}

// previewData holds Reddit's preview image variants.
type previewData struct {
	Images []previewImage `json:"images"`
}

type previewImage struct {
	Source imageSource `json:"source"`
}

type imageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// thumbnailSentinels are placeholder values Reddit uses instead of a real
// thumbnail URL.
var thumbnailSentinels = map[string]bool{
	"self":    true,
	"default": true,
	"nsfw":    true,
	"spoiler": true,
	"image":   true,
}

// imageURL returns the best available image: the full preview source
// (HTML-entity-decoded, Reddit double-escapes these URLs) or the thumbnail.
func (p *post) imageURL() string {
	if p.Preview != nil && len(p.Preview.Images) > 0 {
		if src := p.Preview.Images[0].Source.URL; src != "" {
			return html.UnescapeString(src)
		}
	}
	if p.Thumbnail != "" && !thumbnailSentinels[p.Thumbnail] {
		return p.Thumbnail
	}
	return ""
}

// firstPost digs the post out of the listing array.
func firstPost(listings []listing) (post, bool) {
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return post{}, false
	}
	return listings[0].Data.Children[0].Data, true
}
