// Package platform maps URL hostnames to the platform families the
// extraction engine knows how to handle.
package platform

import (
	"net/url"
	"strings"
)

// Platform identifies a supported platform family. The zero value None
// routes to the default extractor.
type Platform string

// Known platforms.
const (
	None      Platform = ""
	YouTube   Platform = "youtube"
	Spotify   Platform = "spotify"
	Twitter   Platform = "twitter"
	Reddit    Platform = "reddit"
	Instagram Platform = "instagram"
	Facebook  Platform = "facebook"
	Flipkart  Platform = "flipkart"
	BlinkIt   Platform = "blinkit"
	Swiggy    Platform = "swiggy"
	Instamart Platform = "instamart"
	Netflix   Platform = "netflix"
)

// rule maps hostname suffixes to a platform. refine, when set, may override
// the match with a more specific platform based on the URL path.
type rule struct {
	platform Platform
	hosts    []string
	refine   func(u *url.URL) Platform
}

// rules is evaluated in order; the first hostname match wins.
//
// Instamart is a refinement of Swiggy rather than an independent entry:
// swiggy.com URLs whose path goes through /instamart belong to the more
// specific platform. Keeping the refinement inside the swiggy rule means
// it cannot drift out of sync with the hostname list it depends on.
var rules = []rule{
	{platform: YouTube, hosts: []string{"youtube.com", "youtu.be"}},
	{platform: Spotify, hosts: []string{"spotify.com", "open.spotify.com"}},
	{platform: Twitter, hosts: []string{"twitter.com", "x.com", "t.co"}},
	{platform: Reddit, hosts: []string{"reddit.com", "redd.it"}},
	{platform: Instagram, hosts: []string{"instagram.com", "instagr.am"}},
	{platform: Facebook, hosts: []string{"facebook.com", "fb.com", "fb.watch"}},
	{platform: Flipkart, hosts: []string{"flipkart.com"}},
	{platform: BlinkIt, hosts: []string{"blinkit.com"}},
	{
		platform: Swiggy,
		hosts:    []string{"swiggy.com"},
		refine: func(u *url.URL) Platform {
			if strings.Contains(strings.ToLower(u.Path), "/instamart") {
				return Instamart
			}
			return Swiggy
		},
	},
	{platform: Netflix, hosts: []string{"netflix.com"}},
}

// Detect returns the platform for a URL, or None when no rule matches.
func Detect(u *url.URL) Platform {
	if u == nil {
		return None
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return None
	}

	for _, r := range rules {
		for _, candidate := range r.hosts {
			if host == candidate || strings.HasSuffix(host, "."+candidate) {
				if r.refine != nil {
					return r.refine(u)
				}
				return r.platform
			}
		}
	}
	return None
}

// DetectString is a convenience wrapper over Detect for raw URL strings.
func DetectString(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return None
	}
	return Detect(u)
}
