// Package urlutils provides URL validation, normalization and URL-structure
// inference helpers.
package urlutils

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when input cannot be used as an absolute
// http(s) URL.
var ErrInvalidURL = errors.New("invalid URL")

// Normalize validates raw input and returns its canonical string form.
// Only absolute http/https URLs are accepted. Normalize is idempotent:
// Normalize(Normalize(u)) == Normalize(u).
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// IsValidURL checks if a URL is valid
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ResolveURL resolves a relative URL against a base URL. If the URL is
// already absolute it is returned unchanged; if resolution fails the
// relative URL is returned as-is (non-fatal degradation, used for images).
func ResolveURL(baseURL, relativeURL string) string {
	rel, err := url.Parse(strings.TrimSpace(relativeURL))
	if err != nil {
		return relativeURL
	}
	if rel.IsAbs() {
		return rel.String()
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return relativeURL
	}
	return base.ResolveReference(rel).String()
}

// Hostname extracts the lower-cased hostname of a URL with any leading
// "www." stripped. Returns "" for unparseable input.
func Hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// HumanizeSlug turns a URL path segment like "i-love-this-soundbar" or
// "some_product_name" into readable text.
func HumanizeSlug(slug string) string {
	s := strings.NewReplacer("-", " ", "_", " ", "+", " ").Replace(slug)
	if unescaped, err := url.QueryUnescape(s); err == nil {
		s = unescaped
	}
	return strings.Join(strings.Fields(s), " ")
}

// QueryParam returns the first non-empty value among the named query
// parameters of a URL.
func QueryParam(u *url.URL, names ...string) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	for _, name := range names {
		if v := strings.TrimSpace(q.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// PathSegments splits a URL path into its non-empty segments.
func PathSegments(u *url.URL) []string {
	if u == nil {
		return nil
	}
	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
