// Package metadata defines the preview metadata types shared by every
// extractor and the HTTP layer.
package metadata

import "strings"

// Parsed holds the raw preview fields produced by an extraction strategy.
// Empty fields mean "not found", not an error. Image and URL are always
// absolute when present.
type Parsed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Valid reports whether the result is good enough to stop a fallback chain:
// at least one of title, description or image is non-empty after trimming.
func (p *Parsed) Valid() bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.Title) != "" ||
		strings.TrimSpace(p.Description) != "" ||
		strings.TrimSpace(p.Image) != ""
}

// Record is the final per-request form handed to callers.
type Record struct {
	Parsed
	Tag             string `json:"tag,omitempty"`
	MetadataFetched bool   `json:"metadataFetched"`
}

// NewRecord assembles a Record from an extraction result. MetadataFetched is
// derived purely from the parsed fields; extractors never set it themselves.
func NewRecord(p *Parsed, tag string) Record {
	if p == nil {
		p = &Parsed{}
	}
	return Record{
		Parsed:          *p,
		Tag:             tag,
		MetadataFetched: p.Valid(),
	}
}

// SanitizeText collapses all whitespace runs (including newlines) to single
// spaces and trims the result.
func SanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
