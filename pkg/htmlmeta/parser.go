// Package htmlmeta extracts preview metadata (title, description, image)
// from arbitrary HTML using ordered heuristic fallbacks. It is the generic
// parser behind the default extractor and the scrape step of every
// platform extractor.
package htmlmeta

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

const (
	minParagraphLen = 50
	minTitleAsDesc  = 20
	minAriaLabelLen = 30
)

// navKeywords matches boilerplate navigation text that must never be used
// as a page description.
var navKeywords = regexp.MustCompile(`(?i)\b(home|menu|skip to|navigation|cookie|sign in|log in|login|subscribe|search|accept all)\b`)

// Parser turns HTML documents into preview metadata. It never fails:
// documents without usable content produce empty fields.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts metadata from html. Relative image URLs are resolved
// against baseURL. The returned value always carries baseURL as its URL.
func (p *Parser) Parse(html, baseURL string) *metadata.Parsed {
	result := &metadata.Parsed{URL: baseURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return result
	}

	result.Title = extractTitle(doc)
	result.Description = extractDescription(doc, result.Title)
	result.Image = extractImage(doc, baseURL)
	return result
}

// extractTitle applies the title fallback chain: og:title, <title>, first
// <h1>, meta[name=title], then the first non-empty h2..h6 heading.
func extractTitle(doc *goquery.Document) string {
	if t := metaContent(doc, `meta[property="og:title"]`); t != "" {
		return t
	}
	if t := metadata.SanitizeText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := metadata.SanitizeText(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := metaContent(doc, `meta[name="title"]`); t != "" {
		return t
	}

	var heading string
	doc.Find("h2, h3, h4, h5, h6").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := metadata.SanitizeText(s.Text()); t != "" {
			heading = t
			return false
		}
		return true
	})
	return heading
}

// extractDescription applies the description fallback chain: og:description,
// meta description, first meaningful paragraph, meta keywords, a long page
// title, and finally a long aria-label from main-content regions.
func extractDescription(doc *goquery.Document, title string) string {
	if d := metaContent(doc, `meta[property="og:description"]`); d != "" {
		return d
	}
	if d := metaContent(doc, `meta[name="description"]`); d != "" {
		return d
	}
	if d := meaningfulParagraph(doc); d != "" {
		return d
	}
	if d := metaContent(doc, `meta[name="keywords"]`); d != "" {
		return d
	}
	if len(title) >= minTitleAsDesc {
		return title
	}

	var label string
	doc.Find("main [aria-label], article [aria-label], section [aria-label]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v := metadata.SanitizeText(s.AttrOr("aria-label", ""))
		if len(v) >= minAriaLabelLen {
			label = v
			return false
		}
		return true
	})
	return label
}

// meaningfulParagraph finds the first paragraph long enough to describe the
// page and free of navigation boilerplate. Paragraphs inside main-content
// containers are preferred over the rest of the document.
func meaningfulParagraph(doc *goquery.Document) string {
	for _, selector := range []string{"main p, article p, section p", "p"} {
		var found string
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := metadata.SanitizeText(s.Text())
			if len(text) >= minParagraphLen && !navKeywords.MatchString(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// metaContent returns the sanitized content attribute of the first element
// matching selector.
func metaContent(doc *goquery.Document, selector string) string {
	content, ok := doc.Find(selector).First().Attr("content")
	if !ok {
		return ""
	}
	return metadata.SanitizeText(content)
}

// resolveImage makes an image URL absolute, dropping data: URIs.
func resolveImage(baseURL, src string) string {
	src = strings.TrimSpace(src)
	if src == "" || strings.HasPrefix(src, "data:") {
		return ""
	}
	return urlutils.ResolveURL(baseURL, src)
}
