package htmlmeta

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const minImageDimension = 200

// logoKeywords flags class/id/alt values that indicate branding imagery
// rather than page content.
var logoKeywords = regexp.MustCompile(`(?i)\b(logo|brand|icon|favicon|sprite|badge|avatar)\b`)

// logoSrcPattern flags filenames that are almost certainly site chrome.
var logoSrcPattern = regexp.MustCompile(`(?i)(favicon|logo|icon|sprite)[^/]*\.(png|svg|ico|gif|jpe?g|webp)`)

// extractImage applies the image fallback chain: og:image first, then the
// best-scoring content image in the document body.
func extractImage(doc *goquery.Document, baseURL string) string {
	if og := metaContent(doc, `meta[property="og:image"]`); og != "" {
		if resolved := resolveImage(baseURL, og); resolved != "" {
			return resolved
		}
	}
	return bestBodyImage(doc, baseURL)
}

// bestBodyImage scores candidate <img> elements and returns the winner.
// Declared dimensions score as width*height; images without dimensions get
// a position-based proxy score that favors earlier images. Ties keep the
// earliest candidate.
func bestBodyImage(doc *goquery.Document, baseURL string) string {
	scope := doc.Find("body")
	if scope.Length() == 0 {
		scope = doc.Selection
	}

	var best string
	bestScore := -1

	scope.Find("img").Each(func(i int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if src == "" {
			src = img.AttrOr("data-src", "")
		}
		resolved := resolveImage(baseURL, src)
		if resolved == "" {
			return
		}
		if isLikelyLogo(img, src) {
			return
		}

		score := positionScore(i)
		w, wok := dimension(img, "width")
		h, hok := dimension(img, "height")
		if wok && hok {
			score = w * h
		}

		if score > bestScore {
			bestScore = score
			best = resolved
		}
	})

	return best
}

// isLikelyLogo excludes branding imagery: logo-flagged attributes, icon-like
// filenames, placement inside header/footer/nav, or declared dimensions
// below the content threshold.
func isLikelyLogo(img *goquery.Selection, src string) bool {
	attrs := strings.Join([]string{
		img.AttrOr("class", ""),
		img.AttrOr("id", ""),
		img.AttrOr("alt", ""),
	}, " ")
	if logoKeywords.MatchString(attrs) {
		return true
	}
	if logoSrcPattern.MatchString(src) {
		return true
	}
	if img.ParentsFiltered("header, footer, nav").Length() > 0 {
		return true
	}

	w, wok := dimension(img, "width")
	h, hok := dimension(img, "height")
	if wok && w < minImageDimension {
		return true
	}
	if hok && h < minImageDimension {
		return true
	}
	return false
}

// positionScore ranks dimensionless images by document order, earlier wins.
func positionScore(index int) int {
	score := 10000 - index*100
	if score < 1 {
		score = 1
	}
	return score
}

// dimension parses a declared width/height attribute, tolerating a "px"
// suffix. CSS-relative values ("100%", "auto") do not count as declared.
func dimension(img *goquery.Selection, attr string) (int, bool) {
	raw := strings.TrimSpace(img.AttrOr(attr, ""))
	raw = strings.TrimSuffix(raw, "px")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
