// Package tags classifies URL/metadata pairs into short labels for the
// saved-link clients. Detection is two-tier: a curated hostname table
// first, then keyword and domain-fragment heuristics over the URL, title
// and description.
package tags

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/link-forge/configs"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

// DefaultTag is substituted by callers when detection finds nothing.
const DefaultTag = "general"

// hostnameRule maps hostname fragments to a canonical tag.
type hostnameRule struct {
	Tag   string   `yaml:"tag"`
	Hosts []string `yaml:"hosts"`
}

// categoryRule matches domain fragments and content keywords.
type categoryRule struct {
	Tag      string   `yaml:"tag"`
	Domains  []string `yaml:"domains"`
	Keywords []string `yaml:"keywords"`
}

type tagTable struct {
	Hostnames  []hostnameRule `yaml:"hostnames"`
	Categories []categoryRule `yaml:"categories"`
}

// Detector classifies URLs using the embedded tag table.
type Detector struct {
	table tagTable
}

// New loads the embedded tag table.
func New() (*Detector, error) {
	raw, err := configs.EmbeddedConfigs.ReadFile("tags.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded tag table: %w", err)
	}

	var table tagTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parsing tag table: %w", err)
	}
	return &Detector{table: table}, nil
}

// Detect returns a short classification label for the URL, or "" when
// nothing matches. meta may be nil.
func (d *Detector) Detect(rawURL string, meta *metadata.Parsed) string {
	host := urlutils.Hostname(rawURL)

	for _, rule := range d.table.Hostnames {
		for _, fragment := range rule.Hosts {
			if matchHost(host, fragment) {
				return rule.Tag
			}
		}
	}

	haystack := strings.ToLower(rawURL)
	if meta != nil {
		haystack += " " + strings.ToLower(meta.Title) + " " + strings.ToLower(meta.Description)
	}

	for _, rule := range d.table.Categories {
		for _, fragment := range rule.Domains {
			if strings.Contains(host, fragment) {
				return rule.Tag
			}
		}
		for _, keyword := range rule.Keywords {
			if strings.Contains(haystack, keyword) {
				return rule.Tag
			}
		}
	}
	return ""
}

// DetectOrDefault is Detect with the "general" fallback applied.
func (d *Detector) DetectOrDefault(rawURL string, meta *metadata.Parsed) string {
	if tag := d.Detect(rawURL, meta); tag != "" {
		return tag
	}
	return DefaultTag
}

// matchHost matches a hostname against a table fragment. Fragments ending
// in "." (like "amazon.") match any TLD; others match the host itself or
// any subdomain of it.
func matchHost(host, fragment string) bool {
	if host == "" || fragment == "" {
		return false
	}
	if strings.HasSuffix(fragment, ".") {
		return strings.Contains(host, fragment)
	}
	return host == fragment || strings.HasSuffix(host, "."+fragment)
}
