// Package preview provides interactive preview of extraction results using
// a Bubble Tea TUI.
package preview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lepinkainen/link-forge/pkg/metadata"
)

// wrapText wraps text to the specified width, breaking at word boundaries
// when possible.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len(word)

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a record for the list view.
// Example: " 1. [news    ✓] Article title"
func FormatCompactListItem(index int, record metadata.Record) string {
	fetched := "✗"
	if record.MetadataFetched {
		fetched = "✓"
	}

	title := record.Title
	if title == "" {
		title = record.URL
	}
	title = metadata.Truncate(title, 70)

	return fmt.Sprintf("%2d. [%-9s %s] %s", index+1, record.Tag, fetched, title)
}

// FormatDetailedRecord formats a record with all fields.
func FormatDetailedRecord(record metadata.Record) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	b.WriteString(fmt.Sprintf("URL: %s\n", record.URL))

	if record.Title != "" {
		b.WriteString(fmt.Sprintf("Title: %s\n", record.Title))
	}
	if record.Image != "" {
		b.WriteString(fmt.Sprintf("Image: %s\n", record.Image))
	}

	b.WriteString(fmt.Sprintf("Tag: %s | Metadata fetched: %t\n", record.Tag, record.MetadataFetched))

	if record.Description != "" {
		b.WriteString(fmt.Sprintf("\nDescription:\n%s\n", wrapText(record.Description, 70)))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatJSONRecord formats a record as indented JSON, exactly as the HTTP
// API would serve it.
func FormatJSONRecord(record metadata.Record) string {
	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error encoding record: %s", err)
	}
	return string(out)
}
