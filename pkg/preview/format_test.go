package preview

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/testutil"
)

func TestFormatCompactListItem(t *testing.T) {
	record := metadata.Record{
		Parsed: metadata.Parsed{Title: "An Article", URL: "https://example.com"},
		Tag:    "news", MetadataFetched: true,
	}

	line := FormatCompactListItem(0, record)
	if !strings.Contains(line, "An Article") {
		t.Errorf("expected title in line, got %q", line)
	}
	if !strings.Contains(line, "news") {
		t.Errorf("expected tag in line, got %q", line)
	}
	if !strings.Contains(line, "✓") {
		t.Errorf("expected fetched marker in line, got %q", line)
	}
}

func TestFormatCompactListItemFallsBackToURL(t *testing.T) {
	record := metadata.Record{
		Parsed: metadata.Parsed{URL: "https://example.com/page"},
		Tag:    "general",
	}

	line := FormatCompactListItem(2, record)
	if !strings.Contains(line, "https://example.com/page") {
		t.Errorf("expected URL in line, got %q", line)
	}
	if !strings.Contains(line, "✗") {
		t.Errorf("expected unfetched marker in line, got %q", line)
	}
}

func TestFormatDetailedRecord(t *testing.T) {
	record := metadata.Record{
		Parsed: metadata.Parsed{
			Title:       "An Article",
			Description: "Body text here.",
			Image:       "https://example.com/img.jpg",
			URL:         "https://example.com",
		},
		Tag: "news", MetadataFetched: true,
	}

	out := FormatDetailedRecord(record)
	for _, want := range []string{"An Article", "Body text here.", "https://example.com/img.jpg", "news"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in detail view", want)
		}
	}
}

func TestFormatDetailedRecordGolden(t *testing.T) {
	record := metadata.Record{
		Parsed: metadata.Parsed{
			Title:       "An Article",
			Description: "Short body text.",
			Image:       "https://example.com/img.jpg",
			URL:         "https://example.com/article",
		},
		Tag: "news", MetadataFetched: true,
	}

	testutil.CompareGolden(t, filepath.Join("testdata", "detail.golden"), FormatDetailedRecord(record))
}

func TestFormatJSONRecordRoundTrips(t *testing.T) {
	record := metadata.Record{
		Parsed: metadata.Parsed{Title: "T", URL: "https://example.com"},
		Tag:    "general", MetadataFetched: true,
	}

	var decoded metadata.Record
	if err := json.Unmarshal([]byte(FormatJSONRecord(record)), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded != record {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, record)
	}
}

func TestWrapText(t *testing.T) {
	out := wrapText("aaa bbb ccc ddd", 7)
	lines := strings.Split(out, "\n")
	for _, line := range lines {
		if len(line) > 7 {
			t.Errorf("line %q exceeds width", line)
		}
	}
}
