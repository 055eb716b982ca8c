package extractors

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/platform"
)

// stubExtractor is a minimal Extractor for registry tests.
type stubExtractor struct {
	platform  platform.Platform
	canHandle bool
	result    *metadata.Parsed
	err       error
}

func (s *stubExtractor) Platform() platform.Platform { return s.platform }
func (s *stubExtractor) CanHandle(u *url.URL) bool   { return s.canHandle }
func (s *stubExtractor) Extract(ctx context.Context, pageURL string) (*metadata.Parsed, error) {
	return s.result, s.err
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q): %v", raw, err)
	}
	return u
}

func TestRegistrySelect(t *testing.T) {
	fallback := &stubExtractor{platform: platform.None, canHandle: true}
	youtube := &stubExtractor{platform: platform.YouTube, canHandle: true}
	reddit := &stubExtractor{platform: platform.Reddit, canHandle: true}

	registry := NewRegistry(fallback, youtube, reddit)

	tests := []struct {
		name string
		url  string
		want Extractor
	}{
		{
			name: "youtube URL routes to youtube extractor",
			url:  "https://www.youtube.com/watch?v=abc",
			want: youtube,
		},
		{
			name: "short youtube host routes to youtube extractor",
			url:  "https://youtu.be/abc",
			want: youtube,
		},
		{
			name: "reddit URL routes to reddit extractor",
			url:  "https://www.reddit.com/r/golang/comments/1/x/",
			want: reddit,
		},
		{
			name: "unknown platform routes to default",
			url:  "https://example.com/page",
			want: fallback,
		},
		{
			name: "registered platform without extractor routes to default",
			url:  "https://www.netflix.com/title/1",
			want: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := registry.Select(mustParse(t, tt.url)); got != tt.want {
				t.Errorf("Select(%q) returned wrong extractor", tt.url)
			}
		})
	}
}

func TestRegistrySelectHonorsCanHandleDisagreement(t *testing.T) {
	fallback := &stubExtractor{platform: platform.None, canHandle: true}
	youtube := &stubExtractor{platform: platform.YouTube, canHandle: false}

	registry := NewRegistry(fallback, youtube)

	got := registry.Select(mustParse(t, "https://www.youtube.com/watch?v=abc"))
	if got != fallback {
		t.Error("detection/CanHandle mismatch must route to the default extractor")
	}
}

func TestRegistryIgnoresDuplicates(t *testing.T) {
	fallback := &stubExtractor{platform: platform.None, canHandle: true}
	first := &stubExtractor{platform: platform.YouTube, canHandle: true}
	second := &stubExtractor{platform: platform.YouTube, canHandle: true}

	registry := NewRegistry(fallback, first, second)

	if got := registry.Select(mustParse(t, "https://youtu.be/abc")); got != first {
		t.Error("first registration should win for a duplicated platform")
	}
}

func TestFirstValid(t *testing.T) {
	ctx := context.Background()

	t.Run("stops at first valid result", func(t *testing.T) {
		calls := 0
		got := FirstValid(ctx,
			func(context.Context) *metadata.Parsed { calls++; return nil },
			func(context.Context) *metadata.Parsed { calls++; return &metadata.Parsed{URL: "x"} },
			func(context.Context) *metadata.Parsed { calls++; return &metadata.Parsed{Title: "hit"} },
			func(context.Context) *metadata.Parsed { calls++; t.Error("ran past valid result"); return nil },
		)
		if got == nil || got.Title != "hit" {
			t.Fatalf("FirstValid = %+v", got)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("returns nil when all strategies fail", func(t *testing.T) {
		got := FirstValid(ctx,
			func(context.Context) *metadata.Parsed { return nil },
			func(context.Context) *metadata.Parsed { return &metadata.Parsed{} },
		)
		if got != nil {
			t.Errorf("FirstValid = %+v, want nil", got)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		got := FirstValid(cancelled,
			func(context.Context) *metadata.Parsed {
				t.Error("strategy ran with cancelled context")
				return nil
			},
		)
		if got != nil {
			t.Errorf("FirstValid = %+v, want nil", got)
		}
	})
}

func TestFallthroughSwallowsErrors(t *testing.T) {
	ctx := context.Background()

	failing := &stubExtractor{platform: platform.None, err: errors.New("fetch failed")}
	if got := Fallthrough(ctx, failing, "https://example.com"); got != nil {
		t.Errorf("Fallthrough with failing extractor = %+v, want nil", got)
	}

	ok := &stubExtractor{platform: platform.None, result: &metadata.Parsed{Title: "t"}}
	got := Fallthrough(ctx, ok, "https://example.com")
	if got == nil || got.Title != "t" {
		t.Errorf("Fallthrough = %+v", got)
	}

	if got := Fallthrough(ctx, nil, "https://example.com"); got != nil {
		t.Errorf("Fallthrough(nil) = %+v, want nil", got)
	}
}
