package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
)

func TestExtractPrefersRealOGTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="My cool post">
			<meta property="og:description" content="Post body text">
		</head></html>`))
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/r/test/comments/1/my_cool_post/")
	require.NoError(t, err)
	assert.Equal(t, "My cool post", got.Title)
	assert.Equal(t, "Post body text", got.Description)
}

func TestExtractRejectsGenericLandingTitle(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/r/test/comments/1/title/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Reddit - The heart of the internet</title></head></html>`))
	})
	mux.HandleFunc("/r/test/comments/1/title.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"data":{"children":[{"data":{
			"title":"Actual post title",
			"subreddit":"test",
			"selftext":"Some body",
			"thumbnail":"default"
		}}]}}]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/r/test/comments/1/title/")
	require.NoError(t, err)

	assert.Equal(t, "r/test: Actual post title", got.Title)
	assert.NotContains(t, got.Title, "heart of the internet")
	assert.Equal(t, "Some body", got.Description)
}

func TestExtractFallsBackToPathInference(t *testing.T) {
	// Both the page and the JSON endpoint fail.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/r/golang/comments/1abc/why_channels_are_great/")
	require.NoError(t, err)

	assert.Equal(t, "r/golang: why channels are great", got.Title)
	assert.True(t, got.Valid())
}

func TestAPIURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{
			in:   "https://www.reddit.com/r/test/comments/1/title/",
			want: "https://www.reddit.com/r/test/comments/1/title.json",
			ok:   true,
		},
		{
			in:   "https://www.reddit.com/r/test/comments/1/title?utm_source=share",
			want: "https://www.reddit.com/r/test/comments/1/title.json",
			ok:   true,
		},
		{
			in: "https://www.reddit.com/",
			ok: false,
		},
		{
			in: "https://www.reddit.com/r/test.json",
			ok: false,
		},
	}

	for _, tt := range tests {
		got, ok := apiURL(tt.in)
		if ok != tt.ok {
			t.Errorf("apiURL(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("apiURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPostImageURL(t *testing.T) {
	t.Run("preview source decoded", func(t *testing.T) {
		p := post{Preview: &previewData{Images: []previewImage{{
			Source: imageSource{URL: "https://preview.redd.it/x.jpg?width=640&amp;s=abc"},
		}}}}
		assert.Equal(t, "https://preview.redd.it/x.jpg?width=640&s=abc", p.imageURL())
	})

	t.Run("thumbnail fallback", func(t *testing.T) {
		p := post{Thumbnail: "https://b.thumbs.redditmedia.com/t.jpg"}
		assert.Equal(t, "https://b.thumbs.redditmedia.com/t.jpg", p.imageURL())
	})

	t.Run("sentinel thumbnails ignored", func(t *testing.T) {
		for _, sentinel := range []string{"self", "default", "nsfw", "spoiler"} {
			p := post{Thumbnail: sentinel}
			assert.Empty(t, p.imageURL())
		}
	})
}

func TestIsGenericTitle(t *testing.T) {
	assert.True(t, isGenericTitle("Reddit - The heart of the internet"))
	assert.True(t, isGenericTitle("  reddit - dive into anything  "))
	assert.False(t, isGenericTitle("r/test: an actual post"))
	assert.False(t, isGenericTitle(""))
}

func TestInferFromPath(t *testing.T) {
	got := inferFromPath("https://www.reddit.com/r/test/comments/1/some_post_title/")
	require.NotNil(t, got)
	assert.Equal(t, "r/test: some post title", got.Title)

	subOnly := inferFromPath("https://www.reddit.com/r/golang/")
	require.NotNil(t, subOnly)
	assert.Equal(t, "r/golang", subOnly.Title)

	assert.Nil(t, inferFromPath("https://www.reddit.com/user/someone/"))
}

func TestDescriptionTruncated(t *testing.T) {
	longBody := strings.Repeat("text ", 200)

	mux := http.NewServeMux()
	mux.HandleFunc("/r/a/comments/1/b.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"data":{"children":[{"data":{
			"title":"T","subreddit":"a","selftext":"` + longBody + `"
		}}]}}]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/r/a/comments/1/b")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got.Description), 300)
}
