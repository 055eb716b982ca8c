package flipkart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
)

func TestInferFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "search text query",
			url:  "https://www.flipkart.com/search?text=I%20love%20this%20Soundbar",
			want: "I love this Soundbar",
		},
		{
			name: "q parameter",
			url:  "https://www.flipkart.com/search?q=wireless+mouse",
			want: "wireless mouse",
		},
		{
			name: "product slug",
			url:  "https://www.flipkart.com/boat-aavante-bar-1500-soundbar/p/itm6c3d8d4b0b0a1",
			want: "boat aavante bar 1500 soundbar",
		},
		{
			name: "bare path segment",
			url:  "https://www.flipkart.com/audio-video",
			want: "audio video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferFromURL(tt.url)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Title)
			assert.Equal(t, tt.url, got.URL)
		})
	}

	assert.Nil(t, InferFromURL("https://www.flipkart.com/"))
}

func TestExtractPrefersScrapedMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="boAt Aavante Bar 1500 Soundbar">
			<meta property="og:image" content="https://img.example.com/soundbar.jpg">
		</head></html>`))
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/boat-aavante/p/itm123")
	require.NoError(t, err)

	assert.Equal(t, "boAt Aavante Bar 1500 Soundbar", got.Title)
	assert.Equal(t, "https://img.example.com/soundbar.jpg", got.Image)
}

func TestExtractFallsBackToQueryText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/search?text=I%20love%20this%20Soundbar")
	require.NoError(t, err)

	assert.Equal(t, "I love this Soundbar", got.Title)
}
