package blinkit

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
	got := inferFromURL("https://blinkit.com/prn/amul-gold-full-cream-milk/prid/576")
	require.NotNil(t, got)
	assert.Equal(t, "amul gold full cream milk", got.Title)

	got = inferFromURL("https://blinkit.com/cn/dairy-bread-eggs")
	require.NotNil(t, got)
	assert.Equal(t, "dairy bread eggs", got.Title)
}

func TestExtractMergesSlugTitleWithScrapedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:description" content="Fresh full cream milk, 500ml pouch.">
			<meta property="og:image" content="https://cdn.example.com/milk.jpg">
		</head><body></body></html>`))
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/prn/amul-gold-full-cream-milk/prid/576")
	require.NoError(t, err)

	assert.Equal(t, "amul gold full cream milk", got.Title)
	assert.Equal(t, "Fresh full cream milk, 500ml pouch.", got.Description)
	assert.Equal(t, "https://cdn.example.com/milk.jpg", got.Image)
}

func TestExtractInfersWhenFetchFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	e := New(fetch.NewClient(), htmlmeta.New(), nil)
	got, err := e.Extract(context.Background(), server.URL+"/prn/amul-gold-full-cream-milk/prid/576")
	require.NoError(t, err)

	assert.Equal(t, "amul gold full cream milk", got.Title)
	assert.Empty(t, got.Description)
}
