// Package engine drives the preview pipeline: normalize, cache lookup,
// extractor selection, extraction, cache store, tagging. It owns no
// request state; everything is injected at construction.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/lepinkainen/link-forge/pkg/cache"
	"github.com/lepinkainen/link-forge/pkg/extractors"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/tags"
	"github.com/lepinkainen/link-forge/pkg/urlutils"
)

// DefaultTimeout bounds a full preview pass including all fallback
// strategies of the selected extractor.
const DefaultTimeout = 8 * time.Second

// batchConcurrency caps parallel extractions in PreviewAll.
const batchConcurrency = 5

// Engine produces preview records for URLs.
type Engine struct {
	registry *extractors.Registry
	tagger   *tags.Detector
	cache    *cache.Cache
	timeout  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache attaches a cache. A nil cache leaves caching disabled.
func WithCache(c *cache.Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// WithTimeout overrides the per-request deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// New creates an Engine around a registry and tag detector.
func New(registry *extractors.Registry, tagger *tags.Detector, opts ...Option) *Engine {
	e := &Engine{registry: registry, tagger: tagger, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Preview produces the preview record for rawURL. Invalid input returns
// urlutils.ErrInvalidURL; an upstream failure on the generic route returns
// the fetch error. Platform extractors degrade internally instead of
// failing, so their total failures come back as a record with
// MetadataFetched=false. Cache errors are logged and treated as misses.
func (e *Engine) Preview(ctx context.Context, rawURL string) (metadata.Record, error) {
	normalized, err := urlutils.Normalize(rawURL)
	if err != nil {
		return metadata.Record{}, err
	}

	key := cache.Key(normalized)
	if e.cache != nil {
		if parsed, ok, err := e.cache.Get(key); err != nil {
			slog.Warn("cache lookup failed", "url", normalized, "error", err)
		} else if ok {
			slog.Debug("cache hit", "url", normalized)
			return e.record(normalized, parsed), nil
		}
	}

	u, err := url.Parse(normalized)
	if err != nil {
		return metadata.Record{}, fmt.Errorf("%w: %v", urlutils.ErrInvalidURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	extractor := e.registry.Select(u)
	parsed, err := extractor.Extract(ctx, normalized)
	if err != nil {
		return metadata.Record{}, err
	}

	if e.cache != nil && parsed.Valid() {
		if err := e.cache.Set(key, parsed); err != nil {
			slog.Warn("cache store failed", "url", normalized, "error", err)
		}
	}

	return e.record(normalized, parsed), nil
}

func (e *Engine) record(normalized string, parsed *metadata.Parsed) metadata.Record {
	tag := tags.DefaultTag
	if e.tagger != nil {
		tag = e.tagger.DetectOrDefault(normalized, parsed)
	}
	return metadata.NewRecord(parsed, tag)
}

// Result pairs one PreviewAll input with its outcome.
type Result struct {
	URL    string
	Record metadata.Record
	Err    error
}

// PreviewAll fetches previews for all URLs concurrently with bounded
// parallelism, preserving input order in the results.
func (e *Engine) PreviewAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	semaphore := make(chan struct{}, batchConcurrency)

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			record, err := e.Preview(ctx, rawURL)
			results[i] = Result{URL: rawURL, Record: record, Err: err}
		}(i, rawURL)
	}
	wg.Wait()
	return results
}
