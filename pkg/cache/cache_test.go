package cache

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/lepinkainen/link-forge/pkg/metadata"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestKeyIsNamespacedAndDeterministic(t *testing.T) {
	k1 := Key("https://example.com/page")
	k2 := Key("https://example.com/page")
	k3 := Key("https://example.com/other")

	if k1 != k2 {
		t.Error("same URL produced different keys")
	}
	if k1 == k3 {
		t.Error("different URLs produced the same key")
	}
	if !strings.HasPrefix(k1, "linkforge:v1:") {
		t.Errorf("key %q missing namespace prefix", k1)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)

	want := &metadata.Parsed{
		Title:       "A Page",
		Description: "About something",
		Image:       "https://example.com/img.png",
		URL:         "https://example.com/page",
	}
	key := Key(want.URL)

	if err := c.Set(key, want); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if *got != *want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)

	_, ok, err := c.Get(Key("https://example.com/never-stored"))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCacheSetReplacesEntry(t *testing.T) {
	c := newTestCache(t)
	key := Key("https://example.com/page")

	if err := c.Set(key, &metadata.Parsed{Title: "old"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := c.Set(key, &metadata.Parsed{Title: "new"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if got.Title != "new" {
		t.Errorf("Title = %q, want %q", got.Title, "new")
	}
}

func TestClosedCacheNeverPanics(t *testing.T) {
	c := newTestCache(t)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	if c.Available() {
		t.Error("closed cache reports available")
	}

	_, ok, err := c.Get(Key("https://example.com/x"))
	if err != nil {
		t.Errorf("Get() on closed cache returned error: %v", err)
	}
	if ok {
		t.Error("Get() on closed cache reported a hit")
	}

	if err := c.Set(Key("https://example.com/x"), &metadata.Parsed{Title: "t"}); err == nil {
		t.Error("Set() on closed cache should report an error for the caller to swallow")
	}
}

func TestCleanupAndStats(t *testing.T) {
	c := newTestCache(t)

	if err := c.Set(Key("https://example.com/a"), &metadata.Parsed{Title: "a"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	stats, err := c.GetStats()
	if err != nil {
		t.Fatalf("GetStats() error: %v", err)
	}
	if stats["total_entries"].(int) != 1 {
		t.Errorf("total_entries = %v, want 1", stats["total_entries"])
	}

	if err := c.CleanupExpired(); err != nil {
		t.Fatalf("CleanupExpired() error: %v", err)
	}

	// Fresh entry survives cleanup.
	_, ok, err := c.Get(Key("https://example.com/a"))
	if err != nil || !ok {
		t.Errorf("entry lost after cleanup: ok=%v err=%v", ok, err)
	}
}
