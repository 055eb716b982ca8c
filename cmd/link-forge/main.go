// Package main provides the CLI entry point for link-forge.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/lepinkainen/link-forge/internal/config"
	"github.com/lepinkainen/link-forge/internal/engine"
	"github.com/lepinkainen/link-forge/internal/server"
	"github.com/lepinkainen/link-forge/pkg/cache"
	"github.com/lepinkainen/link-forge/pkg/fetch"
	"github.com/lepinkainen/link-forge/pkg/htmlmeta"
	"github.com/lepinkainen/link-forge/pkg/metadata"
	"github.com/lepinkainen/link-forge/pkg/preview"
	"github.com/lepinkainen/link-forge/pkg/tags"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Serve struct {
		Port int `help:"HTTP listen port (overrides config)" default:"0"`
	} `cmd:"serve" help:"Run the preview HTTP API."`

	Fetch struct {
		Urls []string `arg:"" help:"URLs to preview"`
		JSON bool     `help:"Print JSON instead of the interactive view"`
	} `cmd:"fetch" help:"Fetch previews for one or more URLs."`

	Cache struct {
		Stats   struct{} `cmd:"stats" help:"Show cache entry counts."`
		Cleanup struct{} `cmd:"cleanup" help:"Remove expired cache entries."`
	} `cmd:"cache" help:"Cache maintenance."`
}

func main() {
	ctx := kong.Parse(&CLI)

	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	switch ctx.Command() {
	case "serve":
		runServe(cfg)

	case "fetch <urls>":
		runFetch(cfg, CLI.Fetch.Urls, CLI.Fetch.JSON)

	case "cache stats":
		runCacheStats(cfg)

	case "cache cleanup":
		runCacheCleanup(cfg)

	default:
		panic(ctx.Command())
	}
}

// newEngine wires the pipeline from configuration. The cache is optional;
// a failure to open it degrades to cache-less operation.
func newEngine(cfg *config.Config) *engine.Engine {
	client := fetch.NewClient(fetch.WithTimeout(cfg.Timeout()))
	registry := engine.NewDefaultRegistry(client, htmlmeta.New())

	tagger, err := tags.New()
	if err != nil {
		slog.Error("Failed to load tag table", "error", err)
		os.Exit(1)
	}

	opts := []engine.Option{engine.WithTimeout(cfg.Timeout())}
	if cfg.CacheEnabled() {
		if c, err := cache.New(cfg.Cache.Path); err != nil {
			slog.Warn("Cache unavailable, continuing without it", "error", err)
		} else {
			opts = append(opts, engine.WithCache(c))
		}
	}

	return engine.New(registry, tagger, opts...)
}

func runServe(cfg *config.Config) {
	port := cfg.Server.Port
	if CLI.Serve.Port != 0 {
		port = CLI.Serve.Port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(newEngine(cfg))
	if err := srv.ListenAndServe(ctx, port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func runFetch(cfg *config.Config, urls []string, asJSON bool) {
	e := newEngine(cfg)
	results := e.PreviewAll(context.Background(), urls)

	var records []metadata.Record
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", result.URL, result.Err)
			failed++
			continue
		}
		records = append(records, result.Record)
	}

	if asJSON {
		for _, record := range records {
			fmt.Println(preview.FormatJSONRecord(record))
		}
	} else {
		if err := preview.Run(records, "fetched links"); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func openCache(cfg *config.Config) *cache.Cache {
	if !cfg.CacheEnabled() {
		slog.Error("No cache path configured")
		os.Exit(1)
	}
	c, err := cache.New(cfg.Cache.Path)
	if err != nil {
		slog.Error("Failed to open cache", "error", err)
		os.Exit(1)
	}
	return c
}

func runCacheStats(cfg *config.Config) {
	c := openCache(cfg)
	defer c.Close()

	stats, err := c.GetStats()
	if err != nil {
		slog.Error("Failed to read cache stats", "error", err)
		os.Exit(1)
	}
	fmt.Printf("total entries:   %v\n", stats["total_entries"])
	fmt.Printf("expired entries: %v\n", stats["expired_entries"])
}

func runCacheCleanup(cfg *config.Config) {
	c := openCache(cfg)
	defer c.Close()

	if err := c.CleanupExpired(); err != nil {
		slog.Error("Cache cleanup failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("cache cleanup complete")
}
