package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/robertredbox/mcp-on-vercel/internal/cache"
	"github.com/robertredbox/mcp-on-vercel/internal/catalog"
	"github.com/robertredbox/mcp-on-vercel/internal/config"
	"github.com/robertredbox/mcp-on-vercel/internal/dispatch"
	"github.com/robertredbox/mcp-on-vercel/internal/metrics"
	"github.com/robertredbox/mcp-on-vercel/internal/server"
	"github.com/robertredbox/mcp-on-vercel/internal/tools"
	"github.com/robertredbox/mcp-on-vercel/internal/upstream"
	"github.com/robertredbox/mcp-on-vercel/pkg/mcp"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// stdout carries the MCP transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "catalog error: %v\n", err)
		os.Exit(1)
	}

	store := buildStore(cfg.Cache, log)
	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.APIKey)
	dispatcher := dispatch.New(cat, store, client, cfg.Cache.TTL(), log)
	local := tools.NewHandler(cat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	srv := server.New(mcp.NewTransport(os.Stdin, os.Stdout), cat, dispatcher, local, log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			log.Info("metrics listening", "addr", cfg.Metrics.Addr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			return http.ListenAndServe(cfg.Metrics.Addr, mux)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// buildStore picks the cache backend: Redis when configured, then SQLite,
// then the in-process store; with nothing configured caching is disabled
// rather than failing startup.
func buildStore(cfg config.CacheConfig, log *slog.Logger) cache.Store {
	if cfg.RedisURL != "" {
		store, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn("redis cache disabled", "error", err)
			return cache.Noop{}
		}
		log.Info("cache backend: redis")
		return store
	}
	if cfg.SQLitePath != "" {
		store, err := cache.NewSQLite(cfg.SQLitePath)
		if err != nil {
			log.Warn("sqlite cache disabled", "error", err)
			return cache.Noop{}
		}
		log.Info("cache backend: sqlite", "path", cfg.SQLitePath)
		return store
	}
	if cfg.Memory {
		log.Info("cache backend: memory")
		return cache.NewMemory(0)
	}
	log.Info("cache disabled")
	return cache.Noop{}
}
