package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Sternrassler/character-table/internal/config"
	"github.com/Sternrassler/character-table/internal/server"
	"github.com/Sternrassler/character-table/pkg/cache"
	"github.com/Sternrassler/character-table/pkg/characters"
	"github.com/Sternrassler/character-table/pkg/graphql"
	"github.com/Sternrassler/character-table/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg config.Config) error {
	store, ready, closeStore, err := newCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	handler, closeClient, err := newHandler(cfg, store, ready)
	if err != nil {
		return err
	}
	defer closeClient()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("endpoint", cfg.Endpoint).
			Str("user_agent", cfg.UserAgent).
			Str("cache_store", store.Name()).
			Msg("Starting character table server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newCacheStore returns the Redis store when REDIS_URL is set and the
// in-memory store otherwise. ready checks the store's backing service.
func newCacheStore(ctx context.Context, cfg config.Config) (store cache.Store, ready func(context.Context) error, closeFn func(), err error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryStore(), nil, func() {}, nil
	}

	opts, err := redisOptions(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}

	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient.Close()
		return nil, nil, nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")

	ready = func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	}
	closeFn = func() {
		if err := redisClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
	return cache.NewRedisStore(redisClient), ready, closeFn, nil
}

// redisOptions accepts either a redis:// URL or a bare host:port.
func redisOptions(value string) (*redis.Options, error) {
	if strings.Contains(value, "://") {
		opts, err := redis.ParseURL(value)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: value}, nil
}

// newHandler wires the GraphQL client, fetcher and router.
func newHandler(cfg config.Config, store cache.Store, ready func(context.Context) error) (http.Handler, func(), error) {
	client, err := graphql.New(graphql.Config{
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
		Cache:     cache.NewManager(store),
		CacheTTL:  cfg.CacheTTL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create graphql client: %w", err)
	}

	handler := server.NewRouter(server.Options{
		Fetcher: characters.NewFetcher(client),
		Ready:   ready,
	})
	closeFn := func() { _ = client.Close() }
	return handler, closeFn, nil
}
