// Package app assembles the conversation pipeline from configuration. Both
// the HTTP server and the CLI build their dependencies through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dharmasatrya/jetset/internal/cache"
	"github.com/dharmasatrya/jetset/internal/config"
	"github.com/dharmasatrya/jetset/internal/dates"
	"github.com/dharmasatrya/jetset/internal/extractor"
	"github.com/dharmasatrya/jetset/internal/gateway"
	"github.com/dharmasatrya/jetset/internal/oracle"
	"github.com/dharmasatrya/jetset/internal/orchestrator"
	"github.com/dharmasatrya/jetset/internal/ratelimit"
	"github.com/dharmasatrya/jetset/internal/store"
)

type App struct {
	Config       *config.Config
	Orchestrator *orchestrator.Orchestrator
	Gateway      *gateway.Gateway
	Store        store.Store
	Cache        cache.Cache
	Limiter      *ratelimit.Limiter

	cleanup *store.CleanupService
	logger  *slog.Logger
}

// New builds every component. Start must be called to run background
// cleanup, and Close releases connections.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With(slog.String("component", "app"))

	loc, err := dates.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, using UTC", slog.String("timezone", cfg.Timezone))
	}

	limiter := ratelimit.NewLimiterWithDefaults()
	limiter.SetLimit(ratelimit.UpstreamOracle, cfg.Oracle.RequestsPerSecond, cfg.Oracle.Burst)
	limiter.SetLimit(ratelimit.UpstreamTravel, cfg.Travel.RequestsPerSecond, cfg.Travel.Burst)

	var redisClient *redis.Client
	if cfg.Store.Type == config.StoreRedis || cfg.Cache.Enabled {
		redisClient, err = cache.NewRedisClient(redisConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect to redis %s:%s: %w", cfg.Redis.Host, cfg.Redis.Port, err)
		}
	}

	convStore, cleanup, err := newStore(cfg, redisClient)
	if err != nil {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil, err
	}

	var travelCache cache.Cache = cache.NewNoOpCache()
	if cfg.Cache.Enabled {
		travelCache = cache.NewRedisCacheWithClient(redisClient, cfg.Cache.TTL)
		logger.Info("travel cache enabled", slog.Duration("ttl", cfg.Cache.TTL))
	}

	gw := gateway.New(newTransport(cfg), limiter, travelCache, gateway.Config{
		LanguageCode: cfg.Travel.LanguageCode,
		CurrencyCode: cfg.Travel.CurrencyCode,
	})

	textOracle := oracle.NewRateLimited(oracle.NewOpenAI(oracle.OpenAIConfig{
		BaseURL:   cfg.Oracle.BaseURL,
		APIKey:    cfg.Oracle.APIKey,
		Model:     cfg.Oracle.Model,
		MaxTokens: cfg.Oracle.MaxTokens,
	}), limiter)

	ex := extractor.New(textOracle, extractor.Config{
		HistoryTurns:  cfg.Conversation.HistoryTurns,
		HistoryTokens: cfg.Conversation.HistoryTokens,
	})

	orch := orchestrator.New(ex, gw, convStore, dates.SystemClock{Location: loc}, orchestrator.Config{
		OracleTimeout: cfg.Oracle.Timeout,
		TravelTimeout: cfg.Travel.Timeout,
		HistoryTurns:  cfg.Conversation.HistoryTurns,
		ResultLimit:   cfg.Search.ResultLimit,
	})

	logger.Info("components ready",
		slog.String("store", cfg.Store.Type),
		slog.String("transport", cfg.Travel.Transport),
		slog.String("model", cfg.Oracle.Model),
	)

	return &App{
		Config:       cfg,
		Orchestrator: orch,
		Gateway:      gw,
		Store:        convStore,
		Cache:        travelCache,
		Limiter:      limiter,
		cleanup:      cleanup,
		logger:       logger,
	}, nil
}

// Start runs background maintenance until ctx ends or Close is called.
func (a *App) Start(ctx context.Context) {
	if a.cleanup != nil {
		a.cleanup.Start(ctx)
	}
}

func (a *App) Close() error {
	if a.cleanup != nil {
		a.cleanup.Stop()
	}

	var errs []error
	for _, closer := range []interface{ Close() error }{a.Gateway, a.Store, a.Cache} {
		// The store and cache may share one redis client.
		if err := closer.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func newStore(cfg *config.Config, redisClient *redis.Client) (store.Store, *store.CleanupService, error) {
	ttl := cfg.Conversation.TTL

	switch cfg.Store.Type {
	case config.StoreRedis:
		return store.NewRedisStore(redisClient, ttl), nil, nil
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(cfg.Store.SQLitePath, ttl)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, store.NewCleanupService(s, cfg.Conversation.CleanupInterval), nil
	default:
		s := store.NewMemoryStore(ttl)
		return s, store.NewCleanupService(s, cfg.Conversation.CleanupInterval), nil
	}
}

func newTransport(cfg *config.Config) gateway.Transport {
	if cfg.Travel.Transport == config.TransportMCP {
		return gateway.NewMCPTransport(gateway.MCPConfig{
			URL:        cfg.Travel.BaseURL,
			APIKey:     cfg.Travel.APIKey,
			ToolPrefix: cfg.Travel.ToolPrefix,
		})
	}

	return gateway.NewRESTTransport(gateway.RESTConfig{
		BaseURL:    cfg.Travel.BaseURL,
		APIKey:     cfg.Travel.APIKey,
		ServerID:   cfg.Travel.ServerID,
		ToolPrefix: cfg.Travel.ToolPrefix,
		HTTPClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	})
}

func redisConfig(cfg *config.Config) cache.RedisConfig {
	return cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Cache.TTL,
	}
}

// Version is stamped at build time with -ldflags.
var Version = "dev"
