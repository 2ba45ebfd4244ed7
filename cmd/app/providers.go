package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	"github.com/yanqian/neo-hazard/internal/domain/session"
	"github.com/yanqian/neo-hazard/internal/infra/config"
	"github.com/yanqian/neo-hazard/internal/infra/neoapi"
	"github.com/yanqian/neo-hazard/internal/infra/predictcache"
	"github.com/yanqian/neo-hazard/pkg/metrics"
)

func provideMetricsRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetricsCollector(reg *prometheus.Registry) (*metrics.Collector, error) {
	return metrics.NewCollector(reg)
}

func provideNEOClient(cfg *config.Config) *neoapi.Client {
	return neoapi.NewClient(cfg.Classifier.BaseURL, cfg.Classifier.Timeout)
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{
		IdleTTL:     cfg.Sessions.IdleTTL,
		MaxSessions: cfg.Sessions.MaxSessions,
	}
}

func provideClassifier(cfg *config.Config, client *neoapi.Client, collector *metrics.Collector, logger *slog.Logger) prediction.Classifier {
	if !cfg.Cache.Enabled {
		logger.Info("prediction cache disabled")
		return client
	}
	return prediction.NewCachedClassifier(client, providePredictionCache(cfg, logger), cfg.Cache.TTL, collector, logger)
}

func providePredictionCache(cfg *config.Config, logger *slog.Logger) prediction.Cache {
	if cfg.Cache.Redis.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return predictcache.NewMemoryCache()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return predictcache.NewMemoryCache()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
		} else {
			logger.Info("prediction valkey cache enabled", "addr", cfg.Cache.Redis.Addr)
			return predictcache.NewValkeyCache(client, "neo")
		}
	}
	return predictcache.NewMemoryCache()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.Cache.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.Cache.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.Cache.Redis.Addr}}, nil
}
