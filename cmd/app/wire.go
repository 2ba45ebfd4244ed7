//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/neo-hazard/internal/bootstrap"
	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	"github.com/yanqian/neo-hazard/internal/domain/session"
	"github.com/yanqian/neo-hazard/internal/infra/config"
	httpiface "github.com/yanqian/neo-hazard/internal/interface/http"
	"github.com/yanqian/neo-hazard/pkg/logger"
	"github.com/yanqian/neo-hazard/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideMetricsRegistry,
		provideMetricsCollector,
		provideNEOClient,
		provideClassifier,
		provideSessionConfig,
		session.NewService,
		wire.Bind(new(prediction.Recorder), new(*metrics.Collector)),
		httpiface.NewSessionHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
