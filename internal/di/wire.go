//go:build wireinject
// +build wireinject

package di

import (
	"FinSignal/pkg/config"
	"FinSignal/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideSettings,

		// Metrics
		ProvideRegistry,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideCache,

		// Repositories
		ProvideBarStore,
		ProvidePublisher,
		ProvidePositionProvider,

		// Domain services
		ProvideEngine,
		ProvidePipeline,
		ProvideAttention,

		// Use cases
		ProvideAnalysisCycle,

		// HTTP
		ProvideSignalsHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return nil, nil, nil
}
