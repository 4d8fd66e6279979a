//go:build wireinject
// +build wireinject

package di

import (
	"adforge/internal"
	"adforge/internal/controllers"
	"adforge/internal/gateway"
	"adforge/internal/navigation"
	"adforge/internal/orchestrator"
	"adforge/internal/persistence"
	"adforge/internal/providers"
	"adforge/internal/services"
	"adforge/internal/structures"

	wire "github.com/google/wire"
)

var storageSet = wire.NewSet(
	services.NewSessionStore,
	persistence.NewKVStore,
	persistence.NewConfiguredCompressor,
	persistence.NewPersister,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storageSet,
		persistence.NewScheduler,

		navigation.NewNavigator,
		gateway.NewGeminiGateway,
		wire.Bind(new(gateway.Gateway), new(gateway.KeyedGateway)),
		orchestrator.NewConfigKeySelector,
		orchestrator.NewOrchestrator,
		wire.Bind(new(orchestrator.OrchestratorInterface), new(*orchestrator.Orchestrator)),

		controllers.NewApiController,
		controllers.NewNavigationController,
		controllers.NewCatalogController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewHandler,
		internal.NewApp,
	)

	return nil, nil
}

// InitExporter builds only what the export command needs.
func InitExporter(cfg *structures.CliFlags) (*persistence.Persister, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		storageSet,
	)

	return nil, nil
}
