//go:build wireinject
// +build wireinject

package di

import (
	"benchstore/internal"
	"benchstore/internal/controllers"
	"benchstore/internal/persistence"
	"benchstore/internal/providers"
	"benchstore/internal/services"
	"benchstore/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewNotifierProvider,

		persistence.NewZstdCompressor,
		services.NewBenchmarkService,
		persistence.NewFileManager,
		persistence.NewScheduler,
		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
