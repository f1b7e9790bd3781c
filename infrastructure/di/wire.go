//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"astroguia-backend/infrastructure/config"

	"github.com/google/wire"
)

// ConfigProviders provides configuration and ambient dependencies
var ConfigProviders = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideClock,
)

// InfrastructureProviders provides AWS clients, storage and caching
var InfrastructureProviders = wire.NewSet(
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideCloudWatchMetrics,
	ProvideCollector,
	ProvideRecorder,
	ProvideTracer,
	ProvideUnsyncedStore,
	ProvideRetrier,
	ProvideBreaker,
	ProvideStores,
	ProvideRedisClient,
	ProvideCache,
	ProvideRateLimiter,
)

// DomainProviders provides the chart, horoscope and article services
var DomainProviders = wire.NewSet(
	ProvidePositionProvider,
	ProvideChartGenerator,
	ProvideHoroscopeGenerator,
	ProvideCatalog,
)

// ApplicationProviders provides command and query handling
var ApplicationProviders = wire.NewSet(
	ProvideGenerateChartHandler,
	ProvideSyncHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideSyncWorker,
)

// InterfaceProviders provides the HTTP surface
var InterfaceProviders = wire.NewSet(
	ProvideJWTValidator,
	ProvideAuthenticator,
	ProvideErrorHandler,
	ProvideRouter,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ConfigProviders,
	InfrastructureProviders,
	DomainProviders,
	ApplicationProviders,
	InterfaceProviders,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
