package di

import (
	"astroguia-backend/application/commands"
	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/ports"
	querybus "astroguia-backend/application/queries/bus"
	domainconfig "astroguia-backend/domain/config"
	"astroguia-backend/infrastructure/config"
	"astroguia-backend/infrastructure/persistence/local"
	"astroguia-backend/infrastructure/worker"
	"astroguia-backend/interfaces/http/rest"
	"astroguia-backend/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DomainConfig  *domainconfig.DomainConfig
	Collector     *observability.Collector
	Recorder      *observability.Recorder
	Tracer        *observability.Tracer
	Stores        *Stores
	UnsyncedStore *local.UnsyncedChartStore
	Cache         ports.Cache
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	SyncHandler   *commands.SyncUnsyncedChartsHandler
	SyncWorker    *worker.SyncWorker
	Router        *rest.Router
}
