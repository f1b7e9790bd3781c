package di

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"astroguia-backend/application/commands"
	"astroguia-backend/application/commands/bus"
	"astroguia-backend/application/ports"
	"astroguia-backend/application/queries"
	querybus "astroguia-backend/application/queries/bus"
	queryhandlers "astroguia-backend/application/queries/handlers"
	domainconfig "astroguia-backend/domain/config"
	"astroguia-backend/domain/services/chart"
	"astroguia-backend/domain/services/horoscope"
	"astroguia-backend/domain/services/learn"
	"astroguia-backend/infrastructure/cache"
	"astroguia-backend/infrastructure/config"
	"astroguia-backend/infrastructure/messaging/eventbridge"
	memorymessaging "astroguia-backend/infrastructure/messaging/memory"
	"astroguia-backend/infrastructure/persistence/dynamodb"
	"astroguia-backend/infrastructure/persistence/local"
	"astroguia-backend/infrastructure/persistence/memory"
	"astroguia-backend/infrastructure/resilience"
	"astroguia-backend/infrastructure/worker"
	"astroguia-backend/interfaces/http/rest"
	"astroguia-backend/interfaces/http/rest/middleware"
	"astroguia-backend/pkg/auth"
	pkgerrors "astroguia-backend/pkg/errors"
	"astroguia-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "astroguia-backend"

// Stores bundles the repositories and publisher of the selected storage driver
type Stores struct {
	Charts     ports.ChartRepository
	Users      ports.UserRepository
	Favorites  ports.FavoriteRepository
	Horoscopes ports.HoroscopeRepository
	Articles   ports.ArticleRepository
	Publisher  ports.EventPublisher
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("environment", cfg.Environment),
	))
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// ProvideDomainConfig loads the business rules for the environment
func ProvideDomainConfig(cfg *config.Config) (*domainconfig.DomainConfig, error) {
	dcfg := domainconfig.LoadDomainConfig(cfg.Environment)
	if err := dcfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid domain config: %w", err)
	}
	return dcfg, nil
}

// ProvideClock provides the wall clock
func ProvideClock() ports.Clock {
	return time.Now
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideCloudWatchMetrics creates the CloudWatch business metrics sink.
// Local runs on the memory driver publish nothing.
func ProvideCloudWatchMetrics(cfg *config.Config, client *awscloudwatch.Client, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics || cfg.StorageDriver == config.StorageMemory {
		return nil
	}
	return observability.NewMetrics(cfg.MetricsNamespace, client, logger)
}

// ProvideCollector creates the Prometheus collector served at /metrics
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(prometheusNamespace(cfg.MetricsNamespace))
}

// ProvideRecorder fans measurements out to Prometheus and CloudWatch
func ProvideRecorder(cfg *config.Config, collector *observability.Collector, cloudwatch *observability.Metrics) *observability.Recorder {
	if !cfg.EnableMetrics {
		return observability.NewNopRecorder()
	}
	return observability.NewRecorder(collector, cloudwatch)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(serviceName, cfg.EnableTracing)
}

// ProvideUnsyncedStore opens the local bbolt store of charts awaiting sync.
// Inside Lambda relative paths are placed under the writable temp dir;
// absolute paths such as an EFS mount are kept.
func ProvideUnsyncedStore(cfg *config.Config, clock ports.Clock, logger *zap.Logger) (*local.UnsyncedChartStore, func(), error) {
	path := cfg.LocalStorePath
	if cfg.IsLambda && !filepath.IsAbs(path) {
		path = filepath.Join(os.TempDir(), path)
	}

	store, err := local.NewUnsyncedChartStore(path, clock, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close unsynced chart store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideRetrier creates the retry policy for remote writes
func ProvideRetrier(cfg *config.Config, recorder *observability.Recorder, logger *zap.Logger) *resilience.Retrier {
	return resilience.NewRetrier(resilience.RetryPolicy{
		Attempts:  cfg.RetryAttempts,
		BaseDelay: cfg.RetryBaseDelay,
		MaxDelay:  cfg.RetryMaxDelay,
	}, recorder, logger)
}

// ProvideBreaker creates the circuit breaker guarding the remote chart store
func ProvideBreaker(cfg *config.Config, logger *zap.Logger) *resilience.Breaker {
	breakerCfg := resilience.DefaultBreakerConfig("charts")
	if cfg.BreakerMaxFailures > 0 {
		breakerCfg.MaxFailures = uint32(cfg.BreakerMaxFailures)
	}
	if cfg.BreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.BreakerTimeout
	}
	return resilience.NewBreaker(breakerCfg, logger)
}

// ProvideStores selects the storage driver. The DynamoDB chart and profile
// stores are wrapped with retries; chart writes also pass the breaker.
func ProvideStores(
	cfg *config.Config,
	dynamoClient *awsdynamodb.Client,
	eventBridgeClient *awseventbridge.Client,
	retrier *resilience.Retrier,
	breaker *resilience.Breaker,
	logger *zap.Logger,
) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Info("Using in-memory storage; data is lost on restart")
		return &Stores{
			Charts:     memory.NewChartRepository(),
			Users:      memory.NewUserRepository(),
			Favorites:  memory.NewFavoriteRepository(),
			Horoscopes: memory.NewHoroscopeRepository(),
			Articles:   memory.NewArticleRepository(),
			Publisher:  memorymessaging.NewPublisher(logger),
		}, nil
	case config.StorageDynamoDB, "":
		table := dynamodb.NewTable(dynamoClient, cfg.DynamoDBTable, cfg.IndexName, cfg.GSI2IndexName, logger)
		return &Stores{
			Charts:     resilience.NewChartRepository(dynamodb.NewChartRepository(table), retrier, breaker),
			Users:      resilience.NewUserRepository(dynamodb.NewUserRepository(table), retrier),
			Favorites:  dynamodb.NewFavoriteRepository(table),
			Horoscopes: dynamodb.NewHoroscopeRepository(table),
			Articles:   dynamodb.NewArticleRepository(table),
			Publisher:  eventbridge.NewPublisher(eventBridgeClient, cfg.EventBusName, logger),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// ProvideRedisClient connects to Redis when the cache provider asks for
// it. Other providers get a nil client.
func ProvideRedisClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*redis.Client, func(), error) {
	if cfg.CacheProvider != config.CacheRedis {
		return nil, func() {}, nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	return client, func() { _ = client.Close() }, nil
}

// ProvideCache creates the cache in front of tiered reads
func ProvideCache(cfg *config.Config, client *redis.Client) (ports.Cache, func()) {
	switch cfg.CacheProvider {
	case config.CacheRedis:
		return cache.NewRedisCache(client, ""), func() {}
	case config.CacheMemory:
		c := cache.NewMemoryCache(time.Minute)
		return c, c.Close
	default:
		return nil, func() {}
	}
}

// ProvideRateLimiter shares request budgets through Redis when it is
// configured, otherwise keeps them in process memory
func ProvideRateLimiter(cfg *config.Config, client *redis.Client) auth.RateLimiter {
	if client != nil {
		return auth.NewDistributedRateLimiter(client, cfg.RateLimitRequests, cfg.RateLimitWindow, "astroguia:ratelimit:")
	}
	return auth.NewSlidingWindowLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
}

// ProvidePositionProvider creates the position source for chart generation.
// A fixed seed is only honoured outside production.
func ProvidePositionProvider(cfg *config.Config, dcfg *domainconfig.DomainConfig, logger *zap.Logger) chart.PositionProvider {
	if cfg.ChartSeed != nil && !cfg.IsProduction() {
		logger.Warn("Using seeded chart positions", zap.Uint64("seed", *cfg.ChartSeed))
		return chart.NewSeededProvider(*cfg.ChartSeed, dcfg)
	}
	return chart.NewUnseededProvider(dcfg)
}

// ProvideChartGenerator creates the chart pipeline
func ProvideChartGenerator(provider chart.PositionProvider, dcfg *domainconfig.DomainConfig, clock ports.Clock) *chart.Generator {
	return chart.NewGenerator(provider, dcfg, chart.WithClock(clock))
}

// ProvideHoroscopeGenerator creates the local horoscope generator
func ProvideHoroscopeGenerator() *horoscope.Generator {
	return horoscope.NewGenerator(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// ProvideCatalog creates the local article catalogue
func ProvideCatalog(clock ports.Clock) *learn.Catalog {
	return learn.NewCatalog(clock)
}

// ProvideGenerateChartHandler creates the chart generation handler
func ProvideGenerateChartHandler(
	generator *chart.Generator,
	stores *Stores,
	unsynced *local.UnsyncedChartStore,
	recorder *observability.Recorder,
	tracer *observability.Tracer,
	clock ports.Clock,
	logger *zap.Logger,
) *commands.GenerateChartHandler {
	return commands.NewGenerateChartHandler(generator, stores.Charts, unsynced, stores.Publisher, recorder, tracer, clock, logger)
}

// ProvideSyncHandler creates the handler draining the unsynced store
func ProvideSyncHandler(
	stores *Stores,
	unsynced *local.UnsyncedChartStore,
	recorder *observability.Recorder,
	dcfg *domainconfig.DomainConfig,
	clock ports.Clock,
	logger *zap.Logger,
) *commands.SyncUnsyncedChartsHandler {
	return commands.NewSyncUnsyncedChartsHandler(stores.Charts, unsynced, stores.Publisher, recorder, dcfg, clock, logger)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	stores *Stores,
	generateChart *commands.GenerateChartHandler,
	syncCharts *commands.SyncUnsyncedChartsHandler,
	recorder *observability.Recorder,
	dcfg *domainconfig.DomainConfig,
	clock ports.Clock,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(recorder),
	)

	profile := commands.NewProfileHandler(stores.Users, stores.Publisher, dcfg, clock, logger)
	favorites := commands.NewFavoritesHandler(stores.Favorites, stores.Publisher, dcfg, clock, logger)
	onboarding := commands.NewCompleteOnboardingHandler(stores.Users, generateChart, stores.Publisher, dcfg, clock, logger)

	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandler
	}{
		{commands.GenerateChartCommand{}, bus.Typed(generateChart.Handle)},
		{commands.SyncUnsyncedChartsCommand{}, bus.Typed(syncCharts.Handle)},
		{commands.UpdateProfileCommand{}, bus.Typed(profile.HandleUpdateProfile)},
		{commands.UpdateBirthDetailsCommand{}, bus.Typed(profile.HandleUpdateBirthDetails)},
		{commands.UpdatePreferencesCommand{}, bus.Typed(profile.HandleUpdatePreferences)},
		{commands.CompleteOnboardingCommand{}, bus.Typed(onboarding.Handle)},
		{commands.SaveFavoriteCommand{}, bus.Typed(favorites.HandleSave)},
		{commands.RemoveFavoriteCommand{}, bus.Typed(favorites.HandleRemove)},
	}
	for _, reg := range registrations {
		if err := commandBus.Register(reg.cmd, reg.handler); err != nil {
			return nil, err
		}
	}
	return commandBus, nil
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	cfg *config.Config,
	stores *Stores,
	unsynced *local.UnsyncedChartStore,
	contentCache ports.Cache,
	horoscopes *horoscope.Generator,
	catalog *learn.Catalog,
	recorder *observability.Recorder,
	dcfg *domainconfig.DomainConfig,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.LoggingMiddleware(logger),
		querybus.MetricsMiddleware(recorder),
	)

	charts := queryhandlers.NewChartQueryHandler(stores.Charts, unsynced, recorder, logger)
	daily := queryhandlers.NewHoroscopeQueryHandler(stores.Horoscopes, horoscopes, contentCache, cfg.CacheTTL, recorder, logger)
	articles := queryhandlers.NewArticleQueryHandler(stores.Articles, catalog, dcfg, contentCache, cfg.CacheTTL, recorder, logger)
	profile := queryhandlers.NewProfileQueryHandler(stores.Users, stores.Favorites)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{queries.GetChartQuery{}, querybus.Typed(charts.HandleGetChart)},
		{queries.ListUserChartsQuery{}, querybus.Typed(charts.HandleListUserCharts)},
		{queries.GetDailyHoroscopeQuery{}, querybus.Typed(daily.HandleDaily)},
		{queries.GetMoonPhaseQuery{}, querybus.Typed(daily.HandleMoonPhase)},
		{queries.GetCosmicEventsQuery{}, querybus.Typed(daily.HandleCosmicEvents)},
		{queries.GetCompatibilityQuery{}, querybus.Typed(daily.HandleCompatibility)},
		{queries.ListArticleCategoriesQuery{}, querybus.Typed(articles.HandleCategories)},
		{queries.ListArticlesQuery{}, querybus.Typed(articles.HandleByCategory)},
		{queries.GetFeaturedArticlesQuery{}, querybus.Typed(articles.HandleFeatured)},
		{queries.GetArticleQuery{}, querybus.Typed(articles.HandleByID)},
		{queries.GetProfileQuery{}, querybus.Typed(profile.HandleGetProfile)},
		{queries.GetOnboardingStatusQuery{}, querybus.Typed(profile.HandleOnboardingStatus)},
		{queries.ListFavoritesQuery{}, querybus.Typed(profile.HandleListFavorites)},
	}
	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, err
		}
	}
	return queryBus, nil
}

// ProvideSyncWorker creates the background loop draining unsynced charts
func ProvideSyncWorker(cfg *config.Config, dcfg *domainconfig.DomainConfig, syncCharts *commands.SyncUnsyncedChartsHandler, logger *zap.Logger) *worker.SyncWorker {
	interval := cfg.SyncInterval
	if interval <= 0 {
		interval = dcfg.SyncInterval
	}
	return worker.NewSyncWorker(syncCharts, interval, cfg.SyncBatchSize, logger)
}

// ProvideJWTValidator creates the bearer token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	var audience []string
	if cfg.JWTAudience != "" {
		audience = []string{cfg.JWTAudience}
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     cfg.JWTSecret,
		Issuer:        cfg.JWTIssuer,
		Audience:      audience,
		Leeway:        30 * time.Second,
	})
}

// ProvideAuthenticator creates the authentication middleware
func ProvideAuthenticator(cfg *config.Config, validator *auth.JWTValidator, limiter auth.RateLimiter, logger *zap.Logger) *middleware.Authenticator {
	return middleware.NewAuthenticator(validator, limiter, cfg.IsLambda, logger)
}

// ProvideErrorHandler creates the HTTP error mapper
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, !cfg.IsProduction())
}

// ProvideRouter creates the HTTP router and registers readiness checks
func ProvideRouter(
	cfg *config.Config,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	authenticator *middleware.Authenticator,
	errorHandler *pkgerrors.ErrorHandler,
	collector *observability.Collector,
	recorder *observability.Recorder,
	unsynced *local.UnsyncedChartStore,
	redisClient *redis.Client,
	logger *zap.Logger,
) *rest.Router {
	router := rest.NewRouter(
		commandBus,
		queryBus,
		authenticator,
		errorHandler,
		recorder,
		metricsHandler(cfg, collector),
		rest.RouterConfig{
			EnableCORS:     cfg.EnableCORS,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			RequestTimeout: 30 * time.Second,
		},
		logger,
	)

	router.AddReadinessCheck("local_store", func(context.Context) error {
		_, err := unsynced.Count()
		return err
	})
	if redisClient != nil {
		router.AddReadinessCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	return router
}

func metricsHandler(cfg *config.Config, collector *observability.Collector) http.Handler {
	if !cfg.EnableMetrics {
		return nil
	}
	return collector.Handler()
}

// prometheusNamespace lowercases the CloudWatch namespace into a valid
// Prometheus metric prefix
func prometheusNamespace(namespace string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(namespace) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "astroguia"
	}
	return b.String()
}
