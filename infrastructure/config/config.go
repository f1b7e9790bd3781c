package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageDynamoDB = "dynamodb"
	StorageMemory   = "memory"
)

// Cache providers
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"table_name"`
	IndexName     string `yaml:"gsi1_index_name"` // GSI1 - owner listings
	GSI2IndexName string `yaml:"gsi2_index_name"` // GSI2 - featured articles
	EventBusName  string `yaml:"event_bus_name"`

	// Lambda configuration
	IsLambda           bool   `yaml:"is_lambda"`
	LambdaFunctionName string `yaml:"-"`

	// Storage
	StorageDriver  string `yaml:"storage_driver"`
	LocalStorePath string `yaml:"local_store_path"`

	// Cache
	CacheProvider string        `yaml:"cache_provider"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	// Persistence resilience
	RetryAttempts      int           `yaml:"retry_attempts"`
	RetryBaseDelay     time.Duration `yaml:"retry_base_delay"`
	RetryMaxDelay      time.Duration `yaml:"retry_max_delay"`
	BreakerMaxFailures int           `yaml:"breaker_max_failures"`
	BreakerTimeout     time.Duration `yaml:"breaker_timeout"`

	// Unsynced chart worker
	EnableSyncWorker bool          `yaml:"enable_sync_worker"`
	SyncInterval     time.Duration `yaml:"sync_interval"`
	SyncBatchSize    int           `yaml:"sync_batch_size"`

	// Chart generation; a seed is only honoured outside production
	ChartSeed *uint64 `yaml:"chart_seed"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Authentication
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`

	// Rate limiting
	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	// Feature flags
	EnableMetrics      bool     `yaml:"enable_metrics"`
	EnableTracing      bool     `yaml:"enable_tracing"`
	EnableCORS         bool     `yaml:"enable_cors"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	MetricsNamespace   string   `yaml:"metrics_namespace"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		ServerAddress:   ":8080",
		Environment:     "development",
		ShutdownTimeout: 15 * time.Second,

		AWSRegion:     "us-east-1",
		DynamoDBTable: "astroguia",
		IndexName:     "GSI1",
		GSI2IndexName: "GSI2",
		EventBusName:  "astroguia-events",

		StorageDriver:  StorageDynamoDB,
		LocalStorePath: "data/unsynced.db",

		CacheProvider: CacheMemory,
		RedisAddr:     "localhost:6379",
		CacheTTL:      10 * time.Minute,

		RetryAttempts:      3,
		RetryBaseDelay:     100 * time.Millisecond,
		RetryMaxDelay:      2 * time.Second,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,

		EnableSyncWorker: true,
		SyncInterval:     time.Minute,
		SyncBatchSize:    50,

		LogLevel: "info",

		JWTIssuer: "astroguia",

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,

		EnableCORS:         true,
		CORSAllowedOrigins: []string{"*"},
		MetricsNamespace:   "AstroGuia",
	}
}

// LoadConfig loads defaults, then the YAML file named by CONFIG_FILE if
// set, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.IndexName = getEnv("GSI1_INDEX_NAME", getEnv("INDEX_NAME", c.IndexName))
	c.GSI2IndexName = getEnv("GSI2_INDEX_NAME", c.GSI2IndexName)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)

	c.LambdaFunctionName = getEnv("AWS_LAMBDA_FUNCTION_NAME", c.LambdaFunctionName)
	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || c.LambdaFunctionName != "")

	c.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", c.StorageDriver))
	c.LocalStorePath = getEnv("LOCAL_STORE_PATH", c.LocalStorePath)

	c.CacheProvider = strings.ToLower(getEnv("CACHE_PROVIDER", c.CacheProvider))
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = getEnvDuration("CACHE_TTL", c.CacheTTL)

	c.RetryAttempts = getEnvInt("RETRY_ATTEMPTS", c.RetryAttempts)
	c.RetryBaseDelay = getEnvDuration("RETRY_BASE_DELAY", c.RetryBaseDelay)
	c.RetryMaxDelay = getEnvDuration("RETRY_MAX_DELAY", c.RetryMaxDelay)
	c.BreakerMaxFailures = getEnvInt("BREAKER_MAX_FAILURES", c.BreakerMaxFailures)
	c.BreakerTimeout = getEnvDuration("BREAKER_TIMEOUT", c.BreakerTimeout)

	c.EnableSyncWorker = getEnvBool("ENABLE_SYNC_WORKER", c.EnableSyncWorker)
	c.SyncInterval = getEnvDuration("SYNC_INTERVAL", c.SyncInterval)
	c.SyncBatchSize = getEnvInt("SYNC_BATCH_SIZE", c.SyncBatchSize)

	if v := os.Getenv("CHART_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHART_SEED must be an unsigned integer: %w", err)
		}
		c.ChartSeed = &seed
	}

	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.JWTIssuer = getEnv("JWT_ISSUER", c.JWTIssuer)
	c.JWTAudience = getEnv("JWT_AUDIENCE", c.JWTAudience)

	c.RateLimitRequests = getEnvInt("RATE_LIMIT_REQUESTS", c.RateLimitRequests)
	c.RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORSAllowedOrigins = splitList(origins)
	}
	c.MetricsNamespace = getEnv("METRICS_NAMESPACE", c.MetricsNamespace)
	return nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDynamoDB, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	switch c.CacheProvider {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown CACHE_PROVIDER %q", c.CacheProvider)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	if c.LocalStorePath == "" {
		return fmt.Errorf("LOCAL_STORE_PATH is required")
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required")
		}
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required")
		}
		if c.ChartSeed != nil {
			return fmt.Errorf("CHART_SEED is not allowed in production")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
