package config

import (
	"fmt"
	"regexp"
	"time"

	pkgconfig "github.com/utafrali/perfume-seed/pkg/config"
	"github.com/utafrali/perfume-seed/pkg/database"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	"github.com/utafrali/perfume-seed/pkg/tracing"
)

// ServiceName identifies seedgen in logs, traces and pushed metrics.
const ServiceName = "seedgen"

// Env names that command-line flags override.
const (
	EnvOutputPath    = "SEED_OUTPUT_PATH"
	EnvCatalogFile   = "SEED_CATALOG_FILE"
	EnvTransaction   = "SEED_TRANSACTION"
	EnvRunMigrations = "SEED_RUN_MIGRATIONS"
)

// schemaPattern accepts unquoted lowercase PostgreSQL identifiers of at most
// 63 bytes. The schema is inlined into statement text.
var schemaPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Config holds all configuration for seedgen.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Seed generation
	OutputPath    string `env:"SEED_OUTPUT_PATH" envDefault:"supabase/seed.sql"`
	CatalogFile   string `env:"SEED_CATALOG_FILE"`
	Schema        string `env:"SEED_SCHEMA" envDefault:"public"`
	Transactional bool   `env:"SEED_TRANSACTION" envDefault:"true"`
	SKULength     int    `env:"SEED_SKU_LENGTH" envDefault:"6"`
	RunMigrations bool   `env:"SEED_RUN_MIGRATIONS" envDefault:"false"`

	// PostgreSQL (apply mode)
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"54322"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"postgres"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"2"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"0"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"5"`

	// Redis storefront cache
	RedisEnabled         bool     `env:"REDIS_ENABLED" envDefault:"false"`
	RedisHost            string   `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort            int      `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword        string   `env:"REDIS_PASSWORD"`
	RedisDB              int      `env:"REDIS_DB" envDefault:"0"`
	CatalogCachePrefixes []string `env:"CATALOG_CACHE_PREFIXES" envDefault:"catalog:,product:,category:" envSeparator:","`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Metrics
	PushgatewayURL string `env:"METRICS_PUSHGATEWAY_URL"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadWithOverrides(nil)
}

// LoadWithOverrides reads configuration from environment variables, with
// overrides (keyed by env name) taking precedence.
func LoadWithOverrides(overrides map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadWithOverrides(cfg, overrides); err != nil {
		return nil, apperrors.Config("load seedgen config: " + err.Error())
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.OutputPath == "" {
		return apperrors.Config("SEED_OUTPUT_PATH is required")
	}
	if !schemaPattern.MatchString(c.Schema) {
		return apperrors.Config(fmt.Sprintf("SEED_SCHEMA must be a lowercase SQL identifier, got %q", c.Schema))
	}
	if c.SKULength < 1 || c.SKULength > 32 {
		return apperrors.Config(fmt.Sprintf("SEED_SKU_LENGTH must be between 1 and 32, got %d", c.SKULength))
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return apperrors.Config(fmt.Sprintf("invalid POSTGRES_PORT: %d", c.PostgresPort))
	}
	if c.DBMaxConns < 1 {
		return apperrors.Config(fmt.Sprintf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns))
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return apperrors.Config(fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS, got %d", c.DBMinConns))
	}
	if c.RedisEnabled && (c.RedisPort < 1 || c.RedisPort > 65535) {
		return apperrors.Config(fmt.Sprintf("invalid REDIS_PORT: %d", c.RedisPort))
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return apperrors.Config("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return apperrors.Config(fmt.Sprintf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate))
	}
	if c.SlowQueryThresholdMs < 0 {
		return apperrors.Config(fmt.Sprintf("LOG_SLOW_QUERY_MS must not be negative, got %d", c.SlowQueryThresholdMs))
	}
	return nil
}

// Postgres returns the connection settings for the apply pool.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the storefront cache connection settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing(version string) tracing.Config {
	return tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: version,
		Environment:    c.Environment,
		OTLPEndpoint:   c.OTELEndpoint,
		SampleRate:     c.OTELSampleRate,
		Enabled:        c.OTELEnabled,
	}
}

// SlowQueryThreshold returns LOG_SLOW_QUERY_MS as a duration.
func (c *Config) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryThresholdMs) * time.Millisecond
}
