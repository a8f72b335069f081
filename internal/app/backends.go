package app

import (
	"context"
	"log/slog"

	"github.com/utafrali/perfume-seed/internal/domain"
	"github.com/utafrali/perfume-seed/internal/event"
	"github.com/utafrali/perfume-seed/internal/repository/postgres"
	"github.com/utafrali/perfume-seed/internal/repository/redis"
	"github.com/utafrali/perfume-seed/pkg/database"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	pkgkafka "github.com/utafrali/perfume-seed/pkg/kafka"
	"github.com/utafrali/perfume-seed/pkg/sqlscript"
)

// SeedStore persists a rendered seed script.
type SeedStore interface {
	Migrate(ctx context.Context, logger *slog.Logger) error
	Apply(ctx context.Context, script *sqlscript.Script) error
	CountRows(ctx context.Context, schema string) (domain.Counts, error)
}

// CachePurger drops cached catalog data.
type CachePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// EventPublisher announces an applied seed.
type EventPublisher interface {
	PublishSeedApplied(ctx context.Context, ds *domain.Dataset) error
}

// Backends are the external systems an apply run talks to. Cache and
// Events are nil when disabled.
type Backends struct {
	Store  SeedStore
	Cache  CachePurger
	Events EventPublisher

	closers []func()
}

// Close releases every connection opened for the run, last opened first.
func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// OnClose registers fn to run on Close.
func (b *Backends) OnClose(fn func()) {
	b.closers = append(b.closers, fn)
}

// BackendFactory connects the backends for one apply run.
type BackendFactory func(ctx context.Context) (*Backends, error)

// connectBackends opens the PostgreSQL pool and, when enabled, the Redis
// cache and Kafka producer. Only PostgreSQL is required; an unreachable
// cache is logged and skipped.
func (a *App) connectBackends(ctx context.Context) (*Backends, error) {
	pgCfg := a.cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, a.logger)
	if err != nil {
		return nil, apperrors.IO("connect to postgres", err)
	}
	a.logger.Info("connected to PostgreSQL",
		slog.String("host", pgCfg.Host),
		slog.Int("port", pgCfg.Port),
		slog.String("database", pgCfg.DBName),
	)

	b := &Backends{Store: postgres.NewSeedRepository(pool)}
	b.OnClose(pool.Close)

	if a.cfg.RedisEnabled {
		client, err := database.NewRedisClient(ctx, a.cfg.Redis(), a.logger)
		if err != nil {
			a.logger.Warn("redis unavailable, cache purge skipped", slog.String("error", err.Error()))
		} else {
			b.Cache = redis.NewCatalogCache(client, a.cfg.CatalogCachePrefixes)
			b.OnClose(func() { _ = client.Close() })
		}
	}

	if a.cfg.KafkaEnabled {
		producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers), a.logger)
		b.Events = event.NewProducer(producer, a.logger)
		b.OnClose(func() {
			if err := producer.Close(); err != nil {
				a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			}
		})
		a.logger.Info("kafka producer initialized", slog.Any("brokers", a.cfg.KafkaBrokers))
	}

	return b, nil
}
