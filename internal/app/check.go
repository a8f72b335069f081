package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/utafrali/perfume-seed/pkg/database"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	"github.com/utafrali/perfume-seed/pkg/health"
	pkgkafka "github.com/utafrali/perfume-seed/pkg/kafka"
)

const checkTimeout = 5 * time.Second

// checks registers a probe for every backend an apply run would use.
func (a *App) checks() *health.Registry {
	reg := health.NewRegistry()

	pgCfg := a.cfg.Postgres()
	reg.Register("postgres", func(ctx context.Context) error {
		return database.PingPostgres(ctx, &pgCfg)
	})
	if a.cfg.RedisEnabled {
		redisCfg := a.cfg.Redis()
		reg.Register("redis", func(ctx context.Context) error {
			return database.PingRedis(ctx, redisCfg)
		})
	}
	if a.cfg.KafkaEnabled {
		brokers := a.cfg.KafkaBrokers
		reg.Register("kafka", func(ctx context.Context) error {
			return pkgkafka.PingBrokers(ctx, brokers)
		})
	}
	return reg
}

// Check probes the apply backends once and writes the report as JSON. It
// fails with an I/O error naming the unreachable backends.
func (a *App) Check(ctx context.Context) (health.Report, error) {
	return a.runChecks(ctx, a.checks())
}

func (a *App) runChecks(ctx context.Context, reg *health.Registry) (health.Report, error) {
	rep := reg.Run(ctx, checkTimeout)
	if err := rep.WriteJSON(a.stdout); err != nil {
		return rep, apperrors.IO("write check report", err)
	}
	if !rep.Healthy() {
		return rep, apperrors.IO("backend check failed",
			fmt.Errorf("unreachable: %s", strings.Join(rep.Down(), ", ")))
	}
	return rep, nil
}
