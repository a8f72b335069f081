package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/perfume-seed/internal/catalog"
	"github.com/utafrali/perfume-seed/internal/config"
	"github.com/utafrali/perfume-seed/internal/domain"
	"github.com/utafrali/perfume-seed/internal/metrics"
	"github.com/utafrali/perfume-seed/internal/output"
	"github.com/utafrali/perfume-seed/internal/repository/postgres"
	"github.com/utafrali/perfume-seed/internal/seed"
	"github.com/utafrali/perfume-seed/pkg/database"
	"github.com/utafrali/perfume-seed/pkg/httpclient"
	"github.com/utafrali/perfume-seed/pkg/logger"
	"github.com/utafrali/perfume-seed/pkg/sqlscript"
	"github.com/utafrali/perfume-seed/pkg/tracing"
)

const (
	tracerName      = "github.com/utafrali/perfume-seed/internal/app"
	shutdownTimeout = 5 * time.Second
	pushTimeout     = 5 * time.Second
)

// Version is reported on traces and by the CLI. Overridden at link time.
var Version = "0.1.0"

// Result summarizes a successful run.
type Result struct {
	RunID  string
	Counts domain.Counts
	// Path and Bytes are set by GenerateRun.
	Path  string
	Bytes int64
}

// App wires configuration, generation and the optional apply backends.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	stdout   io.Writer
	newID    func() string
	connect  BackendFactory
	shutdown func(context.Context) error
}

// Option customizes an App.
type Option func(*App)

// WithStdout sets the stream used for the "-" output path and for Schema.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithIDFunc replaces the random ID source of the generator.
func WithIDFunc(fn func() string) Option {
	return func(a *App) { a.newID = fn }
}

// WithBackendFactory replaces the function that connects the apply
// backends.
func WithBackendFactory(fn BackendFactory) Option {
	return func(a *App) { a.connect = fn }
}

// WithMetrics sets the metrics the runs record into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

// New creates an App and installs the tracer provider. Close must be
// called to flush spans.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger, opts ...Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		stdout: os.Stdout,
	}
	a.connect = a.connectBackends
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = metrics.New(nil)
	}
	if cfg.PushgatewayURL != "" {
		a.metrics.SetPushClient(httpclient.NewCircuitBreakerClient(
			httpclient.New(httpclient.DefaultConfig()),
			httpclient.DefaultCircuitBreakerConfig("pushgateway"),
			log,
			a.metrics.Registry(),
		))
	}

	shutdown, err := tracing.InitTracer(ctx, cfg.Tracing(Version))
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.shutdown = shutdown

	database.SetSlowQueryLogging(cfg.SlowQueryThreshold(), log)
	return a, nil
}

// Close flushes pending spans.
func (a *App) Close() {
	if err := tracing.ShutdownWithTimeout(a.shutdown, shutdownTimeout); err != nil {
		a.logger.Warn("tracer shutdown error", slog.String("error", err.Error()))
	}
}

// Metrics returns the metrics the runs record into.
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

// GenerateRun loads the catalog, generates a dataset and writes the SQL
// script to the configured output path. Nothing is written when any step
// fails.
func (a *App) GenerateRun(ctx context.Context) (res *Result, err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "seed.generate")
	defer func() { a.finish(ctx, span, metrics.ModeGenerate, err) }()

	ds, script, err := a.build(ctx, a.cfg.Transactional)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRunID(ctx, ds.RunID)

	n, err := output.NewWriter(a.stdout).Write(a.cfg.OutputPath, script)
	if err != nil {
		return nil, err
	}

	res = &Result{RunID: ds.RunID, Counts: ds.Counts(), Path: a.cfg.OutputPath, Bytes: n}
	logger.WithContext(ctx, a.logger).Info("seed script written",
		slog.String("path", res.Path),
		slog.Int64("bytes", res.Bytes),
		slog.Int("statements", script.Len()),
	)
	return res, nil
}

// ApplyRun generates a dataset and executes it against PostgreSQL in one
// transaction. After commit it verifies row counts, purges the storefront
// cache and publishes catalog.seed.applied. Failures after commit are
// logged and do not fail the run.
func (a *App) ApplyRun(ctx context.Context) (res *Result, err error) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "seed.apply")
	defer func() { a.finish(ctx, span, metrics.ModeApply, err) }()

	// The repository owns the transaction, so the script is rendered bare.
	ds, script, err := a.build(ctx, false)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithRunID(ctx, ds.RunID)
	log := logger.WithContext(ctx, a.logger)

	backends, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer backends.Close()

	if a.cfg.RunMigrations {
		if err := backends.Store.Migrate(ctx, log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	start := time.Now()
	err = backends.Store.Apply(ctx, script)
	a.metrics.ApplyDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("apply seed: %w", err)
	}
	log.Info("seed applied",
		slog.Int("statements", script.Len()),
		slog.Duration("duration", time.Since(start)),
	)

	want := ds.Counts()
	a.verifyCounts(ctx, log, backends.Store, want)
	a.purgeCache(ctx, log, backends.Cache)
	if backends.Events != nil {
		if err := backends.Events.PublishSeedApplied(ctx, ds); err != nil {
			log.Warn("seed event not published", slog.String("error", err.Error()))
		}
	}

	return &Result{RunID: ds.RunID, Counts: want}, nil
}

// Schema writes the DDL of the seeded tables.
func (a *App) Schema() error {
	schema, err := postgres.SchemaSQL()
	if err != nil {
		return err
	}
	_, err = output.NewWriter(a.stdout).Write(output.Stdout, strings.NewReader(schema))
	return err
}

// DefaultCatalog writes the embedded catalog document, the starting point
// for a custom SEED_CATALOG_FILE.
func (a *App) DefaultCatalog() error {
	_, err := output.NewWriter(a.stdout).Write(output.Stdout, bytes.NewReader(catalog.DefaultSource()))
	return err
}

// build loads the catalog, generates the dataset and renders the script.
func (a *App) build(ctx context.Context, transactional bool) (*domain.Dataset, *sqlscript.Script, error) {
	cat, err := catalog.Load(a.cfg.CatalogFile)
	if err != nil {
		return nil, nil, err
	}

	genOpts := []seed.Option{seed.WithSKULength(a.cfg.SKULength)}
	if a.newID != nil {
		genOpts = append(genOpts, seed.WithIDFunc(a.newID))
	}
	ds, err := seed.NewGenerator(genOpts...).Generate(cat.Categories, cat.Products)
	if err != nil {
		return nil, nil, err
	}
	a.metrics.ObserveDataset(ds)

	script, err := seed.BuildScript(ds, seed.ScriptOptions{
		Schema:        a.cfg.Schema,
		Transactional: transactional,
	})
	if err != nil {
		return nil, nil, err
	}

	counts := ds.Counts()
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("seed.run_id", ds.RunID),
		attribute.Int("seed.categories", counts.Categories),
		attribute.Int("seed.products", counts.Products),
		attribute.Int("seed.variants", counts.Variants),
	)
	a.logger.DebugContext(ctx, "dataset generated",
		slog.String("run_id", ds.RunID),
		slog.Int("categories", counts.Categories),
		slog.Int("products", counts.Products),
		slog.Int("variants", counts.Variants),
	)
	return ds, script, nil
}

func (a *App) verifyCounts(ctx context.Context, log *slog.Logger, store SeedStore, want domain.Counts) {
	got, err := store.CountRows(ctx, a.cfg.Schema)
	if err != nil {
		log.Warn("row count verification failed", slog.String("error", err.Error()))
		return
	}
	if got != want {
		log.Warn("seeded row counts differ from generated dataset",
			slog.Any("generated", want),
			slog.Any("stored", got),
		)
		return
	}
	log.Info("row counts verified", slog.Any("counts", got))
}

func (a *App) purgeCache(ctx context.Context, log *slog.Logger, cache CachePurger) {
	if cache == nil {
		return
	}
	n, err := cache.Purge(ctx)
	if err != nil {
		log.Warn("catalog cache purge failed", slog.Int64("deleted", n), slog.String("error", err.Error()))
		return
	}
	log.Info("catalog cache purged", slog.Int64("deleted", n))
}

// finish records the run outcome on the span and in metrics, then pushes
// the metrics when a Pushgateway is configured.
func (a *App) finish(ctx context.Context, span trace.Span, mode string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	a.metrics.ObserveRun(mode, err, time.Now())
	if a.cfg.PushgatewayURL == "" {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	if perr := a.metrics.Push(pushCtx, a.cfg.PushgatewayURL, config.ServiceName); perr != nil {
		a.logger.Warn("metrics push failed", slog.String("error", perr.Error()))
	}
}
