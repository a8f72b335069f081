// Package cli implements the seedgen command tree.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utafrali/perfume-seed/internal/app"
	"github.com/utafrali/perfume-seed/internal/config"
	apperrors "github.com/utafrali/perfume-seed/pkg/errors"
	"github.com/utafrali/perfume-seed/pkg/logger"
)

const envLogLevel = "LOG_LEVEL"

// rootOptions holds the persistent flags.
type rootOptions struct {
	logLevel string
}

// NewRootCmd builds the seedgen command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "seedgen",
		Short: "Generate the storefront catalog seed",
		Long: `seedgen expands the perfume catalog into categories, products and
50ml/100ml variants and renders them as a PostgreSQL seed script, or applies
them directly to a database.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(
		newGenerateCmd(opts),
		newApplyCmd(opts),
		newSchemaCmd(opts),
		newCheckCmd(opts),
		newCatalogCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree and returns the process exit code. Errors
// are printed to the command's error stream.
func Execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return apperrors.ExitCode(err)
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	var (
		outputPath    string
		catalogFile   string
		noTransaction bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the seed script",
		Long: `Write the seed script to SEED_OUTPUT_PATH (default supabase/seed.sql).
Use "-o -" to write to standard output. The file is replaced atomically and
left untouched when generation fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := root.overrides(cmd)
			setIfChanged(cmd, overrides, "output", config.EnvOutputPath, outputPath)
			setIfChanged(cmd, overrides, "catalog", config.EnvCatalogFile, catalogFile)
			setIfChanged(cmd, overrides, "no-transaction", config.EnvTransaction, strconv.FormatBool(!noTransaction))

			return withApp(cmd, overrides, func(ctx context.Context, a *app.App) error {
				_, err := a.GenerateRun(ctx)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", `Output path, "-" for stdout; overrides SEED_OUTPUT_PATH`)
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "Catalog YAML file; overrides SEED_CATALOG_FILE")
	cmd.Flags().BoolVar(&noTransaction, "no-transaction", false, "Do not wrap the script in BEGIN/COMMIT")
	return cmd
}

func newApplyCmd(root *rootOptions) *cobra.Command {
	var (
		catalogFile string
		migrate     bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the seed to PostgreSQL in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := root.overrides(cmd)
			setIfChanged(cmd, overrides, "catalog", config.EnvCatalogFile, catalogFile)
			setIfChanged(cmd, overrides, "migrate", config.EnvRunMigrations, strconv.FormatBool(migrate))

			return withApp(cmd, overrides, func(ctx context.Context, a *app.App) error {
				_, err := a.ApplyRun(ctx)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "Catalog YAML file; overrides SEED_CATALOG_FILE")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "Create the catalog tables first; overrides SEED_RUN_MIGRATIONS")
	return cmd
}

func newSchemaCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL of the seeded tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root.overrides(cmd), func(_ context.Context, a *app.App) error {
				return a.Schema()
			})
		},
	}
}

func newCatalogCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the embedded default catalog as YAML",
		Long: `Print the built-in catalog. Edit a copy and pass it with --catalog or
SEED_CATALOG_FILE to seed a different assortment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root.overrides(cmd), func(_ context.Context, a *app.App) error {
				return a.DefaultCatalog()
			})
		},
	}
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the apply backends and print a JSON report",
		Long: `Connect once to PostgreSQL, and to Redis and Kafka when they are
enabled, without writing anything. Exits non-zero if any backend is down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, root.overrides(cmd), func(ctx context.Context, a *app.App) error {
				_, err := a.Check(ctx)
				return err
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the seedgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "seedgen "+app.Version)
		},
	}
}

func (o *rootOptions) overrides(cmd *cobra.Command) map[string]string {
	overrides := make(map[string]string)
	setIfChanged(cmd, overrides, "log-level", envLogLevel, o.logLevel)
	return overrides
}

// setIfChanged records value under env only when the flag was given, so
// unset flags fall through to the environment and its defaults.
func setIfChanged(cmd *cobra.Command, overrides map[string]string, flag, env, value string) {
	if cmd.Flags().Changed(flag) {
		overrides[env] = value
	}
}

// withApp loads configuration, builds the App and runs fn. stdout carries
// only the artifact; logs go to stderr.
func withApp(cmd *cobra.Command, overrides map[string]string, fn func(context.Context, *app.App) error) error {
	cfg, err := config.LoadWithOverrides(overrides)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(config.ServiceName, cfg.LogLevel, cmd.ErrOrStderr())
	ctx := logger.NewContext(cmd.Context(), log)

	a, err := app.New(ctx, cfg, log, app.WithStdout(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer a.Close()

	log.Debug("starting run",
		slog.String("command", cmd.Name()),
		slog.String("environment", cfg.Environment),
	)
	return fn(ctx, a)
}
