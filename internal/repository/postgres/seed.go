package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/utafrali/perfume-seed/internal/domain"
	"github.com/utafrali/perfume-seed/internal/seed"
	"github.com/utafrali/perfume-seed/pkg/database"
	"github.com/utafrali/perfume-seed/pkg/sqlscript"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

// Migrations returns the schema migrations of the seeded tables.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// SchemaSQL returns every migration concatenated in apply order.
func SchemaSQL() (string, error) {
	fsys := Migrations()
	entries, err := fs.Glob(fsys, "*.up.sql")
	if err != nil {
		return "", fmt.Errorf("list migrations: %w", err)
	}

	var b strings.Builder
	for i, name := range entries {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", name, err)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "-- %s\n", name)
		b.Write(content)
	}
	return b.String(), nil
}

// SeedRepository writes a rendered seed script into PostgreSQL.
type SeedRepository struct {
	pool database.DBTX
}

// NewSeedRepository creates a new PostgreSQL-backed seed repository.
func NewSeedRepository(pool database.DBTX) *SeedRepository {
	return &SeedRepository{pool: pool}
}

// Migrate applies the embedded schema migrations.
func (r *SeedRepository) Migrate(ctx context.Context, logger *slog.Logger) error {
	return database.RunMigrations(ctx, r.pool, Migrations(), logger)
}

// Apply executes every statement of script in a single transaction. The
// script's own BEGIN/COMMIT wrapping is ignored; the repository owns the
// transaction. Any failure rolls the whole batch back.
func (r *SeedRepository) Apply(ctx context.Context, script *sqlscript.Script) (err error) {
	ctx, end := database.TraceQuery(ctx, "ApplySeed", fmt.Sprintf("%d statements", script.Len()))
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i, stmt := range script.Statements {
		stmtCtx, endStmt := database.TraceQuery(ctx, "SeedStatement", stmt.SQL)
		_, execErr := tx.Exec(stmtCtx, stmt.SQL)
		endStmt(execErr)
		if execErr != nil {
			if isUniqueViolation(execErr) {
				return fmt.Errorf("statement %d: duplicate key: %w", i, execErr)
			}
			return fmt.Errorf("statement %d: %w", i, execErr)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// countQuery returns the single-row query counting the seeded tables.
func countQuery(schema string) string {
	return fmt.Sprintf("SELECT (SELECT count(*) FROM %s), (SELECT count(*) FROM %s), (SELECT count(*) FROM %s)",
		sqlscript.Qualify(schema, seed.TableCategories),
		sqlscript.Qualify(schema, seed.TableProducts),
		sqlscript.Qualify(schema, seed.TableProductVariants),
	)
}

// CountRows returns the number of rows in each seeded table.
func (r *SeedRepository) CountRows(ctx context.Context, schema string) (counts domain.Counts, err error) {
	query := countQuery(schema)
	ctx, end := database.TraceQuery(ctx, "CountRows", query)
	defer func() { end(err) }()

	err = r.pool.QueryRow(ctx, query).Scan(&counts.Categories, &counts.Products, &counts.Variants)
	if err != nil {
		return domain.Counts{}, fmt.Errorf("count seeded rows: %w", err)
	}
	return counts, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
