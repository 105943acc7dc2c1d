package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Migrate applies the pending goose migrations found in dir and returns the
// names of the files it applied.
func Migrate(ctx context.Context, dsn, dir string) ([]string, error) {
	const op = "storage.postgresql.Migrate"

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer db.Close()

	applied, err := ApplyMigrations(ctx, db, dir)
	if err != nil {
		return applied, fmt.Errorf("%s: %w", op, err)
	}
	return applied, nil
}

// ApplyMigrations is Migrate over an already open database handle.
func ApplyMigrations(ctx context.Context, db *sql.DB, dir string) ([]string, error) {
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	return resultNames(results), err
}

// RollbackMigrations undoes every applied migration of dir, newest first.
func RollbackMigrations(ctx context.Context, db *sql.DB, dir string) ([]string, error) {
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}

	results, err := provider.DownTo(ctx, 0)
	return resultNames(results), err
}

func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load migrations from %s: %w", dir, err)
	}
	return provider, nil
}

func resultNames(results []*goose.MigrationResult) []string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		names = append(names, filepath.Base(r.Source.Path))
	}
	return names
}
