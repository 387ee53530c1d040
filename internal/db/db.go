package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"priceintel/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Ping verifies the database connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevCatalog inserts test catalog entries for development. Skips codes
// that already exist.
func (d *DB) SeedDevCatalog(ctx context.Context) error {
	entries := []struct {
		code        int64
		description string
		shortName   string
		category    string
		keywords    string
	}{
		{150743, "notebook, 15 inch screen, core i5, 8 gb ram, 256 gb ssd", "notebook", "computing", "notebook laptop computer"},
		{348293, "a4 printing paper, 75 g, ream of 500 sheets", "a4 paper", "office", "paper a4 ream sheets"},
		{271083, "swivel office chair with armrests", "chair", "furniture", "chair swivel office"},
		{439544, "ink cartridge, inkjet printer, black", "cartridge", "computing", "cartridge ink toner"},
		{226218, "neutral liquid detergent, 500 ml bottle", "detergent", "cleaning", "detergent cleaning neutral"},
	}

	query := `
		INSERT INTO catalog_entries (id, code, description, short_name, category, keywords)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`

	for _, e := range entries {
		if _, err := d.Pool.Exec(ctx, query, e.code, e.description, e.shortName, e.category, e.keywords); err != nil {
			return fmt.Errorf("failed to seed catalog code %d: %w", e.code, err)
		}
	}

	return nil
}
