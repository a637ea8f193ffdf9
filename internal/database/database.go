package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB wraps the connection pool used by the seeder's Postgres mirror
type DB struct {
	Pool *pgxpool.Pool
	log  *logrus.Logger
}

// Connect opens a small pool; the mirror runs one transaction at a time.
func Connect(ctx context.Context, databaseURL string, log *logrus.Logger) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	log.WithField("host", poolConfig.ConnConfig.Host).Info("Database connected")
	return &DB{Pool: pool, log: log}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	db.Pool.Close()
}

type migration struct {
	Version int
	SQL     string
}

var migrations = []migration{
	{Version: 1, SQL: createTurismoTable},
}

// pending returns the migrations whose version is not in applied, in list order
func pending(all []migration, applied map[int]bool) []migration {
	out := []migration{}
	for _, m := range all {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// RunMigrations applies each pending migration in its own transaction,
// recording the version alongside the schema change.
func (db *DB) RunMigrations(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	applied := make(map[int]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range pending(migrations, applied) {
		db.log.WithField("version", m.Version).Info("Applying migration")
		err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

const createTurismoTable = `
CREATE TABLE IF NOT EXISTS turismo (
    id TEXT PRIMARY KEY,
    position INT NOT NULL,
    from_comunidad TEXT,
    from_provincia TEXT,
    to_comunidad TEXT,
    to_provincia TEXT,
    fecha_inicio TEXT,
    fecha_fin TEXT,
    period TEXT,
    total INT NOT NULL DEFAULT 0,
    synced_at TIMESTAMP DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_turismo_to_comunidad ON turismo(to_comunidad);
CREATE INDEX IF NOT EXISTS idx_turismo_fecha_inicio ON turismo(fecha_inicio);
`
