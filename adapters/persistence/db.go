package persistence

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MoSamy004/Portfolio/pkg/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// PostgresConnector lazily opens one shared pool, with the same
// connect-once semantics as MongoConnector.
type PostgresConnector struct {
	dsn    string
	logger logger.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func NewPostgresConnector(dsn string, log logger.Logger) *PostgresConnector {
	return &PostgresConnector{dsn: dsn, logger: log}
}

func (c *PostgresConnector) Pool(ctx context.Context) (*pgxpool.Pool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		return c.pool, nil
	}
	if c.dsn == "" {
		return nil, errors.New("database dsn is not configured")
	}

	pool, err := pgxpool.New(ctx, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("do not create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	c.pool = pool
	c.logger.Info("Connect PostgreSQL successfully.")
	return pool, nil
}

func (c *PostgresConnector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
		c.logger.Info("Closed PostgreSQL pool")
	}
}

// Migrate applies the embedded up migrations.
func Migrate(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
