package persistence

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// NewPortfolioStore builds the repository for the configured store driver.
// The returned close func releases the shared connection on shutdown.
func NewPortfolioStore(cfg config.Config, log logger.Logger) (portfolio.Repository, func(context.Context), error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	switch driver {
	case "", StoreDriverMongo:
		if cfg.Mongo.URI == "" {
			return nil, nil, fmt.Errorf("MONGODB_URI is required for the %q store", StoreDriverMongo)
		}
		conn := NewMongoConnector(cfg.Mongo.URI, cfg.Mongo.Database, log)
		closeFn := func(ctx context.Context) {
			if err := conn.Close(ctx); err != nil {
				log.Warn("Failed to close MongoDB", zap.Error(err))
			}
		}
		return NewMongoPortfolioRepo(conn, log), closeFn, nil

	case StoreDriverPostgres:
		if cfg.DB.DSN == "" {
			return nil, nil, fmt.Errorf("DB_DSN is required for the %q store", StoreDriverPostgres)
		}
		if err := Migrate(cfg.DB.DSN); err != nil {
			return nil, nil, err
		}
		log.Info("Database migrations applied")
		conn := NewPostgresConnector(cfg.DB.DSN, log)
		return NewPostgresPortfolioRepo(conn, log), func(context.Context) { conn.Close() }, nil

	case StoreDriverMemory:
		log.Warn("Using in-memory portfolio store, content is lost on restart")
		return NewMemoryPortfolioRepo(), func(context.Context) {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
