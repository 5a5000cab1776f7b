package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const mongoConnectTimeout = 10 * time.Second

// MongoConnector hands out one shared database handle. The client is created
// on first use; a failed attempt is retried on the next call, an established
// client is never replaced.
type MongoConnector struct {
	uri    string
	dbName string
	logger logger.Logger

	mu     sync.Mutex
	client *mongo.Client
}

func NewMongoConnector(uri, dbName string, log logger.Logger) *MongoConnector {
	return &MongoConnector{uri: uri, dbName: dbName, logger: log}
}

func (c *MongoConnector) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client.Database(c.dbName), nil
	}
	if c.uri == "" {
		return nil, errors.New("mongo uri is not configured")
	}

	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(c.uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo failed: %w", err)
	}

	c.client = client
	c.logger.Info("Connect MongoDB successfully.", zap.String("database", c.dbName))
	return client.Database(c.dbName), nil
}

// Close disconnects the shared client if one was established. Safe to call
// more than once.
func (c *MongoConnector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	if err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	c.logger.Info("Closed MongoDB connection")
	return nil
}
