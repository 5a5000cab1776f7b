package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/adapters/event"
	"github.com/MoSamy004/Portfolio/adapters/persistence"
	"github.com/MoSamy004/Portfolio/internal/application/service"
	portfolioUC "github.com/MoSamy004/Portfolio/internal/application/usecase/portfolio"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/pkg/logger"
	"github.com/MoSamy004/Portfolio/pkg/tracing"
)

const consumerGroup = "portfolio-cache-warmer"

func main() {
	fmt.Println("Starting Portfolio Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if len(cfg.Kafka.Brokers) == 0 {
		appLogger.Fatal("KAFKA_BROKERS is required for the worker", errors.New("no brokers configured"))
	}
	if cfg.Redis.Addr == "" {
		appLogger.Fatal("REDIS_ADDR is required for the worker", errors.New("no cache configured"))
	}

	shutdownTracer, err := tracing.Setup(cfg, appLogger, "portfolio-worker")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}

	store, closeStore, err := persistence.NewPortfolioStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init portfolio store", err)
	}

	rdb, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}

	cache := persistence.NewCachedPortfolioRepo(store, rdb, cfg.Redis.PortfolioTTL, appLogger)
	warmCacheUC := portfolioUC.NewWarmCacheUseCase(cache, appLogger)

	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPortfolioEvents,
		GroupID:  consumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicPortfolioEvents), zap.String("group", consumerGroup))

	for {
		msg, err := consumer.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			appLogger.Error("Failed to read message from Kafka", err)
			continue
		}

		var payload service.PortfolioEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal event, skipping", err, zap.Int64("offset", msg.Offset))
			commitMessage(appLogger, consumer, msg)
			continue
		}

		if err := warmCacheUC.Execute(ctx, payload); err != nil {
			appLogger.Error("Failed to process event", err, zap.String("section", payload.Section))
			continue
		}

		commitMessage(appLogger, consumer, msg)
	}

	appLogger.Info("Shutting down worker...")
	if err := consumer.Close(); err != nil {
		appLogger.Error("failed to close consumer", err)
	}
	_ = rdb.Close()
	closeStore(context.Background())
	if err := shutdownTracer(context.Background()); err != nil {
		appLogger.Error("failed to flush traces", err)
	}
}

func commitMessage(appLogger logger.Logger, consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		appLogger.Error("Failed to commit message", err)
	}
}
