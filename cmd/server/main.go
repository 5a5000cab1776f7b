package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/adapters/event"
	httpAdapter "github.com/MoSamy004/Portfolio/adapters/http"
	"github.com/MoSamy004/Portfolio/adapters/media_storage"
	"github.com/MoSamy004/Portfolio/adapters/persistence"
	authUC "github.com/MoSamy004/Portfolio/internal/application/usecase/auth"
	mediaUC "github.com/MoSamy004/Portfolio/internal/application/usecase/media"
	portfolioUC "github.com/MoSamy004/Portfolio/internal/application/usecase/portfolio"
	"github.com/MoSamy004/Portfolio/internal/config"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/auth"
	"github.com/MoSamy004/Portfolio/pkg/logger"
	"github.com/MoSamy004/Portfolio/pkg/tracing"
)

const shutdownTimeout = 15 * time.Second

func main() {
	fmt.Println("Start Portfolio API Server...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	shutdownTracer, err := tracing.Setup(cfg, appLogger, "portfolio-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}

	// Store
	store, closeStore, err := persistence.NewPortfolioStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init portfolio store", err, zap.String("driver", cfg.Store.Driver))
	}

	var rdb *redis.Client
	var repo portfolio.Repository = store
	if cfg.Redis.Addr != "" {
		rdb, err = persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, serving without cache", zap.Error(err))
		} else {
			repo = persistence.NewCachedPortfolioRepo(store, rdb, cfg.Redis.PortfolioTTL, appLogger)
		}
	}

	// Services
	uploader, err := media_storage.NewUploader(context.Background(), cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init uploader", err)
	}

	publisher, closePublisher, err := event.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}

	// Use Cases
	portfolioUseCase := portfolioUC.NewPortfolioUseCase(repo, publisher, appLogger)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(uploader, publisher, appLogger)
	deleteMediaUseCase := mediaUC.NewDeleteMediaUseCase(uploader, publisher, appLogger)

	// HTTP Handlers
	deps := httpAdapter.RouterDeps{
		Portfolio: httpAdapter.NewPortfolioHandler(portfolioUseCase, appLogger),
		Media:     httpAdapter.NewMediaHandler(uploadMediaUseCase, deleteMediaUseCase, cfg.Upload.MaxBytes, appLogger),
		Logger:    appLogger,
	}

	if cfg.AdminAuthEnabled() {
		creds, err := authUC.NewAdminCredentials(cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.PasswordHash)
		if err != nil {
			appLogger.Fatal("invalid admin credentials", err)
		}
		jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
		deps.JWT = jwtSvc
		deps.Auth = httpAdapter.NewAuthHandler(authUC.NewLoginUseCase(creds, jwtSvc, appLogger), appLogger)
	} else {
		appLogger.Warn("ADMIN_USERNAME or JWT_SECRET not set, write routes are unauthenticated")
	}

	if local, ok := uploader.(*media_storage.LocalAdapter); ok {
		deps.UploadsDir = local.Dir()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           httpAdapter.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port), zap.String("storage", uploader.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("cannot run server", err)
		}
	}()

	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("forced shutdown", err)
	}
	closePublisher()
	if rdb != nil {
		_ = rdb.Close()
	}
	closeStore(ctx)
	if err := shutdownTracer(ctx); err != nil {
		appLogger.Error("failed to flush traces", err)
	}
}
