package portfolio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

// CacheRefresher reloads a cached copy of the aggregate from its source.
type CacheRefresher interface {
	Refresh(ctx context.Context) error
}

// WarmCacheUseCase repopulates the read cache after a section was replaced,
// so the first reader after a write does not pay for the store round trip.
type WarmCacheUseCase struct {
	cache  CacheRefresher
	logger logger.Logger
}

func NewWarmCacheUseCase(cache CacheRefresher, log logger.Logger) *WarmCacheUseCase {
	return &WarmCacheUseCase{cache: cache, logger: log}
}

// Execute ignores events it does not know. A refresh error is returned so
// the caller can leave the message uncommitted.
func (uc *WarmCacheUseCase) Execute(ctx context.Context, evt service.PortfolioEvent) error {
	ctx, span := tracer.Start(ctx, "WarmCache")
	defer span.End()

	if evt.EventType != service.PortfolioEventSectionReplaced {
		uc.logger.Warn("Skipping unknown portfolio event", zap.String("event_type", string(evt.EventType)))
		return nil
	}
	section, err := portfolio.ParseSection(evt.Section)
	if err != nil {
		uc.logger.Warn("Skipping portfolio event for unknown section", zap.Error(err))
		return nil
	}

	if err := uc.cache.Refresh(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("refresh portfolio cache failed: %w", err)
	}
	uc.logger.Info("Portfolio cache refreshed", zap.String("section", string(section)))
	return nil
}
