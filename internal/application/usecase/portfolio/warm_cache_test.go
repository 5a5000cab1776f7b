package portfolio

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MoSamy004/Portfolio/internal/application/service"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

func TestWarmCache_RefreshesOnSectionReplaced(t *testing.T) {
	r := &countingRefresher{}
	uc := NewWarmCacheUseCase(r, logger.NewNop())

	err := uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSectionReplaced,
		Section:   "projects",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
}

func TestWarmCache_IgnoresUnknownEvents(t *testing.T) {
	r := &countingRefresher{}
	uc := NewWarmCacheUseCase(r, logger.NewNop())

	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{EventType: "renamed"}))
	require.NoError(t, uc.Execute(context.Background(), service.PortfolioEvent{
		EventType: service.PortfolioEventSectionReplaced,
		Section:   "hobbies",
	}))
	assert.Zero(t, r.calls)
}

func TestWarmCache_ReturnsRefreshError(t *testing.T) {
	r := &countingRefresher{err: errors.New("redis: connection refused")}
	uc := NewWarmCacheUseCase(r, logger.NewNop())

	err := uc.Execute(context.Background(), service.PortfolioEvent{EventType: service.PortfolioEventSectionReplaced, Section: "profile"})
	assert.ErrorContains(t, err, "connection refused")
}
