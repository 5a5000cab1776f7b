package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MoSamy004/Portfolio/internal/domain/portfolio"
	"github.com/MoSamy004/Portfolio/pkg/logger"
)

const (
	PortfolioCacheKey      = "portfolio:" + portfolio.DocumentID
	defaultPortfolioTTL    = 5 * time.Minute
	cacheOperationDeadline = time.Second
)

// PortfolioCacheGenKey is bumped on every write. A cache fill only lands
// when the generation it read before loading is still current.
const PortfolioCacheGenKey = PortfolioCacheKey + ":gen"

// CachedPortfolioRepo is a read-through cache in front of another
// repository. Redis failures are logged and never fail a request.
type CachedPortfolioRepo struct {
	inner  portfolio.Repository
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ portfolio.Repository = (*CachedPortfolioRepo)(nil)

func NewCachedPortfolioRepo(inner portfolio.Repository, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedPortfolioRepo {
	if ttl <= 0 {
		ttl = defaultPortfolioTTL
	}
	return &CachedPortfolioRepo{inner: inner, rdb: rdb, ttl: ttl, logger: log}
}

func (r *CachedPortfolioRepo) Fetch(ctx context.Context) (*portfolio.Portfolio, error) {
	if p, ok := r.readCache(ctx); ok {
		return p, nil
	}

	gen, genErr := r.generation(ctx)
	p, err := r.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		r.logger.Warn("Portfolio cache generation unavailable, skipping fill", zap.Error(genErr))
		return p, nil
	}
	if err := r.writeCache(ctx, p, gen); err != nil {
		r.logger.Warn("Portfolio cache write failed", zap.Error(err))
	}
	return p, nil
}

func (r *CachedPortfolioRepo) ReplaceProfile(ctx context.Context, profile portfolio.Profile) error {
	if err := r.inner.ReplaceProfile(ctx, profile); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPortfolioRepo) ReplaceProjects(ctx context.Context, projects []portfolio.Project) error {
	if err := r.inner.ReplaceProjects(ctx, projects); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedPortfolioRepo) ReplaceExperiences(ctx context.Context, experiences []portfolio.Experience) error {
	if err := r.inner.ReplaceExperiences(ctx, experiences); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// Refresh reloads the aggregate from the inner repository and stores it,
// unless a write lands while it is loading.
func (r *CachedPortfolioRepo) Refresh(ctx context.Context) error {
	gen, err := r.generation(ctx)
	if err != nil {
		return err
	}
	p, err := r.inner.Fetch(ctx)
	if err != nil {
		return err
	}
	return r.writeCache(ctx, p, gen)
}

func (r *CachedPortfolioRepo) generation(ctx context.Context) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, cacheOperationDeadline)
	defer cancel()
	gen, err := r.rdb.Get(cctx, PortfolioCacheGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *CachedPortfolioRepo) readCache(ctx context.Context) (*portfolio.Portfolio, bool) {
	cctx, cancel := context.WithTimeout(ctx, cacheOperationDeadline)
	defer cancel()

	b, err := r.rdb.Get(cctx, PortfolioCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Portfolio cache read failed, falling back to store", zap.Error(err))
		}
		return nil, false
	}

	var p portfolio.Portfolio
	if err := json.Unmarshal(b, &p); err != nil {
		r.logger.Warn("Portfolio cache entry is corrupt", zap.Error(err))
		return nil, false
	}
	return p.Normalize(), true
}

// writeCache stores p only while the generation still equals gen. A stale
// fill is dropped silently.
func (r *CachedPortfolioRepo) writeCache(ctx context.Context, p *portfolio.Portfolio, gen int64) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	cctx, cancel := context.WithTimeout(ctx, cacheOperationDeadline)
	defer cancel()

	err = r.rdb.Watch(cctx, func(tx *redis.Tx) error {
		current, err := tx.Get(cctx, PortfolioCacheGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(cctx, func(pipe redis.Pipeliner) error {
			pipe.Set(cctx, PortfolioCacheKey, payload, r.ttl)
			return nil
		})
		return err
	}, PortfolioCacheGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (r *CachedPortfolioRepo) invalidate(ctx context.Context) {
	cctx, cancel := context.WithTimeout(ctx, cacheOperationDeadline)
	defer cancel()
	_, err := r.rdb.TxPipelined(cctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(cctx, PortfolioCacheGenKey)
		pipe.Del(cctx, PortfolioCacheKey)
		return nil
	})
	if err != nil {
		r.logger.Warn("Portfolio cache invalidation failed", zap.Error(err))
	}
}
