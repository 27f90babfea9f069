package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/domain"
)

var _ domain.AnchorRepository = (*CachedAnchorRepository)(nil)

// CachedAnchorRepository is a read-through cache over the anchor store.
// Anchors change rarely but ride along on every task read, so the per-user
// list is the one query worth caching. The cache is never authoritative:
// any redis failure falls through to Postgres.
type CachedAnchorRepository struct {
	next   domain.AnchorRepository
	cache  *redis.Client
	logger *zap.Logger
}

const anchorCacheTTL = 30 * time.Minute

func NewCachedAnchorRepository(next domain.AnchorRepository, cache *redis.Client, logger *zap.Logger) *CachedAnchorRepository {
	return &CachedAnchorRepository{
		next:   next,
		cache:  cache,
		logger: logger,
	}
}

func (r *CachedAnchorRepository) cacheKey(userID string) string {
	return fmt.Sprintf("anchors:%s", userID)
}

func (r *CachedAnchorRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		r.logger.Warn("anchor cache invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *CachedAnchorRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Anchor, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var anchors []*domain.Anchor
		if err := json.Unmarshal([]byte(val), &anchors); err == nil {
			return anchors, nil
		}

		r.logger.Warn("corrupted anchor cache entry, dropping key",
			zap.String("user_id", userID))
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Warn("anchor cache read error", zap.Error(err))
	}

	anchors, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(anchors); err == nil {
		if setErr := r.cache.Set(ctx, key, data, anchorCacheTTL).Err(); setErr != nil {
			r.logger.Warn("anchor cache write error", zap.Error(setErr))
		}
	}

	return anchors, nil
}

func (r *CachedAnchorRepository) GetByID(ctx context.Context, id string) (*domain.Anchor, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedAnchorRepository) Create(ctx context.Context, anchor *domain.Anchor) error {
	if err := r.next.Create(ctx, anchor); err != nil {
		return err
	}
	r.invalidate(ctx, anchor.UserID)
	return nil
}

func (r *CachedAnchorRepository) CreateBatch(ctx context.Context, anchors []*domain.Anchor) error {
	if err := r.next.CreateBatch(ctx, anchors); err != nil {
		return err
	}
	if len(anchors) > 0 {
		r.invalidate(ctx, anchors[0].UserID)
	}
	return nil
}

func (r *CachedAnchorRepository) Update(ctx context.Context, anchor *domain.Anchor) error {
	if err := r.next.Update(ctx, anchor); err != nil {
		return err
	}
	r.invalidate(ctx, anchor.UserID)
	return nil
}

func (r *CachedAnchorRepository) Delete(ctx context.Context, id string) error {
	anchor, err := r.next.GetByID(ctx, id)
	if err == nil && anchor != nil {
		defer r.invalidate(ctx, anchor.UserID)
	}

	return r.next.Delete(ctx, id)
}
