package service

import (
	"auth-service/logger"
	"auth-service/model"
	"auth-service/repository"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const refreshCacheTTL = 10 * time.Minute

// RefreshTokenStore owns the lifecycle of refresh token records. Positive
// existence answers may be cached in Redis; revocation always clears them.
type RefreshTokenStore struct {
	repo  repository.ITokenRepository
	cache ICacheClient
	now   func() time.Time
}

// NewRefreshTokenStore creates a store. cache may be nil to disable caching.
func NewRefreshTokenStore(repo repository.ITokenRepository, cache ICacheClient) *RefreshTokenStore {
	return &RefreshTokenStore{repo: repo, cache: cache, now: time.Now}
}

func refreshCacheKey(id int) string {
	return fmt.Sprintf("refresh_token:%d", id)
}

// Persist stores a new record for userID expiring one year from now.
func (s *RefreshTokenStore) Persist(ctx context.Context, userID int) (*model.RefreshToken, error) {
	record := &model.RefreshToken{
		UserID:    userID,
		ExpiresAt: s.now().Add(RefreshTokenTTL),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, storeFailure("could not persist refresh token", err)
	}
	return record, nil
}

// Exists reports whether the record is live: known, not soft-deleted and not
// expired. A positive answer is cached no longer than the record has left.
func (s *RefreshTokenStore) Exists(ctx context.Context, id int) (bool, error) {
	key := refreshCacheKey(id)
	if s.cache != nil {
		_, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("key", key).Warn("Refresh token cache lookup failed")
		}
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, storeFailure("could not look up refresh token", err)
	}

	now := s.now()
	if record.IsRevoked() || record.IsExpired(now) {
		return false, nil
	}

	if s.cache != nil {
		ttl := record.ExpiresAt.Sub(now)
		if ttl > refreshCacheTTL {
			ttl = refreshCacheTTL
		}
		if err := s.cache.Set(ctx, key, "1", ttl).Err(); err != nil {
			logger.Log.WithError(err).WithField("key", key).Warn("Refresh token cache write failed")
		}
	}
	return true, nil
}

// Revoke soft-deletes the record. It reports false when there was no live
// record to revoke.
func (s *RefreshTokenStore) Revoke(ctx context.Context, id int) (bool, error) {
	revoked, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		return false, storeFailure("could not revoke refresh token", err)
	}
	s.evict(ctx, refreshCacheKey(id))
	return revoked, nil
}

// RevokeAllForUser soft-deletes every live record of userID.
func (s *RefreshTokenStore) RevokeAllForUser(ctx context.Context, userID int) ([]int, error) {
	ids, err := s.repo.SoftDeleteByUserID(ctx, userID)
	if err != nil {
		return nil, storeFailure("could not revoke refresh tokens", err)
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, refreshCacheKey(id))
	}
	s.evict(ctx, keys...)

	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"revoked": len(ids),
	}).Info("Revoked all refresh tokens for user")
	return ids, nil
}

func (s *RefreshTokenStore) evict(ctx context.Context, keys ...string) {
	if s.cache == nil || len(keys) == 0 {
		return
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Error("Refresh token cache eviction failed")
	}
}
