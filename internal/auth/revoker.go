package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const cacheKeyRevokedSession = "legoset:session:revoked:%s"

// Revoker remembers logged-out session ids until their tokens can no longer
// be valid.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type redisRevoker struct {
	rdb *redis.Client
}

func (r *redisRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	return r.rdb.Set(ctx, fmt.Sprintf(cacheKeyRevokedSession, sessionID), 1, ttl).Err()
}

func (r *redisRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, fmt.Sprintf(cacheKeyRevokedSession, sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// memoryRevoker only covers a single process.
type memoryRevoker struct {
	c *cache.Cache
}

func (r *memoryRevoker) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	r.c.Set(sessionID, struct{}{}, ttl)
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	_, found := r.c.Get(sessionID)
	return found, nil
}

// NewRevoker uses Redis when a client is configured and an in-process cache
// otherwise.
func NewRevoker(rdb *redis.Client) Revoker {
	if rdb != nil {
		return &redisRevoker{rdb: rdb}
	}
	return &memoryRevoker{c: cache.New(5*time.Minute, 10*time.Minute)}
}
