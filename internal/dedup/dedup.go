// Package dedup remembers webhook event ids for a while so that a redelivered
// event is answered only once.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultTTL = 10 * time.Minute
	keyPrefix  = "quakebot:event:"
)

// Deduper reports whether an event id is seen for the first time.
type Deduper interface {
	// FirstSeen marks id and reports true only for the first call within the TTL.
	FirstSeen(ctx context.Context, id string) (bool, error)
	// Forget drops id so that a later delivery is handled again.
	Forget(ctx context.Context, id string) error
	Close() error
}

// RedisStore shares seen ids across replicas through SETNX with expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Deduper = (*RedisStore)(nil)

// NewRedisStore connects to addr and checks the connection.
func NewRedisStore(ctx context.Context, addr string, ttl time.Duration) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return NewRedisStoreFromClient(rdb, ttl), nil
}

func NewRedisStoreFromClient(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) FirstSeen(ctx context.Context, id string) (bool, error) {
	set, err := s.rdb.SetNX(ctx, keyPrefix+id, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX: %w", err)
	}
	return set, nil
}

func (s *RedisStore) Forget(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// MemoryStore keeps seen ids in process memory.
type MemoryStore struct {
	cache *ttlcache.Cache[string, struct{}]
}

var _ Deduper = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := ttlcache.New[string, struct{}](
		ttlcache.WithTTL[string, struct{}](ttl),
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)
	go cache.Start()
	return &MemoryStore{cache: cache}
}

func (s *MemoryStore) FirstSeen(_ context.Context, id string) (bool, error) {
	_, found := s.cache.GetOrSet(id, struct{}{})
	return !found, nil
}

func (s *MemoryStore) Forget(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

func (s *MemoryStore) Close() error {
	s.cache.Stop()
	return nil
}
