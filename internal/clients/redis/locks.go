package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
)

// LockService hands out short-lived exclusive locks keyed by resource id.
// Used to serialize generation dispatch per generation id.
type LockService interface {
	// Acquire returns a release func, or ok=false when the lock is held
	// elsewhere.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
	Close() error
}

type lockService struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// Compare-and-delete so a lock held past its TTL is never released by a
// later holder.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func NewLockService(log *logger.Logger) (LockService, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_LOCK_PREFIX"))
	if prefix == "" {
		prefix = "sd:lock"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &lockService{
		log:    log.With("service", "RedisLockService"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (s *lockService) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	fullKey := s.prefix + ":" + key
	token := uuid.NewString()

	ok, err := s.rdb.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		relCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := releaseScript.Run(relCtx, s.rdb, []string{fullKey}, token).Err(); err != nil && err != goredis.Nil {
			s.log.Warn("Failed to release lock", "key", fullKey, "error", err)
		}
	}
	return release, true, nil
}

func (s *lockService) Close() error {
	return s.rdb.Close()
}
