package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"payment_relay/internal/config"
	"payment_relay/internal/usecase/interfaces"

	"github.com/go-redsync/redsync/v4"
	redsync_redis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const keyPrefix = "payment-relay:verify:"

// NewRedisClient opens and pings the Redis connection used for locking.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     20,
		MinIdleConns: 5,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	log.WithField("addr", cfg.Addr).Info("[lock][redis] connection established")
	return client, nil
}

// RedisLocker serializes verification across relay instances with a redsync
// mutex per reference. The TTL bounds how long a crashed holder blocks others.
type RedisLocker struct {
	client *redis.Client
	rs     *redsync.Redsync
	ttl    time.Duration
}

var _ interfaces.IVerificationLocker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		rs:     redsync.New(redsync_redis.NewPool(client)),
		ttl:    ttl,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	name := keyPrefix + key
	mutex := l.rs.NewMutex(name,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(1),
	)

	if err := mutex.TryLockContext(ctx); err != nil {
		if l.isHeld(ctx, name, err) {
			return nil, interfaces.ErrLockHeld
		}
		return nil, fmt.Errorf("acquire verify lock: %w", err)
	}

	return func() {
		if _, err := mutex.UnlockContext(context.Background()); err != nil {
			log.WithError(err).WithField("reference", key).Warn("[lock][redis] release failed")
		}
	}, nil
}

func (l *RedisLocker) isHeld(ctx context.Context, name string, err error) bool {
	var taken *redsync.ErrTaken
	if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
		return true
	}
	n, existsErr := l.client.Exists(ctx, name).Result()
	return existsErr == nil && n > 0
}
