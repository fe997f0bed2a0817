package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/washline-backend/pkg/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultLockTTL   = 10 * time.Second
	lockRetryBackoff = 50 * time.Millisecond
	lockScope        = "price_dimension"
)

// ErrDimensionBusy is returned when another writer holds the dimension lock
// for longer than the caller is willing to wait.
var ErrDimensionBusy = errors.New("price dimension is locked by another writer")

// ReleaseFunc frees a lock taken by a DimensionLocker.
type ReleaseFunc func(ctx context.Context) error

// DimensionLocker serialises writers that target the same dimension key.
// Lock is called inside the write transaction tx.
type DimensionLocker interface {
	Lock(ctx context.Context, tx *gorm.DB, key DimensionKey) (ReleaseFunc, error)
}

func noRelease(context.Context) error { return nil }

// AdvisoryLocker takes a transaction-scoped Postgres advisory lock; it is
// released by commit or rollback.
type AdvisoryLocker struct{}

func (AdvisoryLocker) Lock(ctx context.Context, tx *gorm.DB, key DimensionKey) (ReleaseFunc, error) {
	if err := tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key.String()).Error; err != nil {
		return nil, fmt.Errorf("advisory lock: %w", err)
	}
	return noRelease, nil
}

// NoopLocker relies on the storage constraint alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, *gorm.DB, DimensionKey) (ReleaseFunc, error) {
	return noRelease, nil
}

// lockStore defines the operations used by RedisLocker.
type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, owner string) (bool, error)
	LockKey(scope, id string) string
}

// RedisLocker implements DimensionLocker using Redis SETNX + TTL, polling
// until the context is done.
type RedisLocker struct {
	client lockStore
	ttl    time.Duration
}

// NewRedisLocker constructs a Redis-backed locker.
func NewRedisLocker(client lockStore, ttl time.Duration) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLocker{client: client, ttl: ttl}, nil
}

func (l *RedisLocker) Lock(ctx context.Context, _ *gorm.DB, key DimensionKey) (ReleaseFunc, error) {
	redisKey := l.client.LockKey(lockScope, key.String())
	owner := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, owner, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("setnx: %w", err)
		}
		if ok {
			return l.releaser(redisKey, owner), nil
		}
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrDimensionBusy
		case <-time.After(lockRetryBackoff):
		}
	}
}

// releaser frees the lock only if the owner value still matches.
func (l *RedisLocker) releaser(key, owner string) ReleaseFunc {
	return func(ctx context.Context) error {
		if _, err := l.client.ReleaseLock(ctx, key, owner); err != nil {
			return fmt.Errorf("release lock: %w", err)
		}
		return nil
	}
}

// NewLocker picks the locker for the configured mode. A redis mode without a
// client is a configuration error.
func NewLocker(cfg config.PricingConfig, client lockStore) (DimensionLocker, error) {
	switch cfg.NormalizedLockMode() {
	case config.LockModeNone:
		return NoopLocker{}, nil
	case config.LockModeRedis:
		if client == nil {
			return nil, errors.New("pricing lock mode redis requires a redis client")
		}
		return NewRedisLocker(client, cfg.LockTTL)
	default:
		return AdvisoryLocker{}, nil
	}
}
