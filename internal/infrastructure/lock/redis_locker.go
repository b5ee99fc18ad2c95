package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wrenchway-api/internal/apperror"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockTimeout is returned when the lock stays held by someone else until
// the caller's deadline.
var ErrLockTimeout = fmt.Errorf("slot is being assigned by another request: %w", apperror.ErrConflict)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another holder is never released by us.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

const (
	lockKeyPrefix        = "lock:"
	defaultRetryInterval = 25 * time.Millisecond
	releaseTimeout       = 2 * time.Second
)

// RedisLocker is a distributed lock built on SET NX PX.
type RedisLocker struct {
	client        *redis.Client
	log           *logrus.Logger
	ttl           time.Duration
	retryInterval time.Duration
}

func NewRedisLocker(client *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		log:           log,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
	}
}

// Acquire polls until the key is free, ctx is done, or Redis fails.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if apperror.IsTimeout(err) {
				return nil, ErrLockTimeout
			}
			return nil, apperror.Unavailable(fmt.Errorf("acquire lock %s: %w", key, err))
		}
		if ok {
			return l.releaseFunc(redisKey, token), nil
		}

		timer := time.NewTimer(l.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ErrLockTimeout
		case <-timer.C:
		}
	}
}

func (l *RedisLocker) releaseFunc(redisKey, token string) func() {
	return func() {
		// The caller's context may already be cancelled; release on its own deadline.
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()

		err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warnf("Failed to release lock %s: %+v", redisKey, err)
		}
	}
}
