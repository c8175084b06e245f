package payroll

import (
	"context"
	"fmt"
	"time"

	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/shared/dateutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 10 * time.Minute

// PeriodLocker keeps two generators off the same pay period. The unique index on
// the period is still the final guard.
type PeriodLocker interface {
	// Acquire returns ErrPayrollRunInProgress when another holder owns key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

func PeriodLockKey(start, end time.Time) string {
	return fmt.Sprintf("payroll:lock:%s:%s", dateutil.Format(start), dateutil.Format(end))
}

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	rdb *redis.Client
}

// NewPeriodLocker returns a no-op locker for a nil client.
func NewPeriodLocker(rdb *redis.Client) PeriodLocker {
	if rdb == nil {
		return nopLocker{}
	}
	return &redisLocker{rdb: rdb}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire payroll lock: %w", err)
	}
	if !ok {
		return nil, payrollerrors.ErrPayrollRunInProgress
	}

	return func() {
		// The request context may already be cancelled when we get here.
		_ = releaseScript.Run(context.Background(), l.rdb, []string{key}, token).Err()
	}, nil
}

type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}
