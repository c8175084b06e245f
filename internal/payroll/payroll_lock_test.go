package payroll_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-erp/internal/payroll"
	payrollerrors "go-erp/internal/payroll/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodLockKey(t *testing.T) {
	assert.Equal(t, "payroll:lock:2023-02-01:2023-02-28", payroll.PeriodLockKey(day(2023, 2, 1), day(2023, 2, 28)))
}

func TestPeriodLocker(t *testing.T) {
	key := payroll.PeriodLockKey(day(2023, 2, 1), day(2023, 2, 28))
	ctx := context.Background()

	t.Run("acquired", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX(key, `^[0-9a-f-]{36}$`, time.Minute).SetVal(true)

		release, err := payroll.NewPeriodLocker(rdb).Acquire(ctx, key, time.Minute)
		require.NoError(t, err)
		require.NotNil(t, release)
		assert.NoError(t, mock.ExpectationsWereMet())
		release()
	})

	t.Run("held elsewhere", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX(key, `.+`, time.Minute).SetVal(false)

		_, err := payroll.NewPeriodLocker(rdb).Acquire(ctx, key, time.Minute)
		assert.ErrorIs(t, err, payrollerrors.ErrPayrollRunInProgress)
	})

	t.Run("redis down", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.Regexp().ExpectSetNX(key, `.+`, time.Minute).SetErr(errors.New("dial tcp: refused"))

		_, err := payroll.NewPeriodLocker(rdb).Acquire(ctx, key, time.Minute)
		assert.ErrorContains(t, err, "refused")
	})

	t.Run("no redis", func(t *testing.T) {
		release, err := payroll.NewPeriodLocker(nil).Acquire(ctx, key, time.Minute)
		require.NoError(t, err)
		release()
	})
}
