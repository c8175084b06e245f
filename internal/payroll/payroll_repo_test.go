package payroll_test

import (
	"context"
	"testing"

	"go-erp/internal/payroll"
	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/shared/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindRunByPeriodForUpdate(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `payroll_runs` WHERE pay_period_start = \\? AND pay_period_end = \\?.*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	run, err := repo.FindRunByPeriodForUpdate(context.Background(), day(2023, 2, 1), day(2023, 2, 28))

	require.NoError(t, err)
	assert.Nil(t, run)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindRunByID_NotFound(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `payroll_runs`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindRunByID(context.Background(), 9)
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollRunNotFound)
}

func TestRepository_SumEntries(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(gross_pay\\), 0\\).*FROM `payroll_entries` WHERE payroll_run_id = \\?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"total_gross_pay", "total_tax", "total_net_pay"}).
			AddRow("8150.00", "1645.00", "6505.00"))

	got, err := repo.SumEntries(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, "8150.00", got.TotalGrossPay.StringFixed(2))
	assert.Equal(t, "1645.00", got.TotalTax.StringFixed(2))
	assert.Equal(t, "6505.00", got.TotalNetPay.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteRun(t *testing.T) {
	t.Run("entries then header", func(t *testing.T) {
		db, mock := dbtest.NewGormMock(t)
		repo := payroll.NewRepository(db)

		mock.ExpectExec("DELETE FROM `payroll_entries` WHERE payroll_run_id = \\?").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec("DELETE FROM `payroll_runs` WHERE `payroll_runs`.`id` = \\?").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteRun(context.Background(), 7))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing run", func(t *testing.T) {
		db, mock := dbtest.NewGormMock(t)
		repo := payroll.NewRepository(db)

		mock.ExpectExec("DELETE FROM `payroll_entries`").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM `payroll_runs`").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.DeleteRun(context.Background(), 7), payrollerrors.ErrPayrollRunNotFound)
	})
}

func TestRepository_UpdateTotals(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectExec("UPDATE `payroll_runs` SET .*`total_gross_pay`=\\?.*WHERE id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateTotals(context.Background(), 7, payroll.RunTotals{
		TotalGrossPay: dec("8150"),
		TotalTax:      dec("1645"),
		TotalNetPay:   dec("6505"),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
