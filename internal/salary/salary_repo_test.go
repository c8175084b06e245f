package salary_test

import (
	"context"
	"regexp"
	"testing"

	"go-erp/internal/salary"
	"go-erp/internal/shared/dbtest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_FindLatestForUpdate(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := salary.NewRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `salary_records` WHERE user_id = ? ORDER BY effective_date DESC") + ".*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "base_salary", "currency", "effective_date"}).
			AddRow(3, 10, "60000.00", "USD", date(2023, 1, 1)))

	rec, err := repo.FindLatestForUpdate(context.Background(), 10)

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, uint64(3), rec.ID)
	assert.Equal(t, "60000", rec.BaseSalary.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindLatestForUpdate_NoHistory(t *testing.T) {
	db, mock := dbtest.NewGormMock(t)
	repo := salary.NewRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `salary_records`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, err := repo.FindLatestForUpdate(context.Background(), 10)

	require.NoError(t, err)
	assert.Nil(t, rec)
}
