package counter

import (
	"context"

	"gorm.io/gorm"
)

// CounterPayrollRun prefixes per-period payroll run sequences, e.g. "payroll_run:202302".
const CounterPayrollRun = "payroll_run"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db   *gorm.DB
	inTx bool
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx, inTx: true}
}

// GetNextValue increments atomically per counter type. LAST_INSERT_ID(expr) is
// connection scoped, so both statements must run on the same connection.
func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	if r.inTx {
		return nextValue(r.db.WithContext(ctx), counterType)
	}

	var v int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		v, err = nextValue(tx, counterType)
		return err
	})
	return v, err
}

func nextValue(db *gorm.DB, counterType string) (int64, error) {
	if err := db.Exec(`
		INSERT INTO counters (counter_type, last_value, updated_at)
		VALUES (?, LAST_INSERT_ID(1), NOW())
		ON DUPLICATE KEY UPDATE
			last_value = LAST_INSERT_ID(last_value + 1),
			updated_at = NOW()
	`, counterType).Error; err != nil {
		return 0, err
	}

	var v int64
	if err := db.Raw("SELECT LAST_INSERT_ID()").Scan(&v).Error; err != nil {
		return 0, err
	}
	return v, nil
}
