package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "go-erp/internal/payroll/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const entryBatchSize = 200

type RunFilter struct {
	Status     string
	PeriodFrom *time.Time
	PeriodTo   *time.Time
	Page       int
	PageSize   int
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRunByPeriodForUpdate(ctx context.Context, start, end time.Time) (*PayrollRun, error)
	FindRunByID(ctx context.Context, id uint64) (*PayrollRun, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]PayrollRun, int64, error)
	CreateRun(ctx context.Context, run *PayrollRun) error
	CreateEntries(ctx context.Context, entries []PayrollEntry) error
	UpdateStatus(ctx context.Context, runID uint64, status string) error
	UpdateTotals(ctx context.Context, runID uint64, totals RunTotals) error
	SumEntries(ctx context.Context, runID uint64) (RunTotals, error)
	DeleteRun(ctx context.Context, runID uint64) error
	FindEntriesByRun(ctx context.Context, runID uint64) ([]PayrollEntry, error)
	FindEntriesByUser(ctx context.Context, userID uint64) ([]PayrollEntry, error)
	FindEntryForUser(ctx context.Context, userID, entryID uint64) (*PayrollEntry, error)
	SummarizeRuns(ctx context.Context, start, end time.Time) (PeriodSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// FindRunByPeriodForUpdate returns nil, nil when the period is free.
func (r *repository) FindRunByPeriodForUpdate(ctx context.Context, start, end time.Time) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("pay_period_start = ? AND pay_period_end = ?", start, end).
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) FindRunByID(ctx context.Context, id uint64) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrPayrollRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *repository) ListRuns(ctx context.Context, filter RunFilter) ([]PayrollRun, int64, error) {
	q := r.db.WithContext(ctx).Model(&PayrollRun{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.PeriodFrom != nil {
		q = q.Where("pay_period_start >= ?", *filter.PeriodFrom)
	}
	if filter.PeriodTo != nil {
		q = q.Where("pay_period_end <= ?", *filter.PeriodTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var runs []PayrollRun
	err := q.Order("pay_period_start DESC, id DESC").Find(&runs).Error
	return runs, total, err
}

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(run).Error
}

func (r *repository) CreateEntries(ctx context.Context, entries []PayrollEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(&entries, entryBatchSize).Error
}

func (r *repository) UpdateStatus(ctx context.Context, runID uint64, status string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("id = ?", runID).
		Update("status", status).Error
}

func (r *repository) UpdateTotals(ctx context.Context, runID uint64, totals RunTotals) error {
	return r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"total_gross_pay": totals.TotalGrossPay,
			"total_tax":       totals.TotalTax,
			"total_net_pay":   totals.TotalNetPay,
		}).Error
}

func (r *repository) SumEntries(ctx context.Context, runID uint64) (RunTotals, error) {
	var totals RunTotals
	err := r.db.WithContext(ctx).
		Model(&PayrollEntry{}).
		Select(`COALESCE(SUM(gross_pay), 0) AS total_gross_pay,
			COALESCE(SUM(tax_amount), 0) AS total_tax,
			COALESCE(SUM(net_pay), 0) AS total_net_pay`).
		Where("payroll_run_id = ?", runID).
		Scan(&totals).Error
	return totals, err
}

// DeleteRun removes entries explicitly so the cascade does not depend on the FK.
func (r *repository) DeleteRun(ctx context.Context, runID uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("payroll_run_id = ?", runID).Delete(&PayrollEntry{}).Error; err != nil {
		return err
	}
	res := db.Delete(&PayrollRun{}, runID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return payrollerrors.ErrPayrollRunNotFound
	}
	return nil
}

func (r *repository) FindEntriesByRun(ctx context.Context, runID uint64) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Where("payroll_run_id = ?", runID).
		Order("user_id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindEntriesByUser(ctx context.Context, userID uint64) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Joins("Run").
		Where("payroll_entries.user_id = ?", userID).
		Order("Run.pay_period_start DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindEntryForUser(ctx context.Context, userID, entryID uint64) (*PayrollEntry, error) {
	var entry PayrollEntry
	err := r.db.WithContext(ctx).
		Joins("Run").
		Where("payroll_entries.id = ? AND payroll_entries.user_id = ?", entryID, userID).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SummarizeRuns totals completed runs whose whole period lies inside [start, end].
func (r *repository) SummarizeRuns(ctx context.Context, start, end time.Time) (PeriodSummary, error) {
	var s PeriodSummary
	err := r.db.WithContext(ctx).
		Model(&PayrollRun{}).
		Select(`COUNT(*) AS run_count,
			COALESCE(SUM(total_employees), 0) AS total_employees,
			COALESCE(SUM(total_gross_pay), 0) AS total_gross_pay,
			COALESCE(SUM(total_tax), 0) AS total_tax,
			COALESCE(SUM(total_net_pay), 0) AS total_net_pay`).
		Where("status = ?", RunStatusCompleted).
		Where("pay_period_start >= ? AND pay_period_end <= ?", start, end).
		Scan(&s).Error
	return s, err
}
