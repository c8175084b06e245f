package salary

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=salary_repo.go -destination=mock/salary_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindApplicable(ctx context.Context, userID uint64, ref time.Time) ([]SalaryRecord, error)
	FindLatestForUpdate(ctx context.Context, userID uint64) (*SalaryRecord, error)
	ListByUser(ctx context.Context, userID uint64) ([]SalaryRecord, error)
	Create(ctx context.Context, r *SalaryRecord) error
	Close(ctx context.Context, id uint64, endDate time.Time) error
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

func (r *repository) FindApplicable(ctx context.Context, userID uint64, ref time.Time) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND effective_date <= ? AND (end_date IS NULL OR end_date >= ?)", userID, ref, ref).
		Order("effective_date DESC").
		Find(&rows).Error
	return rows, err
}

// FindLatestForUpdate locks the user's newest record so concurrent appends serialize.
// Returns nil, nil when the user has no history.
func (r *repository) FindLatestForUpdate(ctx context.Context, userID uint64) (*SalaryRecord, error) {
	var rec SalaryRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("effective_date DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint64) ([]SalaryRecord, error) {
	var rows []SalaryRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("effective_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Create(ctx context.Context, rec *SalaryRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) Close(ctx context.Context, id uint64, endDate time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SalaryRecord{}).
		Where("id = ? AND end_date IS NULL", id).
		Update("end_date", endDate).Error
}
