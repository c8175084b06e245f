package taxbracket

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=taxbracket_repo.go -destination=mock/taxbracket_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByYear(ctx context.Context, year int) ([]TaxBracket, error)
	CountByYear(ctx context.Context, year int) (int64, error)
	CreateBatch(ctx context.Context, rows []TaxBracket) error
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

func (r *repository) FindByYear(ctx context.Context, year int) ([]TaxBracket, error) {
	var rows []TaxBracket
	err := r.db.WithContext(ctx).
		Where("tax_year = ?", year).
		Order("min_income ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByYear(ctx context.Context, year int) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&TaxBracket{}).
		Where("tax_year = ?", year).
		Count(&n).Error
	return n, err
}

func (r *repository) CreateBatch(ctx context.Context, rows []TaxBracket) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
