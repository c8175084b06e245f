package employee

import (
	"context"
	"errors"

	employeeerrors "go-erp/internal/employee/errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindPayrollEligible(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id uint64) (*Employee, error)
	FindByIDs(ctx context.Context, ids []uint64) (map[uint64]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindPayrollEligible(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Where("role NOT IN ?", payrollExcludedRoles).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]Employee, error) {
	out := make(map[uint64]Employee, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []Employee
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, e := range rows {
		out[e.ID] = e
	}
	return out, nil
}
