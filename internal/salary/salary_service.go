package salary

import (
	"context"
	"strings"
	"time"

	"go-erp/internal/employee"
	salaryerrors "go-erp/internal/salary/errors"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/dateutil"
	"go-erp/internal/shared/dberr"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	// Resolve returns the record applying to userID on ref, or ErrSalaryRecordNotFound.
	Resolve(ctx context.Context, userID uint64, ref time.Time) (*SalaryRecord, error)
	GetApplicable(ctx context.Context, userID uint64, ref time.Time) (SalaryRecordResponse, error)
	ListByUser(ctx context.Context, userID uint64) ([]SalaryRecordResponse, error)
	Create(ctx context.Context, createdBy uint64, req CreateSalaryRecordRequest) (SalaryRecordResponse, error)
}

type service struct {
	db              *gorm.DB
	repo            Repository
	employees       employee.Repository
	defaultCurrency string
	logger          *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	employees employee.Repository,
	defaultCurrency string,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		db:              db,
		repo:            repo,
		employees:       employees,
		defaultCurrency: defaultCurrency,
		logger:          logger.Named("salary"),
	}
}

func (s *service) Resolve(ctx context.Context, userID uint64, ref time.Time) (*SalaryRecord, error) {
	ref = dateutil.Truncate(ref)

	rows, err := s.repo.FindApplicable(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	rec, ok := SelectApplicable(rows, ref)
	if !ok {
		return nil, salaryerrors.ErrSalaryRecordNotFound
	}
	return &rec, nil
}

func (s *service) GetApplicable(ctx context.Context, userID uint64, ref time.Time) (SalaryRecordResponse, error) {
	rec, err := s.Resolve(ctx, userID, ref)
	if err != nil {
		return SalaryRecordResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func (s *service) ListByUser(ctx context.Context, userID uint64) ([]SalaryRecordResponse, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

// Create appends a record. The user's open record is closed the day before the
// new effective date; existing rows are never rewritten otherwise.
func (s *service) Create(ctx context.Context, createdBy uint64, req CreateSalaryRecordRequest) (SalaryRecordResponse, error) {
	effectiveDate, err := dateutil.ParseDate(req.EffectiveDate)
	if err != nil {
		return SalaryRecordResponse{}, salaryerrors.ErrInvalidEffectiveDate
	}
	if req.BaseSalary.IsNegative() || req.Allowances.IsNegative() || req.Deductions.IsNegative() {
		return SalaryRecordResponse{}, salaryerrors.ErrInvalidSalaryAmount
	}

	if _, err := s.employees.FindByID(ctx, req.UserID); err != nil {
		return SalaryRecordResponse{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.defaultCurrency
	}

	rec := &SalaryRecord{
		UserID:        req.UserID,
		BaseSalary:    req.BaseSalary.Round(2),
		Allowances:    req.Allowances.Round(2),
		Deductions:    req.Deductions.Round(2),
		Currency:      currency,
		EffectiveDate: effectiveDate,
		CreatedBy:     createdBy,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		latest, err := qtx.FindLatestForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}

		if latest != nil {
			if !effectiveDate.After(latest.EffectiveDate) {
				return salaryerrors.ErrSalaryEffectiveDateConflict
			}
			if latest.EndDate == nil {
				if err := qtx.Close(ctx, latest.ID, effectiveDate.AddDate(0, 0, -1)); err != nil {
					return err
				}
			} else if !latest.EndDate.Before(effectiveDate) {
				return salaryerrors.ErrSalaryEffectiveDateConflict
			}
		}

		return qtx.Create(ctx, rec)
	})
	if dberr.IsDuplicateKey(err) {
		return SalaryRecordResponse{}, salaryerrors.ErrSalaryEffectiveDateConflict.WithCause(err)
	}
	if err != nil {
		return SalaryRecordResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("salary record appended",
		zap.Uint64("user_id", rec.UserID),
		zap.String("effective_date", dateutil.Format(rec.EffectiveDate)),
		zap.Uint64("created_by", createdBy),
	)

	return mapToResponse(*rec), nil
}

func mapToResponse(r SalaryRecord) SalaryRecordResponse {
	return SalaryRecordResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		BaseSalary:    r.BaseSalary.StringFixed(2),
		Allowances:    r.Allowances.StringFixed(2),
		Deductions:    r.Deductions.StringFixed(2),
		Currency:      r.Currency,
		EffectiveDate: dateutil.Format(r.EffectiveDate),
		EndDate:       dateutil.FormatPtr(r.EndDate),
	}
}

func mapToListResponse(rows []SalaryRecord) []SalaryRecordResponse {
	res := make([]SalaryRecordResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res
}
