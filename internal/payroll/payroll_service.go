package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-erp/internal/attendance"
	"go-erp/internal/bootstrap"
	"go-erp/internal/employee"
	employeeerrors "go-erp/internal/employee/errors"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/salary"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/counter"
	"go-erp/internal/shared/dateutil"
	"go-erp/internal/shared/metrics"
	"go-erp/internal/taxbracket"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultWorkers = 8

// SalaryResolver is the part of the salary module the generator depends on.
type SalaryResolver interface {
	Resolve(ctx context.Context, userID uint64, ref time.Time) (*salary.SalaryRecord, error)
}

type TaxBracketSource interface {
	GetByYear(ctx context.Context, year int) ([]taxbracket.TaxBracket, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	GenerateRun(ctx context.Context, in GenerateRunInput) (GenerateRunResult, error)
	RequestRun(ctx context.Context, in GenerateRunInput) (RunRequestedResponse, error)
	Aggregate(ctx context.Context, runID uint64) (AggregateResponse, error)
	DeleteRun(ctx context.Context, runID, actorID uint64) error
	ListRuns(ctx context.Context, req ListRunsRequest) ([]PayrollRunResponse, int64, error)
	GetRun(ctx context.Context, runID uint64) (PayrollRunDetailResponse, error)
	ListPayslips(ctx context.Context, userID uint64) ([]Payslip, error)
	GetPayslipPDF(ctx context.Context, userID, entryID uint64) ([]byte, string, error)
	Summary(ctx context.Context, start, end time.Time) (SummaryResponse, error)
}

type Dependencies struct {
	DB         *gorm.DB
	Repo       Repository
	Employees  employee.Repository
	Salaries   SalaryResolver
	Taxes      TaxBracketSource
	Attendance attendance.Repository
	Counter    counter.Repository
	Outbox     kafka.OutboxRepository
	Locker     PeriodLocker
	Audit      bootstrap.AuditLogger
	Metrics    *metrics.Metrics
	Currency   string
	Workers    int
	LockTTL    time.Duration
	Logger     *zap.Logger
}

type service struct {
	db         *gorm.DB
	repo       Repository
	employees  employee.Repository
	salaries   SalaryResolver
	taxes      TaxBracketSource
	attendance attendance.Repository
	counter    counter.Repository
	outbox     kafka.OutboxRepository
	locker     PeriodLocker
	audit      bootstrap.AuditLogger
	metrics    *metrics.Metrics
	currency   string
	workers    int
	lockTTL    time.Duration
	logger     *zap.Logger
}

func NewService(d Dependencies) Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Locker == nil {
		d.Locker = nopLocker{}
	}
	if d.Audit == nil {
		d.Audit = bootstrap.NopAuditLogger{}
	}
	if d.Workers <= 0 {
		d.Workers = defaultWorkers
	}
	if d.LockTTL <= 0 {
		d.LockTTL = defaultLockTTL
	}
	return &service{
		db:         d.DB,
		repo:       d.Repo,
		employees:  d.Employees,
		salaries:   d.Salaries,
		taxes:      d.Taxes,
		attendance: d.Attendance,
		counter:    d.Counter,
		outbox:     d.Outbox,
		locker:     d.Locker,
		audit:      d.Audit,
		metrics:    d.Metrics,
		currency:   d.Currency,
		workers:    d.Workers,
		lockTTL:    d.LockTTL,
		logger:     d.Logger.Named("payroll"),
	}
}

// RequestRun queues a generation request for the consumer through the outbox.
func (s *service) RequestRun(ctx context.Context, in GenerateRunInput) (RunRequestedResponse, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return RunRequestedResponse{}, err
	}

	payload := events.PayrollRunRequestedEvent{
		EventType:      events.PayrollRunRequestedType,
		PayPeriodStart: dateutil.Format(in.PeriodStart),
		PayPeriodEnd:   dateutil.Format(in.PeriodEnd),
		RunDate:        dateutil.Format(in.RunDate),
		RequestedBy:    in.CreatedBy,
		Replace:        in.Replace,
		OccurredAt:     time.Now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(ctx,
		events.PayrollRunAggregateType,
		payload.PayPeriodStart+":"+payload.PayPeriodEnd,
		events.PayrollRunRequestedType,
		events.PayrollRunRequestedTopic,
		payload,
	)
	if err != nil {
		return RunRequestedResponse{}, err
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		return RunRequestedResponse{}, err
	}

	return RunRequestedResponse{
		EventID:        event.ID,
		PayPeriodStart: payload.PayPeriodStart,
		PayPeriodEnd:   payload.PayPeriodEnd,
		Replace:        in.Replace,
	}, nil
}

// Aggregate recomputes the header totals from the stored entries.
func (s *service) Aggregate(ctx context.Context, runID uint64) (AggregateResponse, error) {
	var totals RunTotals
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindRunByID(ctx, runID); err != nil {
			return err
		}
		var err error
		totals, err = aggregate(ctx, repo, runID)
		return err
	})
	if err != nil {
		return AggregateResponse{}, err
	}

	return AggregateResponse{
		RunID:         runID,
		TotalGrossPay: totals.TotalGrossPay.StringFixed(centPlaces),
		TotalTax:      totals.TotalTax.StringFixed(centPlaces),
		TotalNetPay:   totals.TotalNetPay.StringFixed(centPlaces),
	}, nil
}

// aggregate is the only writer of run totals.
func aggregate(ctx context.Context, repo Repository, runID uint64) (RunTotals, error) {
	totals, err := repo.SumEntries(ctx, runID)
	if err != nil {
		return RunTotals{}, err
	}
	if err := repo.UpdateTotals(ctx, runID, totals); err != nil {
		return RunTotals{}, err
	}
	return totals, nil
}

func (s *service) DeleteRun(ctx context.Context, runID, actorID uint64) error {
	var run *PayrollRun
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		var err error
		if run, err = repo.FindRunByID(ctx, runID); err != nil {
			return err
		}
		return repo.DeleteRun(ctx, runID)
	})
	if err != nil {
		return err
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  bootstrap.AuditPayrollRunDeleted,
		ActorID: actorID,
		Message: "payroll run deleted",
		Meta: map[string]any{
			"run_id":     run.ID,
			"run_number": run.RunNumber,
		},
	})
	return nil
}

func (s *service) ListRuns(ctx context.Context, req ListRunsRequest) ([]PayrollRunResponse, int64, error) {
	filter := RunFilter{Status: req.Status, Page: req.Page, PageSize: req.PageSize}
	if req.From != "" {
		from, err := dateutil.ParseDate(req.From)
		if err != nil {
			return nil, 0, payrollerrors.ErrInvalidDateRange
		}
		filter.PeriodFrom = &from
	}
	if req.To != "" {
		to, err := dateutil.ParseDate(req.To)
		if err != nil {
			return nil, 0, payrollerrors.ErrInvalidDateRange
		}
		filter.PeriodTo = &to
	}

	runs, total, err := s.repo.ListRuns(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]PayrollRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, mapRunResponse(r))
	}
	return out, total, nil
}

func (s *service) GetRun(ctx context.Context, runID uint64) (PayrollRunDetailResponse, error) {
	run, err := s.repo.FindRunByID(ctx, runID)
	if err != nil {
		return PayrollRunDetailResponse{}, err
	}
	entries, err := s.repo.FindEntriesByRun(ctx, runID)
	if err != nil {
		return PayrollRunDetailResponse{}, err
	}

	ids := make([]uint64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.UserID)
	}
	names, err := s.employees.FindByIDs(ctx, ids)
	if err != nil {
		return PayrollRunDetailResponse{}, err
	}

	resp := PayrollRunDetailResponse{
		PayrollRunResponse: mapRunResponse(*run),
		Entries:            make([]PayrollEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, mapEntryResponse(e, names[e.UserID].DisplayName()))
	}
	return resp, nil
}

// ListPayslips returns an empty slice, not an error, for a user without entries.
func (s *service) ListPayslips(ctx context.Context, userID uint64) ([]Payslip, error) {
	entries, err := s.repo.FindEntriesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []Payslip{}, nil
	}

	emp, err := s.lookupEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]Payslip, 0, len(entries))
	for _, e := range entries {
		if e.Run == nil {
			continue
		}
		out = append(out, BuildPayslip(e, *e.Run, emp))
	}
	return out, nil
}

func (s *service) GetPayslipPDF(ctx context.Context, userID, entryID uint64) ([]byte, string, error) {
	entry, err := s.repo.FindEntryForUser(ctx, userID, entryID)
	if err != nil {
		return nil, "", err
	}
	if entry.Run == nil {
		return nil, "", payrollerrors.ErrPayslipNotFound
	}

	emp, err := s.lookupEmployee(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	slip := BuildPayslip(*entry, *entry.Run, emp)
	pdf, err := RenderPayslipPDF(slip)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("payslip-%s-%d.pdf", entry.Run.RunNumber, userID)
	return pdf, filename, nil
}

func (s *service) Summary(ctx context.Context, start, end time.Time) (SummaryResponse, error) {
	start, end = dateutil.Truncate(start), dateutil.Truncate(end)
	if start.After(end) {
		return SummaryResponse{}, payrollerrors.ErrInvalidDateRange
	}

	sum, err := s.repo.SummarizeRuns(ctx, start, end)
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{
		StartDate:      dateutil.Format(start),
		EndDate:        dateutil.Format(end),
		RunCount:       sum.RunCount,
		TotalEmployees: sum.TotalEmployees,
		TotalGrossPay:  sum.TotalGrossPay.StringFixed(centPlaces),
		TotalTax:       sum.TotalTax.StringFixed(centPlaces),
		TotalNetPay:    sum.TotalNetPay.StringFixed(centPlaces),
	}, nil
}

// lookupEmployee tolerates roster rows that were removed after payroll ran.
func (s *service) lookupEmployee(ctx context.Context, userID uint64) (*employee.Employee, error) {
	emp, err := s.employees.FindByID(ctx, userID)
	if errors.Is(err, employeeerrors.ErrEmployeeNotFound) {
		contextutil.GetLogger(ctx, s.logger).Warn("payslip owner missing from roster", zap.Uint64("user_id", userID))
		return nil, nil
	}
	return emp, err
}

func mapRunResponse(r PayrollRun) PayrollRunResponse {
	return PayrollRunResponse{
		ID:             r.ID,
		RunNumber:      r.RunNumber,
		RunDate:        dateutil.Format(r.RunDate),
		PayPeriodStart: dateutil.Format(r.PayPeriodStart),
		PayPeriodEnd:   dateutil.Format(r.PayPeriodEnd),
		TotalEmployees: r.TotalEmployees,
		TotalGrossPay:  r.TotalGrossPay.StringFixed(centPlaces),
		TotalTax:       r.TotalTax.StringFixed(centPlaces),
		TotalNetPay:    r.TotalNetPay.StringFixed(centPlaces),
		Status:         r.Status,
		CreatedBy:      r.CreatedBy,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapEntryResponse(e PayrollEntry, name string) PayrollEntryResponse {
	return PayrollEntryResponse{
		ID:             e.ID,
		UserID:         e.UserID,
		EmployeeName:   name,
		BaseSalary:     e.BaseSalary.StringFixed(centPlaces),
		Allowances:     e.Allowances.StringFixed(centPlaces),
		Deductions:     e.Deductions.StringFixed(centPlaces),
		GrossPay:       e.GrossPay.StringFixed(centPlaces),
		TaxAmount:      e.TaxAmount.StringFixed(centPlaces),
		NetPay:         e.NetPay.StringFixed(centPlaces),
		WorkingDays:    e.WorkingDays,
		AttendanceDays: e.AttendanceDays,
		Currency:       e.Currency,
	}
}

// NewGenerateRunResponse renders a generation result with amounts fixed to cents.
func NewGenerateRunResponse(res GenerateRunResult) GenerateRunResponse {
	skipped := res.Skipped
	if skipped == nil {
		skipped = []SkippedEmployee{}
	}
	return GenerateRunResponse{
		Run:       mapRunResponse(res.Run),
		Processed: res.Processed,
		Skipped:   skipped,
	}
}
