package payroll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-erp/internal/bootstrap"
	"go-erp/internal/employee"
	"go-erp/internal/events"
	"go-erp/internal/messaging/kafka"
	payrollerrors "go-erp/internal/payroll/errors"
	salaryerrors "go-erp/internal/salary/errors"
	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/counter"
	"go-erp/internal/shared/dateutil"
	"go-erp/internal/shared/dberr"
	"go-erp/internal/taxbracket"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	SkipReasonNoSalary    = "no applicable salary record"
	SkipReasonSalaryError = "salary lookup failed"
)

// computed holds everything produced before the write transaction opens.
type computed struct {
	entries []PayrollEntry
	skipped []SkippedEmployee
}

// GenerateRun builds one run for the period. Entries are computed concurrently;
// the duplicate guard, header, entries, totals and outbox event are written in
// a single transaction so a failure leaves nothing behind.
func (s *service) GenerateRun(ctx context.Context, in GenerateRunInput) (GenerateRunResult, error) {
	started := time.Now()

	in, err := normalizeInput(in)
	if err != nil {
		return GenerateRunResult{}, err
	}

	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("pay_period_start", dateutil.Format(in.PeriodStart)),
		zap.String("pay_period_end", dateutil.Format(in.PeriodEnd)),
	)

	release, err := s.locker.Acquire(ctx, PeriodLockKey(in.PeriodStart, in.PeriodEnd), s.lockTTL)
	if err != nil {
		return GenerateRunResult{}, err
	}
	defer release()

	res, err := s.generate(ctx, in, log)
	if err != nil {
		s.metrics.PayrollRunDone("failed", started, 0)
		log.Error("payroll generation failed", zap.Error(err))
		return GenerateRunResult{}, err
	}
	s.metrics.PayrollRunDone("completed", started, res.Processed)

	log.Info("payroll run completed",
		zap.Uint64("run_id", res.Run.ID),
		zap.String("run_number", res.Run.RunNumber),
		zap.Int("processed", res.Processed),
		zap.Int("skipped", len(res.Skipped)),
		zap.String("total_net_pay", res.Run.TotalNetPay.StringFixed(centPlaces)),
	)
	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  bootstrap.AuditPayrollRunGenerated,
		ActorID: in.CreatedBy,
		Message: "payroll run generated",
		Meta: map[string]any{
			"run_id":     res.Run.ID,
			"run_number": res.Run.RunNumber,
			"processed":  res.Processed,
			"skipped":    len(res.Skipped),
			"replace":    in.Replace,
		},
	})
	return res, nil
}

func (s *service) generate(ctx context.Context, in GenerateRunInput, log *zap.Logger) (GenerateRunResult, error) {
	roster, err := s.employees.FindPayrollEligible(ctx)
	if err != nil {
		return GenerateRunResult{}, err
	}
	roster = uniqueEmployees(roster)

	brackets, err := s.taxes.GetByYear(ctx, in.PeriodStart.Year())
	if err != nil {
		return GenerateRunResult{}, err
	}

	c, err := s.computeEntries(ctx, in, roster, brackets)
	if err != nil {
		return GenerateRunResult{}, err
	}
	for _, sk := range c.skipped {
		log.Warn("employee skipped", zap.Uint64("user_id", sk.UserID), zap.String("reason", sk.Reason))
	}

	var run PayrollRun
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindRunByPeriodForUpdate(ctx, in.PeriodStart, in.PeriodEnd)
		if err != nil {
			return err
		}
		if existing != nil {
			if !in.Replace {
				return payrollerrors.ErrPayrollRunExists.WithDetails(map[string]any{
					"run_id":     existing.ID,
					"run_number": existing.RunNumber,
				})
			}
			log.Info("replacing existing payroll run", zap.Uint64("run_id", existing.ID))
			if err := repo.DeleteRun(ctx, existing.ID); err != nil {
				return err
			}
		}

		seq, err := s.counter.WithTx(tx).GetNextValue(ctx, runCounterKey(in.PeriodStart))
		if err != nil {
			return fmt.Errorf("next run number: %w", err)
		}

		run = PayrollRun{
			RunNumber:      FormatRunNumber(in.PeriodStart, seq),
			RunDate:        in.RunDate,
			PayPeriodStart: in.PeriodStart,
			PayPeriodEnd:   in.PeriodEnd,
			TotalEmployees: len(roster),
			Status:         RunStatusDraft,
			CreatedBy:      in.CreatedBy,
		}
		if err := repo.CreateRun(ctx, &run); err != nil {
			if dberr.IsDuplicateKey(err) {
				return payrollerrors.ErrPayrollRunExists
			}
			return err
		}

		for i := range c.entries {
			c.entries[i].PayrollRunID = run.ID
		}
		if err := repo.CreateEntries(ctx, c.entries); err != nil {
			if dberr.IsDuplicateKey(err) {
				return payrollerrors.ErrDuplicatePayrollEntry
			}
			return err
		}

		totals, err := aggregate(ctx, repo, run.ID)
		if err != nil {
			return err
		}
		run.TotalGrossPay = totals.TotalGrossPay
		run.TotalTax = totals.TotalTax
		run.TotalNetPay = totals.TotalNetPay

		if err := repo.UpdateStatus(ctx, run.ID, RunStatusCompleted); err != nil {
			return err
		}
		run.Status = RunStatusCompleted

		return s.enqueueCompleted(ctx, tx, run, len(c.skipped))
	})
	if err != nil {
		return GenerateRunResult{}, err
	}

	return GenerateRunResult{
		Run:       run,
		Processed: len(c.entries),
		Skipped:   c.skipped,
	}, nil
}

// computeEntries resolves salaries in parallel. Lookup failures skip the employee;
// only context cancellation aborts.
func (s *service) computeEntries(
	ctx context.Context,
	in GenerateRunInput,
	roster []employee.Employee,
	brackets []taxbracket.TaxBracket,
) (computed, error) {
	if len(roster) == 0 {
		return computed{}, nil
	}

	ids := make([]uint64, len(roster))
	for i, e := range roster {
		ids[i] = e.ID
	}
	attended, err := s.attendance.CountAttendanceDays(ctx, ids, in.PeriodStart, in.PeriodEnd)
	if err != nil {
		return computed{}, fmt.Errorf("count attendance: %w", err)
	}
	workingDays := WorkingDays(in.PeriodStart, in.PeriodEnd)

	entries := make([]*PayrollEntry, len(roster))
	reasons := make([]string, len(roster))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, emp := range roster {
		g.Go(func() error {
			rec, err := s.salaries.Resolve(gctx, emp.ID, in.PeriodStart)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if errors.Is(err, salaryerrors.ErrSalaryRecordNotFound) {
					reasons[i] = SkipReasonNoSalary
				} else {
					reasons[i] = SkipReasonSalaryError + ": " + err.Error()
				}
				return nil
			}

			amounts := ComputeEntry(rec.BaseSalary, rec.Allowances, rec.Deductions, brackets)
			currency := rec.Currency
			if currency == "" {
				currency = s.currency
			}
			entries[i] = &PayrollEntry{
				UserID:         emp.ID,
				BaseSalary:     amounts.MonthlyBase,
				Allowances:     amounts.Allowances,
				Deductions:     amounts.Deductions,
				GrossPay:       amounts.GrossPay,
				TaxAmount:      amounts.TaxAmount,
				NetPay:         amounts.NetPay,
				WorkingDays:    workingDays,
				AttendanceDays: attended[emp.ID],
				Currency:       currency,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return computed{}, err
	}

	var c computed
	for i, emp := range roster {
		if entries[i] != nil {
			c.entries = append(c.entries, *entries[i])
			continue
		}
		c.skipped = append(c.skipped, SkippedEmployee{UserID: emp.ID, Username: emp.Username, Reason: reasons[i]})
		if reasons[i] == SkipReasonNoSalary {
			s.metrics.PayrollEmployeeSkipped("no_salary")
		} else {
			s.metrics.PayrollEmployeeSkipped("salary_error")
		}
	}
	return c, nil
}

func (s *service) enqueueCompleted(ctx context.Context, tx *gorm.DB, run PayrollRun, skipped int) error {
	payload := events.PayrollRunCompletedEvent{
		EventType:      events.PayrollRunCompletedType,
		RunID:          run.ID,
		RunNumber:      run.RunNumber,
		PayPeriodStart: dateutil.Format(run.PayPeriodStart),
		PayPeriodEnd:   dateutil.Format(run.PayPeriodEnd),
		TotalEmployees: run.TotalEmployees,
		TotalGrossPay:  run.TotalGrossPay.StringFixed(centPlaces),
		TotalTax:       run.TotalTax.StringFixed(centPlaces),
		TotalNetPay:    run.TotalNetPay.StringFixed(centPlaces),
		SkippedCount:   skipped,
		CreatedBy:      run.CreatedBy,
		OccurredAt:     time.Now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(ctx,
		events.PayrollRunAggregateType,
		strconv.FormatUint(run.ID, 10),
		events.PayrollRunCompletedType,
		events.PayrollRunCompletedTopic,
		payload,
	)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func normalizeInput(in GenerateRunInput) (GenerateRunInput, error) {
	if in.PeriodStart.IsZero() || in.PeriodEnd.IsZero() {
		return in, payrollerrors.ErrInvalidPeriod
	}
	in.PeriodStart = dateutil.Truncate(in.PeriodStart)
	in.PeriodEnd = dateutil.Truncate(in.PeriodEnd)
	if in.PeriodStart.After(in.PeriodEnd) {
		return in, payrollerrors.ErrInvalidDateRange
	}
	if in.RunDate.IsZero() {
		in.RunDate = time.Now().UTC()
	}
	in.RunDate = dateutil.Truncate(in.RunDate)
	return in, nil
}

// uniqueEmployees keeps the first row per id so a run never holds two entries
// for one user.
func uniqueEmployees(rows []employee.Employee) []employee.Employee {
	seen := make(map[uint64]struct{}, len(rows))
	out := rows[:0:0]
	for _, e := range rows {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

func runCounterKey(periodStart time.Time) string {
	return counter.CounterPayrollRun + ":" + periodStart.Format("200601")
}

// FormatRunNumber renders PR-YYYYMM-NNNN.
func FormatRunNumber(periodStart time.Time, seq int64) string {
	return fmt.Sprintf("PR-%s-%04d", periodStart.Format("200601"), seq)
}
