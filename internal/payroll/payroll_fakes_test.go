package payroll_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-erp/internal/bootstrap"
	"go-erp/internal/employee"
	employeeerrors "go-erp/internal/employee/errors"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/payroll"
	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/salary"
	salaryerrors "go-erp/internal/salary/errors"
	"go-erp/internal/shared/counter"
	"go-erp/internal/taxbracket"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memRepo is an in-memory payroll.Repository. It enforces the two unique
// indexes the way MySQL would, by returning error 1062.
type memRepo struct {
	mu          sync.Mutex
	runs        map[uint64]*payroll.PayrollRun
	entries     map[uint64]payroll.PayrollEntry
	nextRunID   uint64
	nextEntryID uint64

	createEntriesErr error
	sumCalls         int
}

func newMemRepo() *memRepo {
	return &memRepo{
		runs:    map[uint64]*payroll.PayrollRun{},
		entries: map[uint64]payroll.PayrollEntry{},
	}
}

func duplicateKey() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}

func (m *memRepo) WithTx(tx *gorm.DB) payroll.Repository { return m }

func (m *memRepo) seedRun(run payroll.PayrollRun, entries ...payroll.PayrollEntry) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRunID++
	run.ID = m.nextRunID
	m.runs[run.ID] = &run
	for _, e := range entries {
		m.nextEntryID++
		e.ID = m.nextEntryID
		e.PayrollRunID = run.ID
		m.entries[e.ID] = e
	}
	return run.ID
}

func (m *memRepo) FindRunByPeriodForUpdate(ctx context.Context, start, end time.Time) (*payroll.PayrollRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.PayPeriodStart.Equal(start) && r.PayPeriodEnd.Equal(end) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memRepo) FindRunByID(ctx context.Context, id uint64) (*payroll.PayrollRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, payrollerrors.ErrPayrollRunNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memRepo) ListRuns(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.PayrollRun
	for _, r := range m.runs {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayPeriodStart.After(out[j].PayPeriodStart) })
	return out, int64(len(out)), nil
}

func (m *memRepo) CreateRun(ctx context.Context, run *payroll.PayrollRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runs {
		if r.PayPeriodStart.Equal(run.PayPeriodStart) && r.PayPeriodEnd.Equal(run.PayPeriodEnd) {
			return duplicateKey()
		}
	}
	m.nextRunID++
	run.ID = m.nextRunID
	run.CreatedAt = time.Date(2023, 3, 1, 9, 0, 0, 0, time.UTC)
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memRepo) CreateEntries(ctx context.Context, entries []payroll.PayrollEntry) error {
	if m.createEntriesErr != nil {
		return m.createEntriesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		for _, existing := range m.entries {
			if existing.PayrollRunID == e.PayrollRunID && existing.UserID == e.UserID {
				return duplicateKey()
			}
		}
		m.nextEntryID++
		e.ID = m.nextEntryID
		m.entries[e.ID] = e
	}
	return nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, runID uint64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID].Status = status
	return nil
}

func (m *memRepo) UpdateTotals(ctx context.Context, runID uint64, totals payroll.RunTotals) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.runs[runID]
	r.TotalGrossPay, r.TotalTax, r.TotalNetPay = totals.TotalGrossPay, totals.TotalTax, totals.TotalNetPay
	return nil
}

func (m *memRepo) SumEntries(ctx context.Context, runID uint64) (payroll.RunTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sumCalls++
	t := payroll.RunTotals{TotalGrossPay: decimal.Zero, TotalTax: decimal.Zero, TotalNetPay: decimal.Zero}
	for _, e := range m.entries {
		if e.PayrollRunID != runID {
			continue
		}
		t.TotalGrossPay = t.TotalGrossPay.Add(e.GrossPay)
		t.TotalTax = t.TotalTax.Add(e.TaxAmount)
		t.TotalNetPay = t.TotalNetPay.Add(e.NetPay)
	}
	return t, nil
}

func (m *memRepo) DeleteRun(ctx context.Context, runID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[runID]; !ok {
		return payrollerrors.ErrPayrollRunNotFound
	}
	for id, e := range m.entries {
		if e.PayrollRunID == runID {
			delete(m.entries, id)
		}
	}
	delete(m.runs, runID)
	return nil
}

func (m *memRepo) FindEntriesByRun(ctx context.Context, runID uint64) ([]payroll.PayrollEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.PayrollEntry
	for _, e := range m.entries {
		if e.PayrollRunID == runID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (m *memRepo) FindEntriesByUser(ctx context.Context, userID uint64) ([]payroll.PayrollEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.PayrollEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			run := *m.runs[e.PayrollRunID]
			e.Run = &run
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Run.PayPeriodStart.After(out[j].Run.PayPeriodStart) })
	return out, nil
}

func (m *memRepo) FindEntryForUser(ctx context.Context, userID, entryID uint64) (*payroll.PayrollEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entryID]
	if !ok || e.UserID != userID {
		return nil, payrollerrors.ErrPayslipNotFound
	}
	run := *m.runs[e.PayrollRunID]
	e.Run = &run
	return &e, nil
}

func (m *memRepo) SummarizeRuns(ctx context.Context, start, end time.Time) (payroll.PeriodSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := payroll.PeriodSummary{TotalGrossPay: decimal.Zero, TotalTax: decimal.Zero, TotalNetPay: decimal.Zero}
	for _, r := range m.runs {
		if r.Status != payroll.RunStatusCompleted || r.PayPeriodStart.Before(start) || r.PayPeriodEnd.After(end) {
			continue
		}
		s.RunCount++
		s.TotalEmployees += int64(r.TotalEmployees)
		s.TotalGrossPay = s.TotalGrossPay.Add(r.TotalGrossPay)
		s.TotalTax = s.TotalTax.Add(r.TotalTax)
		s.TotalNetPay = s.TotalNetPay.Add(r.TotalNetPay)
	}
	return s, nil
}

func (m *memRepo) entriesForRun(runID uint64) []payroll.PayrollEntry {
	out, _ := m.FindEntriesByRun(context.Background(), runID)
	return out
}

type fakeEmployees struct {
	roster []employee.Employee
	err    error
}

func (f *fakeEmployees) FindPayrollEligible(ctx context.Context) ([]employee.Employee, error) {
	return f.roster, f.err
}

func (f *fakeEmployees) FindByID(ctx context.Context, id uint64) (*employee.Employee, error) {
	for _, e := range f.roster {
		if e.ID == id {
			cp := e
			return &cp, nil
		}
	}
	return nil, employeeerrors.ErrEmployeeNotFound
}

func (f *fakeEmployees) FindByIDs(ctx context.Context, ids []uint64) (map[uint64]employee.Employee, error) {
	out := map[uint64]employee.Employee{}
	for _, id := range ids {
		if e, err := f.FindByID(ctx, id); err == nil {
			out[id] = *e
		}
	}
	return out, nil
}

type fakeSalaries struct {
	records map[uint64]salary.SalaryRecord
	errs    map[uint64]error
	resolve func(ctx context.Context, userID uint64, ref time.Time) (*salary.SalaryRecord, error)
}

func (f *fakeSalaries) Resolve(ctx context.Context, userID uint64, ref time.Time) (*salary.SalaryRecord, error) {
	if f.resolve != nil {
		return f.resolve(ctx, userID, ref)
	}
	if err, ok := f.errs[userID]; ok {
		return nil, err
	}
	rec, ok := f.records[userID]
	if !ok {
		return nil, salaryerrors.ErrSalaryRecordNotFound
	}
	return &rec, nil
}

type fakeTaxes struct {
	brackets []taxbracket.TaxBracket
	err      error
	years    []int
}

func (f *fakeTaxes) GetByYear(ctx context.Context, year int) ([]taxbracket.TaxBracket, error) {
	f.years = append(f.years, year)
	return f.brackets, f.err
}

type fakeAttendance struct {
	counts map[uint64]int
}

func (f *fakeAttendance) CountAttendanceDays(ctx context.Context, userIDs []uint64, start, end time.Time) (map[uint64]int, error) {
	return f.counts, nil
}

type fakeCounter struct {
	values map[string]int64
}

func (f *fakeCounter) WithTx(tx *gorm.DB) counter.Repository { return f }

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	if f.values == nil {
		f.values = map[string]int64{}
	}
	f.values[counterType]++
	return f.values[counterType], nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type fakeLocker struct {
	held     bool
	keys     []string
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if f.held {
		return nil, payrollerrors.ErrPayrollRunInProgress
	}
	f.keys = append(f.keys, key)
	return func() { f.released++ }, nil
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (r *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	r.entries = append(r.entries, entry)
}
