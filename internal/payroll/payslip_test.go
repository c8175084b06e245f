package payroll_test

import (
	"strings"
	"testing"

	"go-erp/internal/employee"
	"go-erp/internal/payroll"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayslip(t *testing.T) {
	run := payroll.PayrollRun{
		ID:             4,
		RunNumber:      "PR-202302-0001",
		PayPeriodStart: day(2023, 2, 1),
		PayPeriodEnd:   day(2023, 2, 28),
		Status:         payroll.RunStatusCompleted,
	}
	entry := payroll.PayrollEntry{
		ID:             11,
		PayrollRunID:   4,
		UserID:         1,
		BaseSalary:     dec("5000"),
		Allowances:     dec("200"),
		Deductions:     dec("50"),
		GrossPay:       dec("5150"),
		TaxAmount:      dec("1128.33"),
		NetPay:         dec("4021.67"),
		WorkingDays:    20,
		AttendanceDays: 18,
		Currency:       "USD",
	}
	emp := &employee.Employee{ID: 1, Username: "alice", Department: "Engineering", Position: "Developer"}

	got := payroll.BuildPayslip(entry, run, emp)

	assert.Equal(t, payroll.Payslip{
		EntryID:        11,
		RunID:          4,
		RunNumber:      "PR-202302-0001",
		UserID:         1,
		EmployeeName:   "alice",
		Department:     "Engineering",
		Position:       "Developer",
		PayPeriod:      "2023-02-01 to 2023-02-28",
		BaseSalary:     "5000.00",
		Allowances:     "200.00",
		Deductions:     "50.00",
		GrossPay:       "5150.00",
		TaxAmount:      "1128.33",
		NetPay:         "4021.67",
		WorkingDays:    20,
		AttendanceDays: 18,
		Currency:       "USD",
		Status:         payroll.RunStatusCompleted,
	}, got)

	t.Run("employee gone from roster", func(t *testing.T) {
		slip := payroll.BuildPayslip(entry, run, nil)
		assert.Empty(t, slip.EmployeeName)
		assert.Equal(t, "4021.67", slip.NetPay)
	})
}

func TestRenderPayslipPDF(t *testing.T) {
	slip := payroll.Payslip{
		RunNumber:    "PR-202302-0001",
		EmployeeName: "O'Brien (contractor)",
		PayPeriod:    "2023-02-01 to 2023-02-28",
		NetPay:       "4021.67",
		Currency:     "USD",
	}

	pdf, err := payroll.RenderPayslipPDF(slip)
	require.NoError(t, err)

	body := string(pdf)
	assert.True(t, strings.HasPrefix(body, "%PDF-1.4\n"))
	assert.True(t, strings.HasSuffix(body, "%%EOF"))
	assert.Contains(t, body, `Employee: O'Brien \(contractor\)`)
	for _, line := range slip.Lines() {
		if strings.ContainsAny(line, "()") {
			continue
		}
		assert.Contains(t, body, "("+line+") Tj")
	}
}
