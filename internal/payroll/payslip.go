package payroll

import (
	"fmt"

	"go-erp/internal/employee"
	"go-erp/internal/shared/dateutil"
)

// Payslip is the display and export projection of one stored entry. Amounts are
// copied from the entry, never recomputed.
type Payslip struct {
	EntryID        uint64 `json:"entry_id"`
	RunID          uint64 `json:"run_id"`
	RunNumber      string `json:"run_number"`
	UserID         uint64 `json:"user_id"`
	EmployeeName   string `json:"employee_name"`
	Department     string `json:"department"`
	Position       string `json:"position"`
	PayPeriod      string `json:"pay_period"`
	BaseSalary     string `json:"base_salary"`
	Allowances     string `json:"allowances"`
	Deductions     string `json:"deductions"`
	GrossPay       string `json:"gross_pay"`
	TaxAmount      string `json:"tax_amount"`
	NetPay         string `json:"net_pay"`
	WorkingDays    int    `json:"working_days"`
	AttendanceDays int    `json:"attendance_days"`
	Currency       string `json:"currency"`
	Status         string `json:"status"`
}

// BuildPayslip accepts a nil employee when the roster row is gone.
func BuildPayslip(entry PayrollEntry, run PayrollRun, emp *employee.Employee) Payslip {
	p := Payslip{
		EntryID:        entry.ID,
		RunID:          run.ID,
		RunNumber:      run.RunNumber,
		UserID:         entry.UserID,
		PayPeriod:      fmt.Sprintf("%s to %s", dateutil.Format(run.PayPeriodStart), dateutil.Format(run.PayPeriodEnd)),
		BaseSalary:     entry.BaseSalary.StringFixed(centPlaces),
		Allowances:     entry.Allowances.StringFixed(centPlaces),
		Deductions:     entry.Deductions.StringFixed(centPlaces),
		GrossPay:       entry.GrossPay.StringFixed(centPlaces),
		TaxAmount:      entry.TaxAmount.StringFixed(centPlaces),
		NetPay:         entry.NetPay.StringFixed(centPlaces),
		WorkingDays:    entry.WorkingDays,
		AttendanceDays: entry.AttendanceDays,
		Currency:       entry.Currency,
		Status:         run.Status,
	}
	if emp != nil {
		p.EmployeeName = emp.DisplayName()
		p.Department = emp.Department
		p.Position = emp.Position
	}
	return p
}

// Lines is the text layout shared by every rendered form of the payslip.
func (p Payslip) Lines() []string {
	money := func(v string) string { return v + " " + p.Currency }
	return []string{
		"Payslip " + p.RunNumber,
		"Employee: " + p.EmployeeName,
		"Department: " + p.Department,
		"Position: " + p.Position,
		"Pay Period: " + p.PayPeriod,
		fmt.Sprintf("Working Days: %d", p.WorkingDays),
		fmt.Sprintf("Attendance Days: %d", p.AttendanceDays),
		"Base Salary: " + money(p.BaseSalary),
		"Allowances: " + money(p.Allowances),
		"Deductions: " + money(p.Deductions),
		"Gross Pay: " + money(p.GrossPay),
		"Tax: " + money(p.TaxAmount),
		"Net Pay: " + money(p.NetPay),
		"Status: " + p.Status,
	}
}

func RenderPayslipPDF(p Payslip) ([]byte, error) {
	return buildSimplePayslipPDF(p.Lines())
}
