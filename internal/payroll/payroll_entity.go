package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RunStatusDraft     = "Draft"
	RunStatusCompleted = "Completed"
)

// PayrollRun is the organization-wide header for one pay period. Totals are only
// written by the aggregator.
type PayrollRun struct {
	ID             uint64          `gorm:"primaryKey"`
	RunNumber      string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	RunDate        time.Time       `gorm:"type:date;not null"`
	PayPeriodStart time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payroll_run_period,priority:1"`
	PayPeriodEnd   time.Time       `gorm:"type:date;not null;uniqueIndex:uq_payroll_run_period,priority:2"`
	TotalEmployees int             `gorm:"not null;default:0"`
	TotalGrossPay  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalTax       decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalNetPay    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	CreatedBy      uint64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Entries []PayrollEntry `gorm:"foreignKey:PayrollRunID;constraint:OnDelete:CASCADE"`
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// PayrollEntry is one employee's computed pay inside a run. Amounts are stored
// already rounded to cents and are never recomputed for display.
type PayrollEntry struct {
	ID             uint64          `gorm:"primaryKey"`
	PayrollRunID   uint64          `gorm:"not null;uniqueIndex:uq_payroll_entry_run_user,priority:1"`
	UserID         uint64          `gorm:"not null;uniqueIndex:uq_payroll_entry_run_user,priority:2;index"`
	BaseSalary     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Allowances     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Deductions     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	GrossPay       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	NetPay         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	WorkingDays    int             `gorm:"not null"`
	AttendanceDays int             `gorm:"not null"`
	Currency       string          `gorm:"type:char(3);not null"`
	CreatedAt      time.Time

	Run *PayrollRun `gorm:"foreignKey:PayrollRunID"`
}

func (PayrollEntry) TableName() string {
	return "payroll_entries"
}

type RunTotals struct {
	TotalGrossPay decimal.Decimal
	TotalTax      decimal.Decimal
	TotalNetPay   decimal.Decimal
}

type PeriodSummary struct {
	RunCount       int64
	TotalEmployees int64
	TotalGrossPay  decimal.Decimal
	TotalTax       decimal.Decimal
	TotalNetPay    decimal.Decimal
}
