package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryRecord is one effective-dated compensation row. BaseSalary is annual;
// Allowances and Deductions are monthly. A nil EndDate marks the open record.
type SalaryRecord struct {
	ID            uint64          `gorm:"primaryKey"`
	UserID        uint64          `gorm:"not null;uniqueIndex:uq_salary_user_effective,priority:1;index:idx_salary_user_dates,priority:1"`
	BaseSalary    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Allowances    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Deductions    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency      string          `gorm:"type:char(3);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;uniqueIndex:uq_salary_user_effective,priority:2;index:idx_salary_user_dates,priority:2"`
	EndDate       *time.Time      `gorm:"type:date"`
	CreatedBy     uint64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (SalaryRecord) TableName() string {
	return "salary_records"
}

// AppliesOn reports whether ref falls inside [EffectiveDate, EndDate].
func (r SalaryRecord) AppliesOn(ref time.Time) bool {
	if r.EffectiveDate.After(ref) {
		return false
	}
	return r.EndDate == nil || !r.EndDate.Before(ref)
}

// SelectApplicable picks the record with the latest effective date that applies
// on ref. Input order does not matter.
func SelectApplicable(records []SalaryRecord, ref time.Time) (SalaryRecord, bool) {
	var (
		best  SalaryRecord
		found bool
	)
	for _, r := range records {
		if !r.AppliesOn(ref) {
			continue
		}
		if !found || r.EffectiveDate.After(best.EffectiveDate) {
			best = r
			found = true
		}
	}
	return best, found
}
