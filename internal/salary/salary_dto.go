package salary

import "github.com/shopspring/decimal"

type CreateSalaryRecordRequest struct {
	UserID        uint64          `json:"user_id" binding:"required"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	Allowances    decimal.Decimal `json:"allowances"`
	Deductions    decimal.Decimal `json:"deductions"`
	Currency      string          `json:"currency" binding:"omitempty,len=3"`
	EffectiveDate string          `json:"effective_date" binding:"required"`
}

type SalaryRecordResponse struct {
	ID            uint64  `json:"id"`
	UserID        uint64  `json:"user_id"`
	BaseSalary    string  `json:"base_salary"`
	Allowances    string  `json:"allowances"`
	Deductions    string  `json:"deductions"`
	Currency      string  `json:"currency"`
	EffectiveDate string  `json:"effective_date"`
	EndDate       *string `json:"end_date"`
}
