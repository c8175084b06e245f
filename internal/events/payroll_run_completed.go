package events

import "time"

const (
	PayrollRunCompletedTopic = "erp.payroll.run.completed.v1"
	PayrollRunCompletedType  = "payroll.run.completed"
	PayrollRunAggregateType  = "payroll_run"
)

// PayrollRunCompletedEvent carries the final header of a generated run.
// Amounts are decimal strings with two fraction digits.
type PayrollRunCompletedEvent struct {
	EventType      string    `json:"event_type"`
	RunID          uint64    `json:"run_id"`
	RunNumber      string    `json:"run_number"`
	PayPeriodStart string    `json:"pay_period_start"`
	PayPeriodEnd   string    `json:"pay_period_end"`
	TotalEmployees int       `json:"total_employees"`
	TotalGrossPay  string    `json:"total_gross_pay"`
	TotalTax       string    `json:"total_tax"`
	TotalNetPay    string    `json:"total_net_pay"`
	SkippedCount   int       `json:"skipped_count"`
	CreatedBy      uint64    `json:"created_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
