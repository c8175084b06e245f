package events

import "time"

const (
	PayrollRunRequestedTopic = "erp.payroll.run.requested.v1"
	PayrollRunRequestedType  = "payroll.run.requested"
)

// PayrollRunRequestedEvent asks the consumer to generate a run asynchronously.
// Dates are YYYY-MM-DD.
type PayrollRunRequestedEvent struct {
	EventType      string    `json:"event_type"`
	PayPeriodStart string    `json:"pay_period_start"`
	PayPeriodEnd   string    `json:"pay_period_end"`
	RunDate        string    `json:"run_date,omitempty"`
	RequestedBy    uint64    `json:"requested_by"`
	Replace        bool      `json:"replace"`
	OccurredAt     time.Time `json:"occurred_at"`
}
