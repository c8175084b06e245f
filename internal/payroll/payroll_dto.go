package payroll

import "time"

// CreateRunRequest takes either Period (YYYY-MM) or an explicit start/end pair.
type CreateRunRequest struct {
	Period         string `json:"period"`
	PayPeriodStart string `json:"pay_period_start"`
	PayPeriodEnd   string `json:"pay_period_end"`
	RunDate        string `json:"run_date"`
	Replace        bool   `json:"replace"`
}

type ListRunsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=Draft Completed"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type GenerateRunInput struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	RunDate     time.Time
	CreatedBy   uint64
	Replace     bool
}

type SkippedEmployee struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type GenerateRunResult struct {
	Run       PayrollRun
	Processed int
	Skipped   []SkippedEmployee
}

type PayrollRunResponse struct {
	ID             uint64 `json:"id"`
	RunNumber      string `json:"run_number"`
	RunDate        string `json:"run_date"`
	PayPeriodStart string `json:"pay_period_start"`
	PayPeriodEnd   string `json:"pay_period_end"`
	TotalEmployees int    `json:"total_employees"`
	TotalGrossPay  string `json:"total_gross_pay"`
	TotalTax       string `json:"total_tax"`
	TotalNetPay    string `json:"total_net_pay"`
	Status         string `json:"status"`
	CreatedBy      uint64 `json:"created_by"`
	CreatedAt      string `json:"created_at"`
}

type GenerateRunResponse struct {
	Run       PayrollRunResponse `json:"run"`
	Processed int                `json:"processed"`
	Skipped   []SkippedEmployee  `json:"skipped"`
}

type RunRequestedResponse struct {
	EventID        string `json:"event_id"`
	PayPeriodStart string `json:"pay_period_start"`
	PayPeriodEnd   string `json:"pay_period_end"`
	Replace        bool   `json:"replace"`
}

type PayrollEntryResponse struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"user_id"`
	EmployeeName   string `json:"employee_name"`
	BaseSalary     string `json:"base_salary"`
	Allowances     string `json:"allowances"`
	Deductions     string `json:"deductions"`
	GrossPay       string `json:"gross_pay"`
	TaxAmount      string `json:"tax_amount"`
	NetPay         string `json:"net_pay"`
	WorkingDays    int    `json:"working_days"`
	AttendanceDays int    `json:"attendance_days"`
	Currency       string `json:"currency"`
}

type PayrollRunDetailResponse struct {
	PayrollRunResponse
	Entries []PayrollEntryResponse `json:"entries"`
}

type AggregateResponse struct {
	RunID         uint64 `json:"run_id"`
	TotalGrossPay string `json:"total_gross_pay"`
	TotalTax      string `json:"total_tax"`
	TotalNetPay   string `json:"total_net_pay"`
}

type SummaryResponse struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	RunCount       int64  `json:"run_count"`
	TotalEmployees int64  `json:"total_employees"`
	TotalGrossPay  string `json:"total_gross_pay"`
	TotalTax       string `json:"total_tax"`
	TotalNetPay    string `json:"total_net_pay"`
}
