package employee

import "time"

const (
	RoleAdmin    = "Admin"
	RoleHR       = "HR"
	RoleFinance  = "Finance"
	RoleIT       = "IT"
	RolePM       = "PM"
	RoleCRM      = "CRM"
	RoleClient   = "Client"
	RoleEmployee = "Employee"
)

// payrollExcludedRoles never receive payroll entries.
var payrollExcludedRoles = []string{RoleAdmin, RoleClient}

// Employee is the roster row owned by user management. Payroll only reads it.
type Employee struct {
	ID         uint64 `gorm:"primaryKey"`
	Username   string `gorm:"type:varchar(100);uniqueIndex;not null"`
	FullName   string `gorm:"type:varchar(150)"`
	Role       string `gorm:"type:varchar(30);index;not null"`
	Department string `gorm:"type:varchar(100)"`
	Position   string `gorm:"type:varchar(100)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "users"
}

func IsPayrollEligible(role string) bool {
	for _, r := range payrollExcludedRoles {
		if r == role {
			return false
		}
	}
	return true
}

// DisplayName falls back to the username when no full name is on file.
func (e Employee) DisplayName() string {
	if e.FullName != "" {
		return e.FullName
	}
	return e.Username
}
