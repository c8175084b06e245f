package attendance

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusPresent = "PRESENT"
	StatusLate    = "LATE"
	StatusAbsent  = "ABSENT"
	StatusLeave   = "LEAVE"
)

// attendedStatuses count as a day worked for payroll.
var attendedStatuses = []string{StatusPresent, StatusLate}

type Attendance struct {
	ID             uint64         `gorm:"column:id;primaryKey"`
	UserID         uint64         `gorm:"column:user_id;not null;index:idx_attendance_user_date,priority:1"`
	AttendanceDate time.Time      `gorm:"column:attendance_date;type:date;not null;index:idx_attendance_user_date,priority:2"`
	ClockIn        time.Time      `gorm:"column:clock_in;not null"`
	ClockOut       *time.Time     `gorm:"column:clock_out"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	Source         string         `gorm:"column:source;type:varchar(30);not null;default:MANUAL"`
	Notes          *string        `gorm:"column:notes;type:text"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Attendance) TableName() string {
	return "attendances"
}
