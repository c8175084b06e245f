package counter

import "time"

// Counter backs GetNextValue; one row per counter type.
type Counter struct {
	CounterType string `gorm:"type:varchar(64);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}

func (Counter) TableName() string {
	return "counters"
}
