package attendance

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	// CountAttendanceDays returns, per user, the distinct dates in [start, end]
	// recorded as PRESENT or LATE. Users without rows are absent from the map.
	CountAttendanceDays(ctx context.Context, userIDs []uint64, start, end time.Time) (map[uint64]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type dayCount struct {
	UserID uint64
	Days   int
}

func (r *repository) CountAttendanceDays(ctx context.Context, userIDs []uint64, start, end time.Time) (map[uint64]int, error) {
	out := make(map[uint64]int, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []dayCount
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Select("user_id, COUNT(DISTINCT attendance_date) AS days").
		Where("user_id IN ?", userIDs).
		Where("attendance_date BETWEEN ? AND ?", start.Format("2006-01-02"), end.Format("2006-01-02")).
		Where("status IN ?", attendedStatuses).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = row.Days
	}
	return out, nil
}
