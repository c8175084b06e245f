package salary_test

import (
	"testing"
	"time"

	"go-erp/internal/salary"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestSelectApplicable(t *testing.T) {
	recA := salary.SalaryRecord{ID: 1, EffectiveDate: date(2022, 1, 1), EndDate: datePtr(2022, 12, 31)}
	recB := salary.SalaryRecord{ID: 2, EffectiveDate: date(2023, 1, 1), EndDate: datePtr(2023, 6, 30)}
	recC := salary.SalaryRecord{ID: 3, EffectiveDate: date(2023, 8, 1)}
	history := []salary.SalaryRecord{recC, recA, recB}

	cases := []struct {
		name   string
		ref    time.Time
		wantID uint64
		found  bool
	}{
		{"inside first record", date(2022, 6, 15), 1, true},
		{"last day of first record", date(2022, 12, 31), 1, true},
		{"first day of second record", date(2023, 1, 1), 2, true},
		{"gap between records", date(2023, 7, 15), 0, false},
		{"open record", date(2024, 3, 1), 3, true},
		{"before any history", date(2021, 12, 31), 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := salary.SelectApplicable(history, tc.ref)
			assert.Equal(t, tc.found, ok)
			if tc.found {
				assert.Equal(t, tc.wantID, got.ID)
			}
		})
	}
}

func TestSelectApplicable_LatestEffectiveWins(t *testing.T) {
	older := salary.SalaryRecord{ID: 1, EffectiveDate: date(2023, 1, 1)}
	newer := salary.SalaryRecord{ID: 2, EffectiveDate: date(2023, 3, 1)}

	got, ok := salary.SelectApplicable([]salary.SalaryRecord{newer, older}, date(2023, 4, 1))

	assert.True(t, ok)
	assert.Equal(t, uint64(2), got.ID)
}
