package payroll_test

import (
	"testing"
	"time"

	"go-erp/internal/payroll"
	"go-erp/internal/taxbracket"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func standardBrackets() []taxbracket.TaxBracket {
	return []taxbracket.TaxBracket{
		{TaxYear: 2023, MinIncome: dec("0"), MaxIncome: decPtr("10000"), Rate: dec("10")},
		{TaxYear: 2023, MinIncome: dec("10000"), MaxIncome: decPtr("40000"), Rate: dec("20")},
		{TaxYear: 2023, MinIncome: dec("40000"), Rate: dec("30")},
	}
}

func TestComputeEntry_MonthlyEmployee(t *testing.T) {
	got := payroll.ComputeEntry(dec("60000"), dec("200"), dec("50"), standardBrackets())

	assert.Equal(t, "5000.00", got.MonthlyBase.StringFixed(2))
	assert.Equal(t, "5150.00", got.GrossPay.StringFixed(2))
	assert.True(t, got.AnnualIncome.Equal(dec("61800")))
	assert.True(t, got.AnnualTax.Equal(dec("13540")))
	assert.Equal(t, "1128.33", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "4021.67", got.NetPay.StringFixed(2))
}

func TestComputeEntry_NetIsRoundedGrossMinusRoundedTax(t *testing.T) {
	got := payroll.ComputeEntry(dec("50000.05"), dec("0"), dec("0"), standardBrackets())

	assert.True(t, got.NetPay.Equal(got.GrossPay.Sub(got.TaxAmount)))
	assert.Equal(t, int32(-2), got.GrossPay.Exponent())
}

func TestComputeEntry_NoBracketsMeansNoTax(t *testing.T) {
	got := payroll.ComputeEntry(dec("60000"), dec("0"), dec("0"), nil)

	assert.True(t, got.TaxAmount.IsZero())
	assert.True(t, got.NetPay.Equal(got.GrossPay))
}

func TestComputeEntry_DeductionsAboveIncome(t *testing.T) {
	got := payroll.ComputeEntry(dec("1200"), dec("0"), dec("500"), standardBrackets())

	assert.Equal(t, "-400.00", got.GrossPay.StringFixed(2))
	assert.True(t, got.TaxAmount.IsZero())
}

func TestWorkingDays(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"february 2023", day(2023, 2, 1), day(2023, 2, 28), 20},
		{"february 2024 leap", day(2024, 2, 1), day(2024, 2, 29), 21},
		{"march 2023", day(2023, 3, 1), day(2023, 3, 31), 23},
		{"single weekday", day(2023, 2, 1), day(2023, 2, 1), 1},
		{"single saturday", day(2023, 2, 4), day(2023, 2, 4), 0},
		{"weekend only", day(2023, 2, 4), day(2023, 2, 5), 0},
		{"reversed range", day(2023, 2, 28), day(2023, 2, 1), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, payroll.WorkingDays(tc.start, tc.end))
		})
	}
}
