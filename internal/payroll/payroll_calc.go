package payroll

import (
	"time"

	"go-erp/internal/shared/dateutil"
	"go-erp/internal/taxbracket"

	"github.com/shopspring/decimal"
)

const centPlaces = 2

var monthsPerYear = decimal.NewFromInt(12)

// EntryAmounts holds one employee's monthly figures. Stored fields are rounded
// half away from zero to cents; NetPay is derived from the rounded values.
type EntryAmounts struct {
	MonthlyBase  decimal.Decimal
	Allowances   decimal.Decimal
	Deductions   decimal.Decimal
	GrossPay     decimal.Decimal
	AnnualIncome decimal.Decimal
	AnnualTax    decimal.Decimal
	TaxAmount    decimal.Decimal
	NetPay       decimal.Decimal
}

// ComputeEntry takes an annual base salary and monthly allowances/deductions.
// The tax base re-annualizes the monthly components.
func ComputeEntry(annualBase, allowances, deductions decimal.Decimal, brackets []taxbracket.TaxBracket) EntryAmounts {
	monthlyBase := annualBase.Div(monthsPerYear)
	gross := monthlyBase.Add(allowances).Sub(deductions)

	annualIncome := annualBase.
		Add(allowances.Mul(monthsPerYear)).
		Sub(deductions.Mul(monthsPerYear))
	annualTax := taxbracket.ComputeAnnualTax(annualIncome, brackets)

	grossRounded := gross.Round(centPlaces)
	taxRounded := annualTax.Div(monthsPerYear).Round(centPlaces)

	return EntryAmounts{
		MonthlyBase:  monthlyBase.Round(centPlaces),
		Allowances:   allowances.Round(centPlaces),
		Deductions:   deductions.Round(centPlaces),
		GrossPay:     grossRounded,
		AnnualIncome: annualIncome,
		AnnualTax:    annualTax,
		TaxAmount:    taxRounded,
		NetPay:       grossRounded.Sub(taxRounded),
	}
}

// WorkingDays counts Monday to Friday between start and end, both inclusive.
func WorkingDays(start, end time.Time) int {
	start, end = dateutil.Truncate(start), dateutil.Truncate(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			days++
		}
	}
	return days
}
