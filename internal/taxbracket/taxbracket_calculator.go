package taxbracket

import (
	"fmt"
	"slices"

	taxbracketerrors "go-erp/internal/taxbracket/errors"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// BandTax is the share of tax collected by one bracket.
type BandTax struct {
	BracketName   string
	MinIncome     decimal.Decimal
	MaxIncome     *decimal.Decimal
	Rate          decimal.Decimal
	TaxableAmount decimal.Decimal
	Tax           decimal.Decimal
}

// ComputeAnnualTax applies progressive marginal rates. Income <= 0 or an empty
// set yields zero. The caller's slice is never reordered.
func ComputeAnnualTax(annualIncome decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	total, _ := Breakdown(annualIncome, brackets)
	return total
}

// Breakdown is ComputeAnnualTax plus the bands that collected a positive amount.
func Breakdown(annualIncome decimal.Decimal, brackets []TaxBracket) (decimal.Decimal, []BandTax) {
	total := decimal.Zero
	var bands []BandTax

	remaining := annualIncome
	for _, b := range sortedCopy(brackets) {
		if !remaining.IsPositive() {
			break
		}

		taxable := remaining
		if b.MaxIncome != nil {
			width := b.MaxIncome.Sub(b.MinIncome)
			if width.IsNegative() {
				width = decimal.Zero
			}
			taxable = decimal.Min(remaining, width)
		}
		if taxable.IsZero() {
			continue
		}

		tax := taxable.Mul(b.Rate).Div(hundred)
		total = total.Add(tax)
		remaining = remaining.Sub(taxable)

		bands = append(bands, BandTax{
			BracketName:   b.BracketName,
			MinIncome:     b.MinIncome,
			MaxIncome:     b.MaxIncome,
			Rate:          b.Rate,
			TaxableAmount: taxable,
			Tax:           tax,
		})
	}

	return total, bands
}

func sortedCopy(brackets []TaxBracket) []TaxBracket {
	out := slices.Clone(brackets)
	slices.SortStableFunc(out, func(a, b TaxBracket) int {
		return a.MinIncome.Cmp(b.MinIncome)
	})
	return out
}

// ValidateSet checks that one year's bands start at zero, are contiguous and
// non-overlapping, and that only the last one is unbounded.
func ValidateSet(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return invalidSet("at least one bracket is required")
	}

	sorted := sortedCopy(brackets)
	year := sorted[0].TaxYear

	if !sorted[0].MinIncome.IsZero() {
		return invalidSet("first bracket must start at 0")
	}

	last := len(sorted) - 1
	for i, b := range sorted {
		if b.TaxYear != year {
			return invalidSet("all brackets must belong to the same tax year")
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(hundred) {
			return invalidSet(fmt.Sprintf("bracket %d: rate must be between 0 and 100", i+1))
		}
		if b.MaxIncome != nil && b.MaxIncome.LessThan(b.MinIncome) {
			return invalidSet(fmt.Sprintf("bracket %d: max_income is below min_income", i+1))
		}

		if i == last {
			if b.MaxIncome != nil {
				return invalidSet("last bracket must be unbounded")
			}
			continue
		}

		if b.MaxIncome == nil {
			return invalidSet(fmt.Sprintf("bracket %d: only the last bracket may be unbounded", i+1))
		}
		if !b.MaxIncome.Equal(sorted[i+1].MinIncome) {
			return invalidSet(fmt.Sprintf("bracket %d: max_income must equal the next bracket's min_income", i+1))
		}
	}
	return nil
}

func invalidSet(reason string) error {
	return taxbracketerrors.ErrInvalidTaxBracketSet.WithDetails(reason)
}
