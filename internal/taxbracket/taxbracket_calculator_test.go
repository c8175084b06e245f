package taxbracket_test

import (
	"errors"
	"testing"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/taxbracket"
	taxbracketerrors "go-erp/internal/taxbracket/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func dp(v string) *decimal.Decimal {
	x := d(v)
	return &x
}

// standardBrackets: 10% to 10k, 20% to 40k, 30% above.
func standardBrackets() []taxbracket.TaxBracket {
	return []taxbracket.TaxBracket{
		{TaxYear: 2023, MinIncome: d("0"), MaxIncome: dp("10000"), Rate: d("10"), BracketName: "Low"},
		{TaxYear: 2023, MinIncome: d("10000"), MaxIncome: dp("40000"), Rate: d("20"), BracketName: "Mid"},
		{TaxYear: 2023, MinIncome: d("40000"), MaxIncome: nil, Rate: d("30"), BracketName: "Top"},
	}
}

func TestComputeAnnualTax_Scenarios(t *testing.T) {
	cases := []struct {
		name   string
		income string
		want   string
	}{
		{"crosses all bands", "50000", "10000"},
		{"inside first band", "5000", "500"},
		{"zero income", "0", "0"},
		{"negative income", "-1000", "0"},
		{"exact first boundary", "10000", "1000"},
		{"scenario three tax base", "61800", "13540"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := taxbracket.ComputeAnnualTax(d(tc.income), standardBrackets())
			assert.True(t, got.Equal(d(tc.want)), "got %s want %s", got, tc.want)
		})
	}
}

func TestComputeAnnualTax_EmptySetIsZero(t *testing.T) {
	assert.True(t, taxbracket.ComputeAnnualTax(d("50000"), nil).IsZero())
}

func TestComputeAnnualTax_SortsWithoutMutatingInput(t *testing.T) {
	b := standardBrackets()
	shuffled := []taxbracket.TaxBracket{b[2], b[0], b[1]}

	got := taxbracket.ComputeAnnualTax(d("50000"), shuffled)

	assert.True(t, got.Equal(d("10000")))
	assert.Equal(t, "Top", shuffled[0].BracketName)
	assert.Equal(t, "Low", shuffled[1].BracketName)
}

func TestComputeAnnualTax_ZeroWidthBand(t *testing.T) {
	brackets := []taxbracket.TaxBracket{
		{MinIncome: d("0"), MaxIncome: dp("10000"), Rate: d("10")},
		{MinIncome: d("10000"), MaxIncome: dp("10000"), Rate: d("99")},
		{MinIncome: d("10000"), Rate: d("20")},
	}

	total, bands := taxbracket.Breakdown(d("15000"), brackets)

	assert.True(t, total.Equal(d("2000")), "got %s", total)
	require.Len(t, bands, 2)
	assert.True(t, bands[1].Rate.Equal(d("20")))
}

func TestComputeAnnualTax_Monotonic(t *testing.T) {
	brackets := standardBrackets()
	top := d("30").Div(d("100"))
	step := d("250")

	prev := decimal.Zero
	for income := decimal.Zero; income.LessThanOrEqual(d("100000")); income = income.Add(step) {
		tax := taxbracket.ComputeAnnualTax(income, brackets)
		require.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at %s", income)
		require.True(t, tax.Sub(prev).LessThanOrEqual(step.Mul(top)), "marginal rate above top band at %s", income)
		prev = tax
	}
}

func TestComputeAnnualTax_ContinuousAtBoundaries(t *testing.T) {
	brackets := standardBrackets()
	one := d("0.01")

	for i := 0; i < len(brackets)-1; i++ {
		boundary := *brackets[i].MaxIncome
		assert.True(t, boundary.Equal(brackets[i+1].MinIncome))

		at := taxbracket.ComputeAnnualTax(boundary, brackets)
		above := taxbracket.ComputeAnnualTax(boundary.Add(one), brackets)
		jump := above.Sub(at)
		want := one.Mul(brackets[i+1].Rate).Div(d("100"))
		assert.True(t, jump.Equal(want), "boundary %s jumped %s", boundary, jump)
	}
}

func TestBreakdown_Bands(t *testing.T) {
	total, bands := taxbracket.Breakdown(d("50000"), standardBrackets())

	assert.True(t, total.Equal(d("10000")))
	require.Len(t, bands, 3)
	assert.True(t, bands[0].Tax.Equal(d("1000")))
	assert.True(t, bands[1].Tax.Equal(d("6000")))
	assert.True(t, bands[2].TaxableAmount.Equal(d("10000")))
	assert.True(t, bands[2].Tax.Equal(d("3000")))
}

func TestValidateSet(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func([]taxbracket.TaxBracket) []taxbracket.TaxBracket
		wantErr bool
	}{
		{"valid", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket { return b }, false},
		{"valid unsorted", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			return []taxbracket.TaxBracket{b[1], b[2], b[0]}
		}, false},
		{"empty", func([]taxbracket.TaxBracket) []taxbracket.TaxBracket { return nil }, true},
		{"does not start at zero", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[0].MinIncome = d("100")
			return b
		}, true},
		{"gap", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[1].MinIncome = d("12000")
			return b
		}, true},
		{"overlap", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[0].MaxIncome = dp("15000")
			return b
		}, true},
		{"bounded top", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[2].MaxIncome = dp("90000")
			return b
		}, true},
		{"unbounded middle", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[1].MaxIncome = nil
			return b
		}, true},
		{"rate above 100", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[2].Rate = d("101")
			return b
		}, true},
		{"negative rate", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[0].Rate = d("-1")
			return b
		}, true},
		{"mixed years", func(b []taxbracket.TaxBracket) []taxbracket.TaxBracket {
			b[1].TaxYear = 2024
			return b
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := taxbracket.ValidateSet(tc.mutate(standardBrackets()))
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, taxbracketerrors.ErrInvalidTaxBracketSet))

			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.NotNil(t, appErr.Details)
		})
	}
}
