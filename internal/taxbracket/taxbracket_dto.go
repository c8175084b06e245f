package taxbracket

import "github.com/shopspring/decimal"

type BracketInput struct {
	MinIncome   decimal.Decimal  `json:"min_income"`
	MaxIncome   *decimal.Decimal `json:"max_income"`
	Rate        decimal.Decimal  `json:"rate"`
	BracketName string           `json:"bracket_name" binding:"max=100"`
}

type PublishTaxBracketsRequest struct {
	TaxYear  int            `json:"tax_year" binding:"required,gte=1900,lte=2999"`
	Brackets []BracketInput `json:"brackets" binding:"required,min=1,dive"`
}

type CalculateTaxRequest struct {
	TaxYear      int             `json:"tax_year" binding:"required,gte=1900,lte=2999"`
	AnnualIncome decimal.Decimal `json:"annual_income"`
}

type TaxBracketResponse struct {
	ID          uint64  `json:"id"`
	TaxYear     int     `json:"tax_year"`
	MinIncome   string  `json:"min_income"`
	MaxIncome   *string `json:"max_income"`
	Rate        string  `json:"rate"`
	BracketName string  `json:"bracket_name"`
}

type BandTaxResponse struct {
	BracketName   string  `json:"bracket_name"`
	MinIncome     string  `json:"min_income"`
	MaxIncome     *string `json:"max_income"`
	Rate          string  `json:"rate"`
	TaxableAmount string  `json:"taxable_amount"`
	Tax           string  `json:"tax"`
}

type TaxCalculationResponse struct {
	TaxYear       int               `json:"tax_year"`
	AnnualIncome  string            `json:"annual_income"`
	AnnualTax     string            `json:"annual_tax"`
	MonthlyTax    string            `json:"monthly_tax"`
	EffectiveRate string            `json:"effective_rate"`
	Bands         []BandTaxResponse `json:"bands"`
}
