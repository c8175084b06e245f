package taxbracket

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxBracket is one progressive band. A nil MaxIncome marks the unbounded top band.
// Rows are immutable once a year is published.
type TaxBracket struct {
	ID          uint64           `gorm:"primaryKey" json:"id"`
	TaxYear     int              `gorm:"not null;uniqueIndex:uq_tax_bracket_year_min,priority:1" json:"tax_year"`
	MinIncome   decimal.Decimal  `gorm:"type:decimal(15,2);not null;uniqueIndex:uq_tax_bracket_year_min,priority:2" json:"min_income"`
	MaxIncome   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"max_income"`
	Rate        decimal.Decimal  `gorm:"type:decimal(5,2);not null" json:"rate"`
	BracketName string           `gorm:"type:varchar(100)" json:"bracket_name"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (TaxBracket) TableName() string {
	return "tax_brackets"
}
