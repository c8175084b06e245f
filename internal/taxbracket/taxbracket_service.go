package taxbracket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-erp/internal/shared/contextutil"
	"go-erp/internal/shared/dberr"
	taxbracketerrors "go-erp/internal/taxbracket/errors"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const cacheTTL = 24 * time.Hour

var twelve = decimal.NewFromInt(12)

//go:generate mockgen -source=taxbracket_service.go -destination=mock/taxbracket_service_mock.go -package=mock
type Service interface {
	// GetByYear returns the year's bands ordered by min_income, or
	// ErrTaxBracketsMissing when nothing is published.
	GetByYear(ctx context.Context, year int) ([]TaxBracket, error)
	ListByYear(ctx context.Context, year int) ([]TaxBracketResponse, error)
	Publish(ctx context.Context, req PublishTaxBracketsRequest) ([]TaxBracketResponse, error)
	Calculate(ctx context.Context, req CalculateTaxRequest) (TaxCalculationResponse, error)
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

// NewService accepts a nil redis client; the cache is then skipped.
func NewService(db *gorm.DB, repo Repository, rdb *redis.Client, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{db: db, repo: repo, rdb: rdb, logger: logger.Named("taxbracket")}
}

func CacheKey(year int) string {
	return fmt.Sprintf("tax_brackets:%d", year)
}

func (s *service) GetByYear(ctx context.Context, year int) ([]TaxBracket, error) {
	rows, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, taxbracketerrors.ErrTaxBracketsMissing.WithDetails(map[string]int{"tax_year": year})
	}
	return rows, nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]TaxBracketResponse, error) {
	if year <= 0 {
		return nil, taxbracketerrors.ErrInvalidTaxYear
	}
	rows, err := s.load(ctx, year)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) load(ctx context.Context, year int) ([]TaxBracket, error) {
	log := contextutil.GetLogger(ctx, s.logger)
	key := CacheKey(year)

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var cached []TaxBracket
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			log.Warn("tax bracket cache entry unreadable", zap.String("key", key))
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("tax bracket cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		rows, err := s.repo.FindByYear(ctx, year)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil && len(rows) > 0 {
			if raw, err := json.Marshal(rows); err == nil {
				if err := s.rdb.Set(ctx, key, string(raw), cacheTTL).Err(); err != nil {
					log.Warn("tax bracket cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]TaxBracket), nil
}

func (s *service) Publish(ctx context.Context, req PublishTaxBracketsRequest) ([]TaxBracketResponse, error) {
	rows := make([]TaxBracket, len(req.Brackets))
	for i, in := range req.Brackets {
		rows[i] = TaxBracket{
			TaxYear:     req.TaxYear,
			MinIncome:   in.MinIncome,
			MaxIncome:   in.MaxIncome,
			Rate:        in.Rate,
			BracketName: in.BracketName,
		}
	}
	if err := ValidateSet(rows); err != nil {
		return nil, err
	}
	rows = sortedCopy(rows)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		n, err := qtx.CountByYear(ctx, req.TaxYear)
		if err != nil {
			return err
		}
		if n > 0 {
			return taxbracketerrors.ErrTaxYearPublished
		}
		return qtx.CreateBatch(ctx, rows)
	})
	if dberr.IsDuplicateKey(err) {
		return nil, taxbracketerrors.ErrTaxYearPublished.WithCause(err)
	}
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		s.rdb.Del(ctx, CacheKey(req.TaxYear))
	}
	contextutil.GetLogger(ctx, s.logger).Info("tax brackets published",
		zap.Int("tax_year", req.TaxYear),
		zap.Int("brackets", len(rows)),
	)

	return mapToListResponse(rows), nil
}

func (s *service) Calculate(ctx context.Context, req CalculateTaxRequest) (TaxCalculationResponse, error) {
	if req.AnnualIncome.IsNegative() {
		return TaxCalculationResponse{}, taxbracketerrors.ErrInvalidTaxBracketSet.WithDetails("annual_income must not be negative")
	}

	brackets, err := s.GetByYear(ctx, req.TaxYear)
	if err != nil {
		return TaxCalculationResponse{}, err
	}

	total, bands := Breakdown(req.AnnualIncome, brackets)

	effective := decimal.Zero
	if req.AnnualIncome.IsPositive() {
		effective = total.Div(req.AnnualIncome).Mul(hundred)
	}

	out := TaxCalculationResponse{
		TaxYear:       req.TaxYear,
		AnnualIncome:  req.AnnualIncome.StringFixed(2),
		AnnualTax:     total.StringFixed(2),
		MonthlyTax:    total.Div(twelve).StringFixed(2),
		EffectiveRate: effective.StringFixed(2),
		Bands:         make([]BandTaxResponse, len(bands)),
	}
	for i, b := range bands {
		out.Bands[i] = BandTaxResponse{
			BracketName:   b.BracketName,
			MinIncome:     b.MinIncome.StringFixed(2),
			MaxIncome:     fixedPtr(b.MaxIncome),
			Rate:          b.Rate.StringFixed(2),
			TaxableAmount: b.TaxableAmount.StringFixed(2),
			Tax:           b.Tax.StringFixed(2),
		}
	}
	return out, nil
}

func fixedPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	v := d.StringFixed(2)
	return &v
}

func mapToResponse(b TaxBracket) TaxBracketResponse {
	return TaxBracketResponse{
		ID:          b.ID,
		TaxYear:     b.TaxYear,
		MinIncome:   b.MinIncome.StringFixed(2),
		MaxIncome:   fixedPtr(b.MaxIncome),
		Rate:        b.Rate.StringFixed(2),
		BracketName: b.BracketName,
	}
}

func mapToListResponse(rows []TaxBracket) []TaxBracketResponse {
	res := make([]TaxBracketResponse, len(rows))
	for i, b := range rows {
		res[i] = mapToResponse(b)
	}
	return res
}
