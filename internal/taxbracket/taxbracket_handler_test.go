package taxbracket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-erp/internal/taxbracket"
	taxbracketerrors "go-erp/internal/taxbracket/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	listFn      func(ctx context.Context, year int) ([]taxbracket.TaxBracketResponse, error)
	publishFn   func(ctx context.Context, req taxbracket.PublishTaxBracketsRequest) ([]taxbracket.TaxBracketResponse, error)
	calculateFn func(ctx context.Context, req taxbracket.CalculateTaxRequest) (taxbracket.TaxCalculationResponse, error)
}

func (f *fakeService) GetByYear(ctx context.Context, year int) ([]taxbracket.TaxBracket, error) {
	return nil, nil
}

func (f *fakeService) ListByYear(ctx context.Context, year int) ([]taxbracket.TaxBracketResponse, error) {
	return f.listFn(ctx, year)
}

func (f *fakeService) Publish(ctx context.Context, req taxbracket.PublishTaxBracketsRequest) ([]taxbracket.TaxBracketResponse, error) {
	return f.publishFn(ctx, req)
}

func (f *fakeService) Calculate(ctx context.Context, req taxbracket.CalculateTaxRequest) (taxbracket.TaxCalculationResponse, error) {
	return f.calculateFn(ctx, req)
}

func serve(h gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h(c)
	return w
}

func TestHandler_List(t *testing.T) {
	h := taxbracket.NewHandler(&fakeService{
		listFn: func(ctx context.Context, year int) ([]taxbracket.TaxBracketResponse, error) {
			assert.Equal(t, 2023, year)
			return []taxbracket.TaxBracketResponse{{TaxYear: 2023, MinIncome: "0.00", Rate: "10.00"}}, nil
		},
	})

	w := serve(h.List, http.MethodGet, "/tax-brackets?year=2023", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rate":"10.00"`)

	w = serve(h.List, http.MethodGet, "/tax-brackets?year=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Publish(t *testing.T) {
	h := taxbracket.NewHandler(&fakeService{
		publishFn: func(ctx context.Context, req taxbracket.PublishTaxBracketsRequest) ([]taxbracket.TaxBracketResponse, error) {
			assert.Len(t, req.Brackets, 2)
			assert.Nil(t, req.Brackets[1].MaxIncome)
			return nil, taxbracketerrors.ErrTaxYearPublished
		},
	})

	body := `{"tax_year":2023,"brackets":[{"min_income":"0","max_income":"10000","rate":"10"},{"min_income":"10000","max_income":null,"rate":"20"}]}`
	w := serve(h.Publish, http.MethodPost, "/tax-brackets", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(h.Publish, http.MethodPost, "/tax-brackets", `{"brackets":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Calculate(t *testing.T) {
	h := taxbracket.NewHandler(&fakeService{
		calculateFn: func(ctx context.Context, req taxbracket.CalculateTaxRequest) (taxbracket.TaxCalculationResponse, error) {
			assert.True(t, req.AnnualIncome.Equal(d("5000")))
			return taxbracket.TaxCalculationResponse{TaxYear: 2023, AnnualTax: "500.00"}, nil
		},
	})

	w := serve(h.Calculate, http.MethodPost, "/tax-brackets/calculate", `{"tax_year":2023,"annual_income":5000}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"annual_tax":"500.00"`)

	missing := taxbracket.NewHandler(&fakeService{
		calculateFn: func(ctx context.Context, req taxbracket.CalculateTaxRequest) (taxbracket.TaxCalculationResponse, error) {
			return taxbracket.TaxCalculationResponse{}, taxbracketerrors.ErrTaxBracketsMissing
		},
	})
	w = serve(missing.Calculate, http.MethodPost, "/tax-brackets/calculate", `{"tax_year":2031,"annual_income":5000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
