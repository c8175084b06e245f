package salary_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-erp/internal/middleware"
	"go-erp/internal/salary"
	salaryerrors "go-erp/internal/salary/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeSalaryService struct {
	getApplicableFn func(ctx context.Context, userID uint64, ref time.Time) (salary.SalaryRecordResponse, error)
	listByUserFn    func(ctx context.Context, userID uint64) ([]salary.SalaryRecordResponse, error)
	createFn        func(ctx context.Context, createdBy uint64, req salary.CreateSalaryRecordRequest) (salary.SalaryRecordResponse, error)
}

func (f *fakeSalaryService) Resolve(ctx context.Context, userID uint64, ref time.Time) (*salary.SalaryRecord, error) {
	return nil, nil
}

func (f *fakeSalaryService) GetApplicable(ctx context.Context, userID uint64, ref time.Time) (salary.SalaryRecordResponse, error) {
	return f.getApplicableFn(ctx, userID, ref)
}

func (f *fakeSalaryService) ListByUser(ctx context.Context, userID uint64) ([]salary.SalaryRecordResponse, error) {
	return f.listByUserFn(ctx, userID)
}

func (f *fakeSalaryService) Create(ctx context.Context, createdBy uint64, req salary.CreateSalaryRecordRequest) (salary.SalaryRecordResponse, error) {
	return f.createFn(ctx, createdBy, req)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestHandler_Resolve(t *testing.T) {
	h := salary.NewHandler(&fakeSalaryService{
		getApplicableFn: func(ctx context.Context, userID uint64, ref time.Time) (salary.SalaryRecordResponse, error) {
			assert.Equal(t, uint64(10), userID)
			assert.Equal(t, date(2023, 2, 1), ref)
			return salary.SalaryRecordResponse{ID: 1, UserID: 10, BaseSalary: "60000.00"}, nil
		},
	})

	c, w := newTestContext(http.MethodGet, "/salary-records/resolve?user_id=10&date=2023-02-01", "")
	h.Resolve(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"base_salary":"60000.00"`)
}

func TestHandler_Resolve_NotFound(t *testing.T) {
	h := salary.NewHandler(&fakeSalaryService{
		getApplicableFn: func(ctx context.Context, userID uint64, ref time.Time) (salary.SalaryRecordResponse, error) {
			return salary.SalaryRecordResponse{}, salaryerrors.ErrSalaryRecordNotFound
		},
	})

	c, w := newTestContext(http.MethodGet, "/salary-records/resolve?user_id=10", "")
	h.Resolve(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newTestContext(http.MethodGet, "/salary-records/resolve?user_id=x", "")
	h.Resolve(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Create(t *testing.T) {
	h := salary.NewHandler(&fakeSalaryService{
		createFn: func(ctx context.Context, createdBy uint64, req salary.CreateSalaryRecordRequest) (salary.SalaryRecordResponse, error) {
			assert.Equal(t, uint64(3), createdBy)
			assert.Equal(t, "60000", req.BaseSalary.String())
			return salary.SalaryRecordResponse{ID: 8, UserID: req.UserID}, nil
		},
	})

	c, w := newTestContext(http.MethodPost, "/salary-records",
		`{"user_id":10,"base_salary":"60000","allowances":"200","deductions":"50","effective_date":"2023-03-01"}`)
	c.Set(middleware.ContextUserID, "3")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodPost, "/salary-records", `{"base_salary":"1"}`)
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_List(t *testing.T) {
	h := salary.NewHandler(&fakeSalaryService{
		listByUserFn: func(ctx context.Context, userID uint64) ([]salary.SalaryRecordResponse, error) {
			return []salary.SalaryRecordResponse{{ID: 2}, {ID: 1}}, nil
		},
	})

	c, w := newTestContext(http.MethodGet, "/salary-records?user_id=10", "")
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":2`)
}
