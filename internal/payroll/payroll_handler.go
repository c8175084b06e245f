package payroll

import (
	"net/http"
	"strconv"

	"go-erp/internal/middleware"
	payrollerrors "go-erp/internal/payroll/errors"
	"go-erp/internal/rbac"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/dateutil"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rbac    middleware.RBACService
	rdb     *redis.Client
}

// NewHandler accepts a nil redis client; idempotent replay is then disabled.
func NewHandler(service Service, rbacService middleware.RBACService, rdb *redis.Client) *Handler {
	return &Handler{service: service, rbac: rbacService, rdb: rdb}
}

func (h *Handler) CreateRun(c *gin.Context) {
	in, ok := h.bindRunRequest(c)
	if !ok {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		return
	}

	res, err := h.service.GenerateRun(c.Request.Context(), in)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	resp := NewGenerateRunResponse(res)
	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

// RequestRun queues generation for the consumer and answers 202.
func (h *Handler) RequestRun(c *gin.Context) {
	in, ok := h.bindRunRequest(c)
	if !ok {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		return
	}

	resp, err := h.service.RequestRun(c.Request.Context(), in)
	if err != nil {
		middleware.ReleaseIdempotencyLock(c, h.rdb)
		response.FromError(c, err)
		return
	}

	middleware.StoreIdempotentResult(c, h.rdb, resp)
	response.SuccessWithMessage(c, http.StatusAccepted, resp, "payroll run queued")
}

func (h *Handler) bindRunRequest(c *gin.Context) (GenerateRunInput, bool) {
	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return GenerateRunInput{}, false
	}

	in, err := ParseRunRequest(req)
	if err != nil {
		response.FromError(c, err)
		return GenerateRunInput{}, false
	}
	in.CreatedBy, _ = middleware.ActorID(c)
	return in, true
}

// ParseRunRequest turns the period fields into dates. Period wins over the
// explicit pair when both are sent.
func ParseRunRequest(req CreateRunRequest) (GenerateRunInput, error) {
	in := GenerateRunInput{Replace: req.Replace}

	switch {
	case req.Period != "":
		start, end, err := dateutil.ParseMonth(req.Period)
		if err != nil {
			return in, payrollerrors.ErrInvalidPeriod
		}
		in.PeriodStart, in.PeriodEnd = start, end
	case req.PayPeriodStart != "" && req.PayPeriodEnd != "":
		start, err := dateutil.ParseDate(req.PayPeriodStart)
		if err != nil {
			return in, apperror.InvalidField("pay_period_start")
		}
		end, err := dateutil.ParseDate(req.PayPeriodEnd)
		if err != nil {
			return in, apperror.InvalidField("pay_period_end")
		}
		if start.After(end) {
			return in, payrollerrors.ErrInvalidDateRange
		}
		in.PeriodStart, in.PeriodEnd = start, end
	default:
		return in, payrollerrors.ErrInvalidPeriod
	}

	if req.RunDate != "" {
		runDate, err := dateutil.ParseDate(req.RunDate)
		if err != nil {
			return in, apperror.InvalidField("run_date")
		}
		in.RunDate = runDate
	}
	return in, nil
}

func (h *Handler) ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	runs, total, err := h.service.ListRuns(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, req.Page, req.PageSize)
	response.Success(c, http.StatusOK, runs, &meta)
}

func (h *Handler) GetRun(c *gin.Context) {
	runID, ok := parseID(c, "id", payrollerrors.ErrInvalidRunID)
	if !ok {
		return
	}

	resp, err := h.service.GetRun(c.Request.Context(), runID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Aggregate(c *gin.Context) {
	runID, ok := parseID(c, "id", payrollerrors.ErrInvalidRunID)
	if !ok {
		return
	}

	resp, err := h.service.Aggregate(c.Request.Context(), runID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DeleteRun(c *gin.Context) {
	runID, ok := parseID(c, "id", payrollerrors.ErrInvalidRunID)
	if !ok {
		return
	}

	actorID, _ := middleware.ActorID(c)
	if err := h.service.DeleteRun(c.Request.Context(), runID, actorID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPayslips(c *gin.Context) {
	userID, ok := h.payslipOwner(c)
	if !ok {
		return
	}

	slips, err := h.service.ListPayslips(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if len(slips) == 0 {
		response.SuccessWithMessage(c, http.StatusOK, []Payslip{}, "No payslips found")
		return
	}
	response.Success(c, http.StatusOK, slips, nil)
}

func (h *Handler) DownloadPayslipPDF(c *gin.Context) {
	userID, ok := h.payslipOwner(c)
	if !ok {
		return
	}
	entryID, ok := parseID(c, "entryId", payrollerrors.ErrPayslipNotFound)
	if !ok {
		return
	}

	pdf, filename, err := h.service.GetPayslipPDF(c.Request.Context(), userID, entryID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) Summary(c *gin.Context) {
	start, err := dateutil.ParseDate(c.Query("start_date"))
	if err != nil {
		response.FromError(c, apperror.InvalidField("start_date"))
		return
	}
	end, err := dateutil.ParseDate(c.Query("end_date"))
	if err != nil {
		response.FromError(c, apperror.InvalidField("end_date"))
		return
	}

	resp, err := h.service.Summary(c.Request.Context(), start, end)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// payslipOwner resolves :userId and lets callers without payslip read access
// see only their own.
func (h *Handler) payslipOwner(c *gin.Context) (uint64, bool) {
	userID, ok := parseID(c, "userId", payrollerrors.ErrInvalidUserID)
	if !ok {
		return 0, false
	}

	actorID, _ := middleware.ActorID(c)
	if actorID != userID && !middleware.Can(c, h.rbac, rbac.ResourcePayslip, rbac.ActionRead) {
		response.FromError(c, payrollerrors.ErrPayslipForbidden)
		return 0, false
	}
	return userID, true
}

func parseID(c *gin.Context, param string, invalid error) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.FromError(c, invalid)
		return 0, false
	}
	return id, true
}
