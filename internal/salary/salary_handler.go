package salary

import (
	"net/http"
	"strconv"
	"time"

	"go-erp/internal/middleware"
	salaryerrors "go-erp/internal/salary/errors"
	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/dateutil"
	"go-erp/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.FromError(c, salaryerrors.ErrInvalidUserID)
		return
	}

	resp, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Resolve answers which record applies on ?date (today when omitted).
func (h *Handler) Resolve(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.FromError(c, salaryerrors.ErrInvalidUserID)
		return
	}

	ref := dateutil.Truncate(time.Now().UTC())
	if raw := c.Query("date"); raw != "" {
		ref, err = dateutil.ParseDate(raw)
		if err != nil {
			response.FromError(c, apperror.InvalidField("date"))
			return
		}
	}

	resp, err := h.service.GetApplicable(c.Request.Context(), userID, ref)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSalaryRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	actorID, _ := middleware.ActorID(c)
	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}
