package taxbracket

import (
	"net/http"
	"strconv"

	"go-erp/internal/shared/apperror"
	"go-erp/internal/shared/response"
	taxbracketerrors "go-erp/internal/taxbracket/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		response.FromError(c, taxbracketerrors.ErrInvalidTaxYear)
		return
	}

	resp, err := h.service.ListByYear(c.Request.Context(), year)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Publish(c *gin.Context) {
	var req PublishTaxBracketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Publish(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
