package salaryerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrSalaryRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"no salary record applies on the requested date",
		http.StatusNotFound,
	)

	ErrSalaryEffectiveDateConflict = apperror.New(
		apperror.CodeConflict,
		"effective date must be after the latest salary record",
		http.StatusConflict,
	)

	ErrInvalidSalaryAmount = apperror.New(
		apperror.CodeInvalidInput,
		"salary amounts must not be negative",
		http.StatusBadRequest,
	)

	ErrInvalidEffectiveDate = apperror.New(
		apperror.CodeInvalidInput,
		"effective_date must be YYYY-MM-DD",
		http.StatusBadRequest,
	)

	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"user_id is invalid",
		http.StatusBadRequest,
	)
)
