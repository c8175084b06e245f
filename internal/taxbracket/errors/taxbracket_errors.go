package taxbracketerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrTaxBracketsMissing = apperror.New(
		apperror.CodeUnprocessable,
		"no tax brackets are published for the requested year",
		http.StatusUnprocessableEntity,
	)

	ErrTaxYearPublished = apperror.New(
		apperror.CodeConflict,
		"tax brackets for this year are already published",
		http.StatusConflict,
	)

	ErrInvalidTaxBracketSet = apperror.New(
		apperror.CodeInvalidInput,
		"tax bracket set is invalid",
		http.StatusBadRequest,
	)

	ErrInvalidTaxYear = apperror.New(
		apperror.CodeInvalidInput,
		"tax year is invalid",
		http.StatusBadRequest,
	)
)
