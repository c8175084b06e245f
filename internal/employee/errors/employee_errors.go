package employeeerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var ErrEmployeeNotFound = apperror.New(
	apperror.CodeNotFound,
	"employee not found",
	http.StatusNotFound,
)
