package payrollerrors

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"pay_period_start must be before or equal to pay_period_end",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"provide either period (YYYY-MM) or pay_period_start and pay_period_end (YYYY-MM-DD)",
		http.StatusBadRequest,
	)
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrPayrollRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)
	ErrPayrollRunExists = apperror.New(
		apperror.CodeConflict,
		"a payroll run already exists for this pay period",
		http.StatusConflict,
	)
	ErrPayrollRunInProgress = apperror.New(
		apperror.CodeConflict,
		"payroll generation for this pay period is already in progress",
		http.StatusConflict,
	)
	ErrDuplicatePayrollEntry = apperror.New(
		apperror.CodeConflict,
		"an employee already has an entry in this payroll run",
		http.StatusConflict,
	)
	ErrPayslipForbidden = apperror.New(
		apperror.CodeForbidden,
		"you can only view your own payslips",
		http.StatusForbidden,
	)
)
