package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type AppError struct {
	Code       string // machine readable, e.g. INVALID_INPUT
	Message    string // safe to show to the caller
	HTTPStatus int
	Details    any
	Err        error // wrapped cause, never rendered
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by code and message so wrapped copies still compare equal.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches a cause to a new AppError. Returns nil for a nil err.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// WithCause returns a copy of a sentinel carrying cause, keeping errors.Is working.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithDetails returns a copy of a sentinel carrying details for the response body.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// ToHTTP resolves any error into an AppError. Unknown errors collapse into ErrInternal
// so driver messages never reach the client.
func ToHTTP(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus == 0 {
			cp := *appErr
			cp.HTTPStatus = http.StatusInternalServerError
			return &cp
		}
		return appErr
	}
	return ErrInternal
}
