package middleware

import (
	"net/http"

	"go-erp/internal/shared/apperror"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Token not found",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = apperror.New(
		"INVALID_TOKEN",
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)

	ErrTokenExpired = apperror.New(
		"TOKEN_EXPIRED",
		"Token has expired",
		http.StatusUnauthorized,
	)

	ErrIdempotencyInFlight = apperror.New(
		"PROCESSING",
		"A request with this Idempotency-Key is still being processed",
		http.StatusConflict,
	)
)
