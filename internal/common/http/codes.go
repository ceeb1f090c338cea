package http

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
)

// Transport-level failures. They go through the same ErrorHandler as
// service errors so every error response has one shape.
var (
	ErrMalformedBody = commonerrors.NewDomainError(
		"INVALID_JSON",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Malformed JSON request",
	)

	ErrInvalidUserID = commonerrors.NewDomainError(
		"INVALID_USER_ID_FORMAT",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"User id must be a positive integer",
	)

	ErrRouteNotFound = commonerrors.NewDomainError(
		"NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"No handler found for this path",
	)

	ErrMethodNotAllowed = commonerrors.NewDomainError(
		"METHOD_NOT_ALLOWED",
		commonerrors.CategoryValidation,
		http.StatusMethodNotAllowed,
		"Request method not supported",
	)

	ErrRequestTooLarge = commonerrors.NewDomainError(
		"REQUEST_TOO_LARGE",
		commonerrors.CategoryValidation,
		http.StatusRequestEntityTooLarge,
		"Request body too large",
	)

	ErrRateLimited = commonerrors.NewDomainError(
		"RATE_LIMITED",
		commonerrors.CategoryValidation,
		http.StatusTooManyRequests,
		"Rate limit exceeded",
	)

	ErrMissingAuthorization = commonerrors.NewDomainError(
		"MISSING_AUTHORIZATION",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Missing or invalid authorization",
	)
)
