package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
)

// Resource error codes
const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONCURRENCY_CONFLICT"
)

// Pipeline error codes raised by the import services
const (
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeExtractionFailed    = "EXTRACTION_FAILED"
	ErrCodeApprovalPending     = "APPROVAL_PENDING"
	ErrCodeProfileLimit        = "PROFILE_LIMIT"
	ErrCodeProfileIncompatible = "PROFILE_INCOMPATIBLE"
	ErrCodeReviewOrder         = "REVIEW_ORDER"
	ErrCodeUnresolvedRows      = "UNRESOLVED_ROWS"
	ErrCodeAreaConfirmed       = "AREA_CONFIRMED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	// Pipeline rule violations. Ordering and unresolved-row conflicts are
	// 409 because the resource exists but is in a conflicting state.
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeExtractionFailed:    http.StatusUnprocessableEntity,
	ErrCodeApprovalPending:     http.StatusConflict,
	ErrCodeProfileLimit:        http.StatusUnprocessableEntity,
	ErrCodeProfileIncompatible: http.StatusBadRequest,
	ErrCodeReviewOrder:         http.StatusConflict,
	ErrCodeUnresolvedRows:      http.StatusConflict,
	ErrCodeAreaConfirmed:       http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Domain validation codes all start with INVALID_ and map to 400 unless
// listed explicitly above.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
