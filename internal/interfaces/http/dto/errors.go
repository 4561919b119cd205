package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeInvalidCredentials is used when login fails
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountSuspended is used when a suspended account tries to authenticate
	ErrCodeAccountSuspended = "ERR_ACCOUNT_SUSPENDED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid or revoked
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when requested quantity exceeds stock
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	// ErrCodeOutOfStock is used when a variant has no stock at all
	ErrCodeOutOfStock = "ERR_OUT_OF_STOCK"
	// ErrCodeNotEligible is used when a precondition for the action is not met
	ErrCodeNotEligible = "ERR_NOT_ELIGIBLE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountSuspended:   http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeOutOfStock:        http.StatusUnprocessableEntity,
	ErrCodeNotEligible:       http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_ format used on the wire
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"USER_NOT_FOUND":    ErrCodeNotFound,
	"ITEM_NOT_FOUND":    ErrCodeNotFound,
	"VARIANT_NOT_FOUND": ErrCodeNotFound,

	"ALREADY_EXISTS": ErrCodeAlreadyExists,
	"EMAIL_TAKEN":    ErrCodeAlreadyExists,
	"DUPLICATE_SKU":  ErrCodeAlreadyExists,

	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"FORBIDDEN":           ErrCodeForbidden,
	"SELF_STATUS_CHANGE":  ErrCodeForbidden,
	"INVALID_CREDENTIALS": ErrCodeInvalidCredentials,
	"ACCOUNT_SUSPENDED":   ErrCodeAccountSuspended,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenInvalid,
	"TOKEN_ERROR":         ErrCodeTokenInvalid,

	"INSUFFICIENT_STOCK": ErrCodeInsufficientStock,
	"OUT_OF_STOCK":       ErrCodeOutOfStock,
	"NOT_ELIGIBLE":       ErrCodeNotEligible,
	"INVALID_STATE":      ErrCodeInvalidState,
	"NO_ITEMS":           ErrCodeBusinessRule,

	"INVALID_INPUT":       ErrCodeInvalidInput,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
	"INTERNAL_ERROR":      ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized wire
// format. Codes following the INVALID_<FIELD> convention fall back to the
// generic validation code; anything else passes through as-is.
func NormalizeErrorCode(code string) string {
	if wireCode, ok := DomainErrorCodeMapping[code]; ok {
		return wireCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeValidation
	}
	return code
}
