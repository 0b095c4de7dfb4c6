package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeTimeout is used when the request ran out of time before completing
	ErrCodeTimeout = "ERR_TIMEOUT"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeStaleState          = "ERR_STALE_STATE"
)

// Business rule error codes
const (
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeInvalidTransition   = "ERR_INVALID_TRANSITION"
	ErrCodeIncompleteReport    = "ERR_INCOMPLETE_REPORT"
	ErrCodeReportFinal         = "ERR_REPORT_FINAL"
	ErrCodeIdentifierImmutable = "ERR_IDENTIFIER_IMMUTABLE"
	ErrCodeDuplicateEntry      = "ERR_DUPLICATE_BOARD_ENTRY"
)

// Numbering error codes
const (
	ErrCodeBootstrapRequired  = "ERR_BOOTSTRAP_REQUIRED"
	ErrCodeAlreadyInitialized = "ERR_ALREADY_INITIALIZED"
	ErrCodeTeamMismatch       = "ERR_TEAM_MISMATCH"
	ErrCodePeriodMismatch     = "ERR_PERIOD_MISMATCH"
	ErrCodeInvalidSeed        = "ERR_INVALID_SEED"
	ErrCodeInvalidTeam        = "ERR_INVALID_TEAM"
	ErrCodeInvalidPeriod      = "ERR_INVALID_PERIOD"
	ErrCodeInvalidIdentifier  = "ERR_INVALID_IDENTIFIER"
)

// Retryable failure codes; the request changed nothing and may be repeated
const (
	ErrCodeAllocationFailed  = "ERR_ALLOCATION_FAILED"
	ErrCodePersistenceFailed = "ERR_PERSISTENCE_FAILED"
	ErrCodeSyncFailed        = "ERR_SYNC_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeTimeout:  http.StatusGatewayTimeout,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeStaleState:          http.StatusConflict,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:   http.StatusUnprocessableEntity,
	ErrCodeIncompleteReport:    http.StatusUnprocessableEntity,
	ErrCodeReportFinal:         http.StatusUnprocessableEntity,
	ErrCodeIdentifierImmutable: http.StatusConflict,
	ErrCodeDuplicateEntry:      http.StatusBadRequest,

	ErrCodeBootstrapRequired:  http.StatusConflict,
	ErrCodeAlreadyInitialized: http.StatusConflict,
	ErrCodeTeamMismatch:       http.StatusUnprocessableEntity,
	ErrCodePeriodMismatch:     http.StatusUnprocessableEntity,
	ErrCodeInvalidSeed:        http.StatusBadRequest,
	ErrCodeInvalidTeam:        http.StatusBadRequest,
	ErrCodeInvalidPeriod:      http.StatusBadRequest,
	ErrCodeInvalidIdentifier:  http.StatusBadRequest,

	ErrCodeAllocationFailed:  http.StatusServiceUnavailable,
	ErrCodePersistenceFailed: http.StatusServiceUnavailable,
	ErrCodeSyncFailed:        http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
	"STALE_STATE":          ErrCodeStaleState,
	"PERSISTENCE_FAILED":   ErrCodePersistenceFailed,
	"SYNC_FAILED":          ErrCodeSyncFailed,

	"BOOTSTRAP_REQUIRED":      ErrCodeBootstrapRequired,
	"ALREADY_INITIALIZED":     ErrCodeAlreadyInitialized,
	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,
	"ALLOCATION_FAILED":       ErrCodeAllocationFailed,
	"TEAM_MISMATCH":           ErrCodeTeamMismatch,
	"PERIOD_MISMATCH":         ErrCodePeriodMismatch,
	"INVALID_SEED":            ErrCodeInvalidSeed,
	"INVALID_TEAM":            ErrCodeInvalidTeam,
	"INVALID_PERIOD":          ErrCodeInvalidPeriod,
	"INVALID_IDENTIFIER":      ErrCodeInvalidIdentifier,

	"INCOMPLETE_REPORT":     ErrCodeIncompleteReport,
	"REPORT_FINAL":          ErrCodeReportFinal,
	"IDENTIFIER_IMMUTABLE":  ErrCodeIdentifierImmutable,
	"INVALID_TRANSITION":    ErrCodeInvalidTransition,
	"DUPLICATE_BOARD_ENTRY": ErrCodeDuplicateEntry,
	"INVALID_TITLE":         ErrCodeInvalidInput,
	"INVALID_STATUS":        ErrCodeInvalidInput,
	"INVALID_EVENT":         ErrCodeInvalidInput,
	"INVALID_WORK_ITEM":     ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to its API form.
// Codes that are already in API form, or unknown, are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
