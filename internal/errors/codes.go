package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionInvalidValue      ErrorCode = "TRANSACTION_002"
	TransactionInsufficientFunds ErrorCode = "TRANSACTION_003"
)

// Category error codes (CATEGORY_*)
const (
	CategoryTitleMissing ErrorCode = "CATEGORY_001"
)

// Import error codes (IMPORT_*)
const (
	ImportMalformedRow ErrorCode = "IMPORT_001"
	ImportFileMissing  ErrorCode = "IMPORT_002"
	ImportFileTooLarge ErrorCode = "IMPORT_003"
	ImportInvalidFile  ErrorCode = "IMPORT_004"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemRouteNotFound      ErrorCode = "SYSTEM_007"
	SystemMethodNotAllowed   ErrorCode = "SYSTEM_008"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",

	// Transaction errors
	TransactionInvalidValue:      "Transaction value must be positive with at most 2 decimal places",
	TransactionInsufficientFunds: "Not enough balance to execute transaction",

	// Category errors
	CategoryTitleMissing: "Category title is required",

	// Import errors
	ImportMalformedRow: "Import file contains a malformed row",
	ImportFileMissing:  "An import file is required",
	ImportFileTooLarge: "Import file exceeds the maximum allowed size",
	ImportInvalidFile:  "Import file could not be read",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemRouteNotFound:      "Resource not found",
	SystemMethodNotAllowed:   "Method not allowed",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
