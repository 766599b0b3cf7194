// Package errors provides the application error type used across the clinic API.
// Services return *AppError values so handlers can translate them into the
// response envelope without leaking internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Unauthorized request", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Incorrect email or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Refresh token is expired or used", StatusCode: http.StatusUnauthorized}
	ErrInvalidSecretCode   = &AppError{Code: "INVALID_SECRET_CODE", Message: "Invalid secret code", StatusCode: http.StatusBadRequest}
	ErrInvalidResetCode    = &AppError{Code: "INVALID_RESET_CODE", Message: "Invalid or expired reset code.", StatusCode: http.StatusBadRequest}
	ErrRateLimited         = &AppError{Code: "RATE_LIMITED", Message: "Too many requests, please try again later", StatusCode: http.StatusTooManyRequests}
)

// General errors.
var (
	ErrInvalidInput       = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound           = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer     = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrStorageUnavailable = &AppError{Code: "STORAGE_UNAVAILABLE", Message: "File storage is not configured", StatusCode: http.StatusServiceUnavailable}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "Email is already in use.", StatusCode: http.StatusConflict}
)

// Client errors.
var (
	ErrClientNotFound       = &AppError{Code: "CLIENT_NOT_FOUND", Message: "Client not found", StatusCode: http.StatusNotFound}
	ErrDuplicateClientEmail = &AppError{Code: "DUPLICATE_CLIENT_EMAIL", Message: "Email already exists", StatusCode: http.StatusConflict}
)

// Appointment errors.
var (
	ErrAppointmentNotFound = &AppError{Code: "APPOINTMENT_NOT_FOUND", Message: "Appointment not found", StatusCode: http.StatusNotFound}
	ErrInvalidDate         = &AppError{Code: "INVALID_DATE", Message: "Invalid date format", StatusCode: http.StatusBadRequest}
	ErrInvalidDateRange    = &AppError{Code: "INVALID_DATE_RANGE", Message: "End date must be after start date", StatusCode: http.StatusBadRequest}
	ErrInvalidDays         = &AppError{Code: "INVALID_DAYS", Message: "Invalid or missing 'days' parameter. Must be a positive integer.", StatusCode: http.StatusBadRequest}
)

// Invoice errors.
var (
	ErrInvoiceNotFound      = &AppError{Code: "INVOICE_NOT_FOUND", Message: "Invoice not found.", StatusCode: http.StatusNotFound}
	ErrInvalidAmount        = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive number.", StatusCode: http.StatusBadRequest}
	ErrInvalidInvoiceStatus = &AppError{Code: "INVALID_INVOICE_STATUS", Message: "Invalid status. Must be 'Pending' or 'Paid'.", StatusCode: http.StatusBadRequest}
)

// Patient history errors.
var (
	ErrHistoryNotFound = &AppError{Code: "HISTORY_NOT_FOUND", Message: "History record not found", StatusCode: http.StatusNotFound}
)

// Settings errors.
var (
	ErrSettingsNotFound = &AppError{Code: "SETTINGS_NOT_FOUND", Message: "Settings not found", StatusCode: http.StatusNotFound}
	ErrSettingsExist    = &AppError{Code: "SETTINGS_EXIST", Message: "Settings already exist. Use update instead.", StatusCode: http.StatusConflict}
)
