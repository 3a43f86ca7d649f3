package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent failures of the dashboard's operations
var (
	// Dataset
	ErrDatasetLoad      = errors.New("dataset load failure")
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
	ErrMissingKey       = errors.New("required key missing")

	// Filters
	ErrUnknownYear      = errors.New("year not present in dataset")
	ErrInvalidHalfYear  = errors.New("invalid half-year")
	ErrUnknownDimension = errors.New("unknown dimension")

	// Upload
	ErrUploadRejected      = errors.New("upload rejected")
	ErrUnsupportedFileType = errors.New("unsupported file type, only .xlsx and .xls are accepted")
	ErrFileTooLarge        = errors.New("file exceeds the 10 MiB limit")
	ErrFileRequired        = errors.New("file is required")
	ErrIngestionFailed     = errors.New("ingestion failed")
	ErrMalformedResponse   = errors.New("malformed server response")

	// Authentication
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// DatasetLoadError wraps a load failure cause so it matches ErrDatasetLoad.
func DatasetLoadError(cause error) error {
	return fmt.Errorf("%w: %w", ErrDatasetLoad, cause)
}

// UploadRejectedError wraps a rejection cause so it matches ErrUploadRejected.
func UploadRejectedError(cause error) error {
	return fmt.Errorf("%w: %w", ErrUploadRejected, cause)
}

// IngestionError reports why a spreadsheet could not be turned into a dataset.
// It matches ErrIngestionFailed and its cause.
type IngestionError struct {
	Cause error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIngestionFailed, e.Cause)
}

func (e *IngestionError) Unwrap() []error {
	return []error{ErrIngestionFailed, e.Cause}
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Message:    message,
		Code:       "FORBIDDEN",
		StatusCode: 403,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewPayloadTooLargeError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "File exceeds the 10 MiB upload limit",
		Code:       "FILE_TOO_LARGE",
		StatusCode: 413,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewUnprocessableUploadError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "UPLOAD_REJECTED",
		StatusCode: 422,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewDatasetUnavailableError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Ticket data is not available",
		Code:       "DATASET_NOT_LOADED",
		StatusCode: 503,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
