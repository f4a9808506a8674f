package hubapi

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents a single error returned by the platform API.
type APIError struct {
	Code   int    `json:"code"   yaml:"code"`
	Title  string `json:"title"  yaml:"title"`
	Detail string `json:"detail" yaml:"detail"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (code: %d)", e.Title, e.Detail, e.Code)
}

// ResponseError represents the error body of a failed API response.
type ResponseError struct {
	Errors []APIError `json:"errors"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if len(e.Errors) == 0 {
		return "unknown error"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	return fmt.Sprintf("multiple errors: %v", e.Errors)
}

// FirstError returns the first error or nil.
func (e *ResponseError) FirstError() *APIError {
	if len(e.Errors) > 0 {
		return &e.Errors[0]
	}

	return nil
}

// Common error codes.
const (
	ErrorCodeBadRequest       = 4000
	ErrorCodeNotAuthenticated = 4010
	ErrorCodeNotAuthorized    = 4030
	ErrorCodeNotFound         = 4040
	ErrorCodeReadOnlySetting  = 4090
	ErrorCodeTooManyRequests  = 4290
	ErrorCodeServerError      = 5000
)

// Common error types.
var (
	ErrBadRequest      = &APIError{Code: ErrorCodeBadRequest, Title: "SH-BadRequest"}
	ErrUnauthorized    = &APIError{Code: ErrorCodeNotAuthenticated, Title: "SH-NotAuthenticated"}
	ErrForbidden       = &APIError{Code: ErrorCodeNotAuthorized, Title: "SH-NotAuthorized"}
	ErrNotFound        = &APIError{Code: ErrorCodeNotFound, Title: "SH-ResourceNotFound"}
	ErrReadOnlySetting = &APIError{Code: ErrorCodeReadOnlySetting, Title: "SH-ReadOnlySetting"}
	ErrTooManyRequests = &APIError{Code: ErrorCodeTooManyRequests, Title: "SH-TooManyRequests"}
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired        = errors.New("config is required")
	ErrAPIEndpointRequired   = errors.New("API endpoint is required")
	ErrAPIKeyRequired        = errors.New("API key is required")
	ErrInvalidProjectID      = errors.New("invalid project id")
	ErrInvalidJobKey         = errors.New("invalid job key")
	ErrJobKeyMismatch        = errors.New("job key belongs to a different project")
	ErrSpiderNameRequired    = errors.New("spider name is required")
	ErrInvalidCollectionName = errors.New("invalid collection name")
	ErrCollectionKeyRequired = errors.New("collection item requires a _key field")
	ErrFrontierNameRequired  = errors.New("frontier name is required")
	ErrSlotNameRequired      = errors.New("slot name is required")
	ErrSettingNotFound       = errors.New("setting not found")
	ErrNoMoreItems           = errors.New("no more items")
	ErrCircuitBreakerOpen    = errors.New("circuit breaker is open")
)

// invalidInputErrs are the client-side validation errors that make up the
// InvalidInput class.
var invalidInputErrs = []error{
	ErrInvalidProjectID,
	ErrInvalidJobKey,
	ErrJobKeyMismatch,
	ErrSpiderNameRequired,
	ErrInvalidCollectionName,
	ErrCollectionKeyRequired,
}

// IsInvalidInput checks if the error is a client-side validation error.
func IsInvalidInput(err error) bool {
	for _, target := range invalidInputErrs {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrorCodeNotAuthenticated)
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return hasCode(err, ErrorCodeNotAuthorized)
}

func hasCode(err error, code int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}

	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		first := errResp.FirstError()
		if first != nil {
			return first.Code == code
		}
	}

	return false
}

// ParseResponseError parses an error response from JSON.
func ParseResponseError(data []byte) (*ResponseError, error) {
	var errResp ResponseError

	err := json.Unmarshal(data, &errResp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal response error: %w", err)
	}

	return &errResp, nil
}
