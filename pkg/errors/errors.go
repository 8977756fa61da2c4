package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"

	// Credential verification failure classes. All map to 401 but stay
	// distinguishable so callers can decide whether recovery makes sense.
	ErrorTypeMissingCredential   ErrorType = "missing_credential"
	ErrorTypeMalformedCredential ErrorType = "malformed_credential"
	ErrorTypeExpiredCredential   ErrorType = "expired_credential"
	ErrorTypeUnknownUser         ErrorType = "unknown_user"
	ErrorTypeMethodsExhausted    ErrorType = "methods_exhausted"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewMissingCredentialError reports that no recognizable credential was presented
func NewMissingCredentialError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeMissingCredential,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewMalformedCredentialError reports a credential with the wrong shape or pattern
func NewMalformedCredentialError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeMalformedCredential,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewExpiredCredentialError reports a well-formed credential past its age window
func NewExpiredCredentialError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeExpiredCredential,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewUnknownUserError reports a credential whose user the identity provider does not know
func NewUnknownUserError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnknownUser,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewMethodsExhaustedError reports that every verification strategy was tried and failed
func NewMethodsExhaustedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeMethodsExhausted,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeExternal,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Internal:   internal,
	}
}

// IsCredentialFailure reports whether err is one of the credential
// verification failure classes. Network and server failures are not
// credential failures and must never trigger token recovery.
func IsCredentialFailure(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Type {
	case ErrorTypeMissingCredential,
		ErrorTypeMalformedCredential,
		ErrorTypeExpiredCredential,
		ErrorTypeUnknownUser,
		ErrorTypeMethodsExhausted:
		return true
	}
	return false
}
