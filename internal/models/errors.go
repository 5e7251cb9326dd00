// Package models contains data structures for the application's domain models.
package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// NewInvalidParentRefError is returned when a referral code does not resolve
// to a forward, or resolves to a forward of a different message. Callers at
// the visit boundary fall back to treating the visit as a root visit.
func NewInvalidParentRefError(code string) *AppError {
	return &AppError{
		Code:    "INVALID_PARENT_REF",
		Message: fmt.Sprintf("Referral code %q is not valid for this message", code),
	}
}

// NewUpstreamUnavailableError wraps a backing-store failure. It is always
// retryable; no legitimate view or forward creation is ever silently dropped.
func NewUpstreamUnavailableError(err error) *AppError {
	return &AppError{
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: "Backing store temporarily unavailable",
		Err:     err,
	}
}

// IsInvalidParentRef reports whether err is an invalid-referral error.
func IsInvalidParentRef(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "INVALID_PARENT_REF"
}

// IsUpstreamUnavailable reports whether err is a retryable store failure.
func IsUpstreamUnavailable(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "UPSTREAM_UNAVAILABLE"
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
