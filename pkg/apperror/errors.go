package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// StockError is returned when a debit asks for more units than a product holds.
// Nothing is written when it is returned.
type StockError struct {
	ProductCode string
	ProductName string
	Requested   int
	Available   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("cannot remove %d units of product %q (%s): only %d available",
		e.Requested, e.ProductName, e.ProductCode, e.Available)
}

// AppError converts the stock error into its HTTP representation.
func (e *StockError) AppError() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: "Insufficient stock: " + e.Error(),
		Errors: []FieldError{
			{Field: "quantity", Message: fmt.Sprintf("requested %d, available %d", e.Requested, e.Available)},
		},
	}
}

// NewStockError creates an insufficient stock error
func NewStockError(code, name string, requested, available int) *StockError {
	return &StockError{
		ProductCode: code,
		ProductName: name,
		Requested:   requested,
		Available:   available,
	}
}

// TransitionError is returned when an invoice status change is not allowed.
type TransitionError struct {
	InvoiceNumber uint
	From          string
	To            string
	Reason        string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invoice %d cannot move from %s to %s: %s", e.InvoiceNumber, e.From, e.To, e.Reason)
}

// AppError converts the transition error into its HTTP representation.
func (e *TransitionError) AppError() *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: e.Error(),
	}
}

// NewTransitionError creates an invalid state transition error
func NewTransitionError(number uint, from, to, reason string) *TransitionError {
	return &TransitionError{
		InvoiceNumber: number,
		From:          from,
		To:            to,
		Reason:        reason,
	}
}

type converter interface {
	AppError() *AppError
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return true
	}
	var conv converter
	return errors.As(err, &conv)
}

// IsStockError reports whether err is an insufficient stock error
func IsStockError(err error) bool {
	var stockErr *StockError
	return errors.As(err, &stockErr)
}

// IsTransitionError reports whether err is an invalid transition error
func IsTransitionError(err error) bool {
	var transitionErr *TransitionError
	return errors.As(err, &transitionErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var conv converter
	if errors.As(err, &conv) {
		return conv.AppError()
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
