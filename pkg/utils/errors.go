package utils

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInternalServer = errors.New("internal server error")
	ErrCacheMiss      = errors.New("cache miss")
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeData         = "DATA_ERROR"
)

// DataError reports a required column missing from an input table. It is
// fatal for a pipeline run; there is no recovery path.
type DataError struct {
	Table  string
	Column string
}

func NewDataError(table, column string) *DataError {
	return &DataError{Table: table, Column: column}
}

func (e *DataError) Error() string {
	return fmt.Sprintf("required column %q missing from table %q", e.Column, e.Table)
}

// ValidationError reports invalid caller input, such as an encounter
// number out of range. It is returned to the caller, never fatal.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}
