package apperror

import (
	"errors"
	"fmt"
)

// Code identifies a recoverable failure kind.
type Code int

const (
	CodePatientNotFound Code = iota + 1000
	CodeConsultationNotFound
	CodeInvalidSecurityNumber
	CodeInvalidConsultationStatus
	CodeCorruptRecord
)

// AppError represents an application error
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
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

// Error constructors
func PatientNotFound(securityNumber string) *AppError {
	return &AppError{
		Code:    CodePatientNotFound,
		Message: fmt.Sprintf("patient %s not found", securityNumber),
	}
}

func ConsultationNotFound(id string) *AppError {
	return &AppError{
		Code:    CodeConsultationNotFound,
		Message: fmt.Sprintf("consultation %s not found", id),
	}
}

func InvalidSecurityNumber(securityNumber string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidSecurityNumber,
		Message: fmt.Sprintf("invalid security number %q: must be exactly 15 digits", securityNumber),
		Err:     err,
	}
}

func InvalidConsultationStatus(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidConsultationStatus,
		Message: message,
	}
}

func CorruptRecord(message string, err error) *AppError {
	return &AppError{
		Code:    CodeCorruptRecord,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err or any error it wraps is an AppError
// carrying the given code.
func IsCode(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
