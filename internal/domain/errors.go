package domain

import "errors"

// Domain errors carry a stable machine-readable code next to the human
// message. The HTTP layer maps the error kind to a status code; nothing in
// this package knows about transports.

type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(message, code string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

type BusinessRuleError struct {
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string { return e.Message }

func NewBusinessRuleError(message, code string) *BusinessRuleError {
	return &BusinessRuleError{Code: code, Message: message}
}

type NotFoundError struct {
	Code    string
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewNotFoundError(message, code string) *NotFoundError {
	return &NotFoundError{Code: code, Message: message}
}

type UnauthorizedError struct {
	Code    string
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func NewUnauthorizedError(message, code string) *UnauthorizedError {
	return &UnauthorizedError{Code: code, Message: message}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsBusinessRule(err error) bool {
	var e *BusinessRuleError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsUnauthorized(err error) bool {
	var e *UnauthorizedError
	return errors.As(err, &e)
}

// ErrorCode returns the machine-readable code of a domain error, or "" for
// anything else.
func ErrorCode(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code
	}
	var be *BusinessRuleError
	if errors.As(err, &be) {
		return be.Code
	}
	var ne *NotFoundError
	if errors.As(err, &ne) {
		return ne.Code
	}
	var ue *UnauthorizedError
	if errors.As(err, &ue) {
		return ue.Code
	}
	return ""
}
