package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypePersistence  ErrorType = "PERSISTENCE_ERROR"
	ErrorTypeExternal     ErrorType = "EXTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidRate      ErrorCode = "INVALID_RATE"

	ErrCodeCompanyNotFound  ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeEmployeeNotFound ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodePaymentNotFound  ErrorCode = "PAYMENT_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeSettingNotFound  ErrorCode = "SETTING_NOT_FOUND"
	ErrCodeCompanyAccess    ErrorCode = "COMPANY_ACCESS_DENIED"

	ErrCodeEmailTaken          ErrorCode = "EMAIL_TAKEN"
	ErrCodeCompanyExists       ErrorCode = "COMPANY_EXISTS"
	ErrCodeReferenceAllocation ErrorCode = "REFERENCE_ALLOCATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeIncorrectPassword  ErrorCode = "INCORRECT_PASSWORD"

	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodePersistence      ErrorCode = "PERSISTENCE_FAILURE"
	ErrCodeRateUnavailable  ErrorCode = "RATE_UNAVAILABLE"
	ErrCodeCurrencyProvider ErrorCode = "CURRENCY_PROVIDER_FAILURE"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMITED"
	ErrCodeBodyTooLarge     ErrorCode = "BODY_TOO_LARGE"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if msgs := e.fieldMessages(); len(msgs) > 0 {
		return msgs[0]
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage is the client facing text: every field message, or the plain message.
func (e *AppError) GetDetailedMessage() string {
	if msgs := e.fieldMessages(); len(msgs) > 0 {
		return strings.Join(msgs, "; ")
	}
	return e.Message
}

func (e *AppError) fieldMessages() []string {
	ve, ok := e.Details.(ValidationErrors)
	if !ok {
		return nil
	}
	msgs := make([]string, 0, len(ve.Errors))
	for _, fe := range ve.Errors {
		msgs = append(msgs, fe.Message)
	}
	return msgs
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy of e carrying cause, so shared sentinel errors stay untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// ValidationError is one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

var statusByType = map[ErrorType]int{
	ErrorTypeValidation:   http.StatusBadRequest,
	ErrorTypeNotFound:     http.StatusNotFound,
	ErrorTypeUnauthorized: http.StatusUnauthorized,
	ErrorTypeForbidden:    http.StatusForbidden,
	ErrorTypeConflict:     http.StatusConflict,
	ErrorTypeInternal:     http.StatusInternalServerError,
	ErrorTypePersistence:  http.StatusInternalServerError,
	ErrorTypeExternal:     http.StatusBadGateway,
}

func newAppError(t ErrorType, code ErrorCode, message string, cause error) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: statusByType[t], Cause: cause}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, code, message, nil)
}

// NewValidationFieldError rejects a single named field.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, code, message, nil)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, code, message, nil)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, code, message, nil)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, code, message, nil)
}

func NewInternalError(message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, ErrCodeInternal, message, cause)
}

// NewPersistenceError wraps a store failure (connectivity, timeout, bad statement).
func NewPersistenceError(message string, cause error) *AppError {
	return newAppError(ErrorTypePersistence, ErrCodePersistence, message, cause)
}

// NewExternalError reports a failing upstream such as the currency provider.
func NewExternalError(message string, code ErrorCode, cause error) *AppError {
	return newAppError(ErrorTypeExternal, code, message, cause)
}

var (
	ErrCompanyNotFound  = NewNotFoundError("Company not found", ErrCodeCompanyNotFound)
	ErrEmployeeNotFound = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)
	ErrPaymentNotFound  = NewNotFoundError("Payment not found", ErrCodePaymentNotFound)
	ErrUserNotFound     = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrSettingNotFound  = NewNotFoundError("Setting not found", ErrCodeSettingNotFound)

	ErrCompanyAccessDenied = NewForbiddenError("Access denied to this company", ErrCodeCompanyAccess)

	ErrEmailTaken          = NewConflictError("Email already registered", ErrCodeEmailTaken)
	ErrCompanyExists       = NewConflictError("User already has a company", ErrCodeCompanyExists)
	ErrReferenceAllocation = NewConflictError("Could not generate unique payment reference, please retry", ErrCodeReferenceAllocation)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
	ErrIncorrectPassword  = NewValidationError("Current password is incorrect", ErrCodeIncorrectPassword)
)

// IsAppError reports whether err is, or wraps, an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the JSON body written for failed requests.
type Response struct {
	Error   string      `json:"error"`
	Type    ErrorType   `json:"type"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return status, Response{
		Error:   e.GetDetailedMessage(),
		Type:    e.Type,
		Code:    e.Code,
		Details: e.Details,
	}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
