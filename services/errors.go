package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind int

const (
	// KindValidation covers missing or malformed input detected before any store call.
	KindValidation ErrorKind = iota + 1
	// KindStorage covers any failure reported by the store.
	KindStorage
	// KindConfiguration covers a form that is not linked to a valid admin.
	KindConfiguration
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStorage:
		return "storage"
	case KindConfiguration:
		return "configuration"
	}
	return "unknown"
}

var (
	ErrLaptopRequestNotFound = errors.New("laptop request not found")
	ErrAlreadyReturned       = errors.New("laptop request already returned")
	ErrDuplicateRequestID    = errors.New("laptop request id already exists")
	ErrFormStructureNotFound = errors.New("form structure not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)

// ServiceError is the error type returned by every service method.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	// Fields lists offending field ids for validation failures.
	Fields []string
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func validationError(message string, fields ...string) error {
	return &ServiceError{Kind: KindValidation, Message: message, Fields: fields}
}

func storageError(message string, err error) error {
	return &ServiceError{Kind: KindStorage, Message: message, Err: err}
}

func configurationError(message string) error {
	return &ServiceError{Kind: KindConfiguration, Message: message}
}

// KindOf returns the kind of err, treating foreign errors as storage failures.
func KindOf(err error) ErrorKind {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindStorage
}

// Result is the success/message pair reported to users.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ResultFromError converts the outcome of a service call into a Result.
func ResultFromError(err error, successMessage string) Result {
	if err == nil {
		return Result{Success: true, Message: successMessage}
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.Kind == KindStorage && svcErr.Err != nil && !isWorkflowError(svcErr.Err) {
			return Result{Success: false, Message: svcErr.Error()}
		}
		return Result{Success: false, Message: svcErr.Message}
	}
	return Result{Success: false, Message: err.Error()}
}

// isWorkflowError reports sentinels whose service message already says everything.
func isWorkflowError(err error) bool {
	return errors.Is(err, ErrLaptopRequestNotFound) || errors.Is(err, ErrAlreadyReturned)
}
