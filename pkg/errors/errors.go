package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrStudentNotFound     = errors.New("student not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrSweepInProgress     = errors.New("sweep already in progress")
	ErrSweepFetchFailed    = errors.New("failed to fetch sweep candidates")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeStudentNotFound     = "STUDENT_NOT_FOUND"
	ErrCodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidTransaction  = "INVALID_TRANSACTION"
	ErrCodeSweepInProgress     = "SWEEP_IN_PROGRESS"
	ErrCodeSweepFetchFailed    = "SWEEP_FETCH_FAILED"
	ErrCodeStoreFailure        = "STORE_FAILURE"
)

// Wrap common errors with business context
func WrapStudentNotFound(studentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeStudentNotFound,
		fmt.Sprintf("Student with ID %s not found", studentID),
		ErrStudentNotFound,
	)
}

func WrapTransactionNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeTransactionNotFound,
		fmt.Sprintf("Transaction with ID %s not found", id),
		ErrTransactionNotFound,
	)
}

func WrapInvalidTransaction(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransaction,
		reason,
		ErrInvalidTransaction,
	)
}

func WrapSweepInProgress() *BusinessError {
	return NewBusinessError(
		ErrCodeSweepInProgress,
		"a sweep is already running, trigger dropped",
		ErrSweepInProgress,
	)
}

func WrapSweepFetchFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSweepFetchFailed,
		"could not fetch the outstanding transaction set",
		err,
	)
}

func WrapStoreFailure(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeStoreFailure,
		"store operation failed",
		err,
	)
}
