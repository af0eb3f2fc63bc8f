package model

import "errors"

var (
	// ErrUserNotFound is returned when the candidate's user row does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// ErrorCode represents error codes
type ErrorCode string

const (
	CodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// GetErrorCode maps errors to error codes
func GetErrorCode(err error) ErrorCode {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	default:
		return CodeInternalError
	}
}

// GetErrorMessage returns a user-friendly error message
func GetErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "User not found"
	default:
		return "Internal server error"
	}
}
