package apierror

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrSourceRead ErrorCode = "SOURCE_READ_ERROR"
	ErrAuth       ErrorCode = "AUTH_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrTransient  ErrorCode = "TRANSIENT_ERROR"
	ErrWrite      ErrorCode = "WRITE_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Is reports whether err is an APIError carrying the given code.
func Is(err error, code ErrorCode) bool {
	apiErr, ok := err.(APIError)
	return ok && apiErr.Code == code
}

// IsFatal reports whether err must abort the whole pipeline run. Transient
// lookup failures and not-found responses are absorbed by the caller.
func IsFatal(err error) bool {
	apiErr, ok := err.(APIError)
	if !ok {
		return true
	}
	switch apiErr.Code {
	case ErrNotFound, ErrTransient:
		return false
	default:
		return true
	}
}
