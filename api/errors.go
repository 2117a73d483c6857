package api

import (
	"errors"
	"fmt"
)

// Error application error returned by backend calls
type Error struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implement error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("status: %d, message: %s, error: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("status: %d, message: %s", e.Status, e.Message)
}

// Unwrap implement errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError create new application error
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Predefined errors
var (
	// ErrSuperseded reports that an in-flight request was replaced by a newer
	// request of the same class and its response must be discarded.
	ErrSuperseded = errors.New("request superseded by a newer request")

	// ErrNoCredential reports that no usable credential is stored.
	ErrNoCredential = errors.New("no authentication credential present")
)

// IsAPIError check if err is an application error
func IsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
