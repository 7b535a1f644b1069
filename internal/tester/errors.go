package tester

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes setup errors. All of them abort a run.
type ErrorCode string

const (
	// ErrCodeNoForm indicates no form was injected and no form class is
	// configured.
	ErrCodeNoForm ErrorCode = "NO_FORM"

	// ErrCodeUnknownAttribute indicates Get was called with an unknown name.
	ErrCodeUnknownAttribute ErrorCode = "UNKNOWN_ATTRIBUTE"

	// ErrCodeUnknownFormClass indicates the configured form class has no
	// registered factory.
	ErrCodeUnknownFormClass ErrorCode = "UNKNOWN_FORM_CLASS"
)

// Error is returned for setup failures.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNoForm returns true if err reports a missing form.
func IsNoForm(err error) bool {
	return hasCode(err, ErrCodeNoForm)
}

// IsUnknownAttribute returns true if err reports an unknown attribute name.
func IsUnknownAttribute(err error) bool {
	return hasCode(err, ErrCodeUnknownAttribute)
}

// IsUnknownFormClass returns true if err reports an unregistered form class.
func IsUnknownFormClass(err error) bool {
	return hasCode(err, ErrCodeUnknownFormClass)
}

func hasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}
