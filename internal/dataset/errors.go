package dataset

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes load failures.
type ErrorCode string

const (
	// ErrCodeFileNotFound indicates the document path does not exist.
	ErrCodeFileNotFound ErrorCode = "FILE_NOT_FOUND"

	// ErrCodeUnsupportedFormat indicates no parser handles the file extension.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"

	// ErrCodeParseFailed indicates the parser rejected the document.
	ErrCodeParseFailed ErrorCode = "PARSE_FAILED"

	// ErrCodeMalformed indicates a structurally invalid document, such as a
	// dataset that is not a mapping.
	ErrCodeMalformed ErrorCode = "MALFORMED_DATASET"
)

// LoadError is returned when a dataset document cannot be loaded.
type LoadError struct {
	Code    ErrorCode
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsFileNotFound returns true if err reports a missing document file.
func IsFileNotFound(err error) bool {
	return hasCode(err, ErrCodeFileNotFound)
}

// IsMalformed returns true if err reports a structurally invalid document.
func IsMalformed(err error) bool {
	return hasCode(err, ErrCodeMalformed)
}

func hasCode(err error, code ErrorCode) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

func malformed(format string, args ...any) *LoadError {
	return &LoadError{Code: ErrCodeMalformed, Message: fmt.Sprintf(format, args...)}
}
