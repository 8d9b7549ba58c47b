package pdf

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes document processing failures
type ErrorKind int

const (
	// ErrorKindOpen means the input bytes are not a readable PDF document
	ErrorKindOpen ErrorKind = iota
	// ErrorKindEmptyText means the document opened but yielded no text at all
	ErrorKindEmptyText
	// ErrorKindTooLarge means the input exceeds the configured size cap
	ErrorKindTooLarge
	// ErrorKindValidation means structural validation of the document failed
	ErrorKindValidation
)

// String returns a string representation of the ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindOpen:
		return "DOCUMENT_OPEN"
	case ErrorKindEmptyText:
		return "EMPTY_TEXT"
	case ErrorKindTooLarge:
		return "TOO_LARGE"
	case ErrorKindValidation:
		return "VALIDATION"
	default:
		return "UNKNOWN"
	}
}

// Error is a document processing failure carrying its kind and cause
type Error struct {
	Kind ErrorKind
	Op   string
	Name string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind.String(), e.Op)
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// NewOpenError wraps a failure to open or parse document bytes
func NewOpenError(op, name string, err error) *Error {
	return &Error{Kind: ErrorKindOpen, Op: op, Name: name, Err: err}
}

// NewEmptyTextError reports a document that opened but contained no text
func NewEmptyTextError(name string) *Error {
	return &Error{
		Kind: ErrorKindEmptyText,
		Op:   "extract",
		Name: name,
		Err:  errors.New("no text content could be extracted from PDF"),
	}
}

// NewTooLargeError reports an input exceeding the configured size cap
func NewTooLargeError(name string, size, maxSize int64) *Error {
	return &Error{
		Kind: ErrorKindTooLarge,
		Op:   "read",
		Name: name,
		Err:  fmt.Errorf("file too large: %d bytes (max: %d bytes)", size, maxSize),
	}
}

// IsOpenError reports whether err is a document-open failure
func IsOpenError(err error) bool {
	return hasKind(err, ErrorKindOpen)
}

// IsEmptyTextError reports whether err signals a document with no extractable text
func IsEmptyTextError(err error) bool {
	return hasKind(err, ErrorKindEmptyText)
}

// IsTooLargeError reports whether err signals an oversized input
func IsTooLargeError(err error) bool {
	return hasKind(err, ErrorKindTooLarge)
}

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
