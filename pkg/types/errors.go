package types

import (
	"fmt"

	"github.com/spacemonkeygo/errors"
)

// Error is the root class of every error raised by palisade.
// Use the subclasses below; test membership with [Is].
var Error = errors.NewClass("PalisadeError")

// Error classes raised while resolving and evaluating expressions.
var (
	// UnknownNicknameError is raised when a nickname or path was never registered.
	UnknownNicknameError = Error.NewClass("UnknownNicknameError")
	// DuplicateNicknameError is raised when a nickname is rebound to a different file.
	DuplicateNicknameError = Error.NewClass("DuplicateNicknameError")
	// NotFoundError is raised when an object path does not exist in its file.
	NotFoundError = Error.NewClass("NotFoundError")
	// ShapeMismatchError is raised when combined objects disagree in bin count or binning.
	ShapeMismatchError = Error.NewClass("ShapeMismatchError")
	// UnknownFunctionError is raised when an expression calls an unregistered function.
	UnknownFunctionError = Error.NewClass("UnknownFunctionError")
	// UnsupportedTypeError is raised when a value has the wrong kind for an operation.
	UnsupportedTypeError = Error.NewClass("UnsupportedTypeError")
	// DuplicateNameError is raised when registering a function name that already exists.
	DuplicateNameError = Error.NewClass("DuplicateNameError")
	// AlreadyRegisteredError is raised when a local name is registered twice.
	AlreadyRegisteredError = Error.NewClass("AlreadyRegisteredError")
	// InvalidRequestError is raised for malformed object specs and request specs.
	InvalidRequestError = Error.NewClass("InvalidRequestError")
	// StorageError is raised when a file cannot be opened or decoded.
	StorageError = Error.NewClass("StorageError")
	// ArgumentError is raised for bad function arguments.
	ArgumentError = Error.NewClass("ArgumentError")
	// EvalError covers runtime failures such as division by zero or bad indices.
	EvalError = Error.NewClass("EvalError")
	// ConfigError is raised for malformed configuration documents.
	ConfigError = Error.NewClass("ConfigError")
)

// ErrorCode identifies a syntax error condition.
type ErrorCode string

// Syntax error codes.
const (
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrNumberOutOfRange  ErrorCode = "S0102"
	ErrUnsupportedEscape ErrorCode = "S0103"
	ErrUnexpectedEnd     ErrorCode = "S0104"
	ErrUnexpectedChar    ErrorCode = "S0105"
	ErrSyntaxError       ErrorCode = "S0201"
	ErrExpectedToken     ErrorCode = "S0202"
	ErrNotCallable       ErrorCode = "S0203"
	ErrTooDeep           ErrorCode = "S0204"
	ErrEmptyExpression   ErrorCode = "S0205"
)

// SyntaxError reports an expression that could not be parsed.
type SyntaxError struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewSyntaxError creates a new syntax error at the given byte offset.
func NewSyntaxError(code ErrorCode, message string, position int) *SyntaxError {
	return &SyntaxError{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *SyntaxError) WithToken(token string) *SyntaxError {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *SyntaxError) WithCause(err error) *SyntaxError {
	e.Err = err
	return e
}

// IsSyntaxError reports whether err is, or wraps, a *SyntaxError.
func IsSyntaxError(err error) bool {
	for err != nil {
		if _, ok := err.(*SyntaxError); ok {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Is reports whether err belongs to class or one of its subclasses.
func Is(err error, class *errors.ErrorClass) bool {
	if err == nil {
		return false
	}
	return errors.GetClass(err).Is(class)
}
