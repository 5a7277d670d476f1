package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Error types for the two failure tiers of the allocator subsystem
type ErrorType string

const (
	ErrorTypeCapacity      ErrorType = "capacity"
	ErrorTypeBounds        ErrorType = "bounds"
	ErrorTypeAlignment     ErrorType = "alignment"
	ErrorTypeDoubleFree    ErrorType = "double_free"
	ErrorTypeShape         ErrorType = "shape"
	ErrorTypeForeign       ErrorType = "foreign_reference"
	ErrorTypeEmpty         ErrorType = "empty"
	ErrorTypeGeometry      ErrorType = "geometry"
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Sentinels matched with errors.Is. Every StructuredError carries one of
// these as its Cause.
var (
	ErrFull             = errors.New("slabkit: block is full")
	ErrOutOfBounds      = errors.New("slabkit: index out of bounds")
	ErrMisaligned       = errors.New("slabkit: reference not chunk aligned")
	ErrDoubleFree       = errors.New("slabkit: chunk already free")
	ErrShapeMismatch    = errors.New("slabkit: buffer shapes differ")
	ErrForeignReference = errors.New("slabkit: reference not owned by pool")
	ErrEmpty            = errors.New("slabkit: buffer is empty")
	ErrInvalidGeometry  = errors.New("slabkit: invalid geometry")
	ErrInvalidConfig    = errors.New("slabkit: invalid configuration")
)

var sentinels = map[ErrorType]error{
	ErrorTypeCapacity:      ErrFull,
	ErrorTypeBounds:        ErrOutOfBounds,
	ErrorTypeAlignment:     ErrMisaligned,
	ErrorTypeDoubleFree:    ErrDoubleFree,
	ErrorTypeShape:         ErrShapeMismatch,
	ErrorTypeForeign:       ErrForeignReference,
	ErrorTypeEmpty:         ErrEmpty,
	ErrorTypeGeometry:      ErrInvalidGeometry,
	ErrorTypeConfiguration: ErrInvalidConfig,
}

// libraryPrefix marks frames that belong to this module's non-test code.
const libraryPrefix = "github.com/23skdu/slabkit/internal/"

// StructuredError provides rich error context
type StructuredError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
	Context   map[string]interface{}
	Stack     []uintptr
}

// Error implements the error interface
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Operation, e.Message)
}

// Unwrap returns the underlying cause
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a structured error whose cause is the sentinel for errType.
func New(errType ErrorType, operation, message string) *StructuredError {
	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     sentinels[errType],
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, operation, format string, args ...interface{}) *StructuredError {
	se := New(errType, operation, fmt.Sprintf(format, args...))
	se.Stack = captureStack()
	return se
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, operation, message string) *StructuredError {
	if err == nil {
		return nil
	}

	return &StructuredError{
		Type:      errType,
		Operation: operation,
		Message:   message,
		Cause:     err,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
	}
}

// WithContext adds context information to an error
func (e *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Location returns file:line of the first captured frame outside the
// library, which is the call site that broke the contract. Falls back to the
// innermost frame.
func (e *StructuredError) Location() string {
	if len(e.Stack) == 0 {
		return "unknown"
	}

	frames := runtime.CallersFrames(e.Stack)
	first := ""
	for {
		frame, more := frames.Next()
		loc := fmt.Sprintf("%s:%d", frame.File, frame.Line)
		if first == "" {
			first = loc
		}
		inLibrary := strings.HasPrefix(frame.Function, libraryPrefix) &&
			!strings.HasSuffix(frame.File, "_test.go")
		if !inLibrary {
			return loc
		}
		if !more {
			break
		}
	}
	return first
}

// IsType reports whether err is a StructuredError of the given type.
func IsType(err error, errType ErrorType) bool {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Type == errType
	}
	return false
}

// Must panics on err and otherwise returns v. It restores fail-fast
// semantics for callers that treat contract violations as fatal.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Is and As re-export the standard library helpers so callers importing this
// package under its own name do not need a second errors import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

// captureStack captures the current stack trace
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:]) // Skip Callers, this function and the constructor
	return pcs[:n]
}
