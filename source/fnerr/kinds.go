package fnerr

import (
	"errors"

	"github.com/tim-hardcastle/scanscript/source/storage"
)

// ArgumentError: the call itself was malformed. Never retryable.
type ArgumentError struct {
	ErrorId string
	Args    []any
}

func (e *ArgumentError) Error() string {
	return Message(e.ErrorId, e.Args...)
}

func (*ArgumentError) fnErrorKind() {}

func MissingPositionals(expected, got int) *ArgumentError {
	return &ArgumentError{ErrorId: "arg/positional/missing", Args: []any{expected, got}}
}

func TrailingPositionals(expected, got int) *ArgumentError {
	return &ArgumentError{ErrorId: "arg/positional/trailing", Args: []any{expected, got}}
}

func MissingNamed(names ...string) *ArgumentError {
	return &ArgumentError{ErrorId: "arg/named/missing", Args: []any{names}}
}

func UnexpectedArgument(name string) *ArgumentError {
	return &ArgumentError{ErrorId: "arg/named/unexpected", Args: []any{name}}
}

func Wrong(message string) *ArgumentError {
	return &ArgumentError{ErrorId: "arg/wrong", Args: []any{message}}
}

func WrongArgumentKind(key, expected, got string) *ArgumentError {
	return Wrong("Expected " + key + " to be " + expected + " but it is " + got)
}

// MissingNames is nil unless this is a missing-named-arguments error.
func (e *ArgumentError) MissingNames() []string {
	if e.ErrorId != "arg/named/missing" {
		return nil
	}
	return e.Args[0].([]string)
}

// BuiltinError: the function was called properly but failed at its own job. The
// ErrorId says which module it came from, as in "crypto/len" or "ssh/auth".
type BuiltinError struct {
	ErrorId string
	Args    []any
	Err     error
}

func (e *BuiltinError) Error() string {
	return Message(e.ErrorId, e.Args...)
}

func (e *BuiltinError) Unwrap() error {
	return e.Err
}

func (*BuiltinError) fnErrorKind() {}

func (e *BuiltinError) Module() string {
	for i, ch := range e.ErrorId {
		if ch == '/' {
			return e.ErrorId[:i]
		}
	}
	return e.ErrorId
}

func Builtin(errorId string, args ...any) *BuiltinError {
	return &BuiltinError{ErrorId: errorId, Args: args}
}

// BuiltinWrapping is Builtin with a cause that errors.Is and errors.As can see.
func BuiltinWrapping(err error, errorId string, args ...any) *BuiltinError {
	return &BuiltinError{ErrorId: errorId, Args: args, Err: err}
}

func General(err error) *BuiltinError {
	return BuiltinWrapping(err, "built/general", err)
}

// OutOfRange is what you get for a number the host can't represent in the type the
// function needs. It isn't an argument error: the argument was fine, the platform
// isn't.
func OutOfRange(min, max any, got int64) *BuiltinError {
	return Builtin("built/range", min, max, got)
}

// IO marks a failure to talk to the outside world. The interpreter reports these as
// I/O errors rather than as errors in the function that happened to hit them.
func IO(err error) *FnError {
	return FromBuiltin(BuiltinWrapping(err, "built/io", err))
}

// IOCause finds the underlying I/O failure if err is, or wraps, one made by IO.
func IOCause(err error) (error, bool) {
	var builtErr *BuiltinError
	for e := err; errors.As(e, &builtErr); e = builtErr.Err {
		if builtErr.ErrorId == "built/io" {
			return builtErr.Err, true
		}
		if builtErr.Err == nil {
			break
		}
	}
	return nil, false
}

// InternalError: something underneath the function failed. Whether to retry is up
// to the storage layer and nobody else.
type InternalError struct {
	Err *storage.Error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "internal error with no cause given"
	}
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	if e.Err == nil {
		return nil
	}
	return e.Err
}

func (*InternalError) fnErrorKind() {}

func (e *InternalError) Retryable() bool {
	if e.Err == nil {
		return false
	}
	// No default: a new storage kind must be decided on here.
	switch e.Err.Kind {
	case storage.RETRY:
		return true
	case storage.NOT_FOUND, storage.UNEXPECTED_DATA, storage.UNSUPPORTED, storage.BACKEND:
		return false
	}
	return false
}
