// Package fnerr is how a built-in function tells the interpreter that it has failed.
//
// Every failure is one of three kinds. An *ArgumentError means the script author
// called the function wrongly. A *BuiltinError means the function was called
// properly but couldn't do its job. An *InternalError means the infrastructure
// underneath it (at present, the knowledge base) let it down.
//
// Only an internal error can be retryable, and only when the storage layer says so.
// Any error can carry a return value, which the call site will use in place of the
// result the function couldn't produce.
package fnerr

import (
	"errors"

	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

// ErrorKind is closed: the only implementations are *ArgumentError, *BuiltinError
// and *InternalError.
type ErrorKind interface {
	error
	fnErrorKind()
}

type FnError struct {
	kind        ErrorKind
	returnValue *values.Value
	retryable   bool
}

func (e *FnError) Error() string {
	return e.kind.Error()
}

func (e *FnError) Unwrap() error {
	return e.kind
}

func (e *FnError) Kind() ErrorKind {
	return e.kind
}

func (e *FnError) Retryable() bool {
	return e.retryable
}

func (e *FnError) ReturnValue() (values.Value, bool) {
	if e.returnValue == nil {
		return values.Value{}, false
	}
	return *e.returnValue, true
}

// WithReturnValue gives back a copy of the error carrying v. The receiver is left
// alone, so an FnError can be shared once it's been made.
func (e *FnError) WithReturnValue(v values.Value) *FnError {
	augmented := *e
	augmented.returnValue = &v
	return &augmented
}

func (e *FnError) ErrorId() string {
	switch kind := e.kind.(type) {
	case *ArgumentError:
		return kind.ErrorId
	case *BuiltinError:
		return kind.ErrorId
	case *InternalError:
		return "internal/storage"
	}
	return ""
}

func (e *FnError) Explain() string {
	return Explain(e.ErrorId(), e.args()...)
}

func (e *FnError) args() []any {
	switch kind := e.kind.(type) {
	case *ArgumentError:
		return kind.Args
	case *BuiltinError:
		return kind.Args
	case *InternalError:
		return []any{kind.Err}
	}
	return nil
}

func FromArgument(kind *ArgumentError) *FnError {
	return &FnError{kind: kind}
}

func FromBuiltin(kind *BuiltinError) *FnError {
	return &FnError{kind: kind}
}

func FromInternal(kind *InternalError) *FnError {
	return &FnError{kind: kind, retryable: kind.Retryable()}
}

func FromStorage(err *storage.Error) *FnError {
	return FromInternal(&InternalError{Err: err})
}

// From makes an FnError out of whatever a built-in returned. Functions are meant to
// return *FnErrors; anything else is treated as a builtin error wrapping it.
func From(err error) *FnError {
	if err == nil {
		return nil
	}
	var fnErr *FnError
	if errors.As(err, &fnErr) {
		return fnErr
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return FromArgument(argErr)
	}
	var builtErr *BuiltinError
	if errors.As(err, &builtErr) {
		return FromBuiltin(builtErr)
	}
	var internalErr *InternalError
	if errors.As(err, &internalErr) {
		return FromInternal(internalErr)
	}
	var storageErr *storage.Error
	if errors.As(err, &storageErr) {
		return FromStorage(storageErr)
	}
	return FromBuiltin(General(err))
}

// Helpers carried over from the way built-ins have always reported their arguments.

// WrongArgument is for a named argument: "Expected key to be a Number Value but it is String("x")".
func WrongArgument(key, expected, got string) *FnError {
	return FromArgument(WrongArgumentKind(key, expected, got))
}

// WrongUnnamedArgument is for a positional argument, where we have no name to give.
func WrongUnnamedArgument(expected, got string) *FnError {
	return FromArgument(Wrong("Expected " + expected + " but " + got))
}

func MissingArgument(name string) *FnError {
	return FromArgument(MissingNamed(name))
}
