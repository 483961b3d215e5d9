// Package report is where an error gets a place in a script. Whatever went wrong
// underneath, by the time the user sees it it's an *InterpretError, which knows the
// statement it happened in.
package report

import (
	"errors"
	"fmt"

	"github.com/tim-hardcastle/scanscript/source/ast"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
)

type ErrorKind int

const (
	FUNCTION_EXPECTED_VALUE ErrorKind = iota // A function was given where a value was wanted.
	VALUE_EXPECTED_FUNCTION                  // And vice versa.
	WRONG_TYPE
	WRONG_CATEGORY
	INVALID_REGEX
	INCLUDE_SYNTAX_ERROR
	SYNTAX_ERROR
	NOT_FOUND
	STORAGE_ERROR
	LOAD_ERROR
	FORMAT_ERROR
	IO_ERROR
	FUNCTION_CALL_ERROR
)

type InterpretError struct {
	Kind     ErrorKind
	Detail   string // The type, category, pattern or key, for kinds that have one.
	Filename string // For INCLUDE_SYNTAX_ERROR.
	Err      error
	Origin   ast.Node
}

func New(kind ErrorKind, detail string) *InterpretError {
	return &InterpretError{Kind: kind, Detail: detail}
}

func Wrap(kind ErrorKind, err error) *InterpretError {
	return &InterpretError{Kind: kind, Err: err}
}

// Include wraps an error found in an included file, which will usually be a
// *parser.SyntaxError.
func Include(filename string, err error) *InterpretError {
	return &InterpretError{Kind: INCLUDE_SYNTAX_ERROR, Filename: filename, Err: err}
}

// WithOrigin attaches the statement the error happened in, unless it already has one:
// the first statement to claim an error is the one that's reported.
func (e *InterpretError) WithOrigin(stmt ast.Node) *InterpretError {
	if e.Origin == nil && stmt != nil {
		e.Origin = stmt
	}
	return e
}

// LineColumn is the one-based position of the start of the originating statement.
// The last return value is false if it isn't known.
func (e *InterpretError) LineColumn() (int, int, bool) {
	if e.Origin == nil {
		return 0, 0, false
	}
	tok := e.Origin.GetToken()
	if tok == nil {
		return 0, 0, false
	}
	return tok.Line, tok.Column(), true
}

func (e *InterpretError) Error() string {
	message := ErrorCreatorMap[e.Kind].Message(e)
	if line, col, ok := e.LineColumn(); ok {
		return fmt.Sprintf("%d:%d: %s", line, col, message)
	}
	return message
}

func (e *InterpretError) Unwrap() error {
	return e.Err
}

// Explain says more about the error than Error does. For a failed function this
// is the function's own explanation.
func (e *InterpretError) Explain() string {
	var fnErr *fnerr.FnError
	if errors.As(e.Err, &fnErr) {
		return fnErr.Explain()
	}
	return ErrorCreatorMap[e.Kind].Explanation(e)
}

// FunctionError is a function failing, with the name it was called by.
type FunctionError struct {
	Function string
	Err      error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("Error while calling function '%s': %v", e.Function, e.Err)
}

func (e *FunctionError) Unwrap() error {
	return e.Err
}

// FromFunctionError makes an InterpretError from a failed call. If the function failed
// because of I/O, that's what's reported, and the function's name is dropped.
func FromFunctionError(fe *FunctionError) *InterpretError {
	if cause, ok := fnerr.IOCause(fe.Err); ok {
		return Wrap(IO_ERROR, cause)
	}
	return Wrap(FUNCTION_CALL_ERROR, fe)
}
