package report_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/ast"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/parser"
	"github.com/tim-hardcastle/scanscript/source/report"
	"github.com/tim-hardcastle/scanscript/source/token"
)

func statement(t *testing.T, input string) ast.Node {
	t.Helper()
	statements, err := parser.Parse("test", input)
	require.NoError(t, err)
	require.Len(t, statements, 1)
	return statements[0]
}

// A node that doesn't know where it is.
type nowhere struct{}

func (nowhere) Children() []ast.Node   { return nil }
func (nowhere) GetToken() *token.Token { return nil }
func (nowhere) String() string         { return "nowhere" }

func TestLocationPrefix(t *testing.T) {
	e := report.New(report.NOT_FOUND, "x")
	assert.Equal(t, "Key not found: x", e.Error())
	_, _, ok := e.LineColumn()
	assert.False(t, ok)

	e.WithOrigin(statement(t, "\n  f(x)"))
	assert.Equal(t, "2:3: Key not found: x", e.Error())

	e.WithOrigin(statement(t, "g(y)"))
	line, col, ok := e.LineColumn()
	require.True(t, ok)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}

func TestOriginWithoutToken(t *testing.T) {
	e := report.New(report.WRONG_TYPE, "int").WithOrigin(nowhere{})
	assert.Equal(t, "Expected the type int", e.Error())
}

func TestKindMessages(t *testing.T) {
	tests := []struct {
		err  *report.InterpretError
		want string
	}{
		{report.New(report.FUNCTION_EXPECTED_VALUE, ""), "Expected a value but got a function."},
		{report.New(report.VALUE_EXPECTED_FUNCTION, ""), "Expected a function but got a value."},
		{report.New(report.WRONG_CATEGORY, "string"), "Expected the category string"},
		{report.New(report.INVALID_REGEX, "a(b"), "Invalid regular expression: a(b"},
		{report.Wrap(report.LOAD_ERROR, errors.New("no such file")), "no such file"},
		{report.Wrap(report.STORAGE_ERROR, errors.New("disk full")), "disk full"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, test.err.Error())
	}
}

func TestIncludeSyntaxError(t *testing.T) {
	_, err := parser.Parse("lib.inc", "a = 1\nb = )")
	require.Error(t, err)
	e := report.Include("lib.inc", err).WithOrigin(statement(t, `include "lib.inc"`))
	assert.Equal(t, "1:1: Error while including file lib.inc, line: 2, col: 5: unexpected ')'", e.Error())
	var syntaxErr *parser.SyntaxError
	assert.ErrorAs(t, e, &syntaxErr)
}

func TestFunctionCallError(t *testing.T) {
	fe := &report.FunctionError{Function: "hex2raw", Err: fnerr.FromBuiltin(fnerr.Builtin("built/hex", "zz"))}
	want := "Error while calling function 'hex2raw': can't read 'zz' as hexadecimal"
	assert.Equal(t, want, fe.Error())

	e := report.FromFunctionError(fe)
	assert.Equal(t, report.FUNCTION_CALL_ERROR, e.Kind)
	assert.Equal(t, want, e.Error())
	var fnErr *fnerr.FnError
	require.ErrorAs(t, e, &fnErr)
	assert.Equal(t, "built/hex", fnErr.ErrorId())
	assert.Equal(t, fnErr.Explain(), e.Explain())
}

func TestIOCollapses(t *testing.T) {
	cause := errors.New("connection refused")
	e := report.FromFunctionError(&report.FunctionError{Function: "ssh_connect", Err: fnerr.IO(cause)})
	assert.Equal(t, report.IO_ERROR, e.Kind)
	assert.Equal(t, "connection refused", e.Error())
	assert.ErrorIs(t, e, cause)
	assert.NotContains(t, e.Error(), "ssh_connect")
}
