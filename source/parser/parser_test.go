package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/ast"
	"github.com/tim-hardcastle/scanscript/source/parser"
	"github.com/tim-hardcastle/scanscript/source/test_helper"
)

func parse(s string) (string, error) {
	statements, err := parser.Parse("test", s)
	if err != nil {
		return "", err
	}
	result := []string{}
	for _, stmt := range statements {
		result = append(result, stmt.String())
	}
	return strings.Join(result, " ; "), nil
}

func TestParser(t *testing.T) {
	tests := []test_helper.TestItem{
		{`x = 5`, `(x = 5)`},
		{`x = -5`, `(x = -5)`},
		{`x`, `x`},
		{`get_kb_item("a")`, `get_kb_item("a")`},
		{`f()`, `f()`},
		{`f(x, 2)`, `f(x, 2)`},
		{`aes128_cbc_encrypt(0x0102, key: 0xAB, iv: k)`, `aes128_cbc_encrypt(0x0102, key: 0xab, iv: k)`},
		{"f(data: `raw\\n`)", `f(data: "raw\\n")`},
		{`f(cb: @g)`, `f(cb: @g)`},
		{`@g`, `@g`},
		{`x = [1, "a", true, NULL]`, `(x = [1, "a", true, NULL])`},
		{`x = []`, `(x = [])`},
		{`f(g(1), h: g(k: 2))`, `f(g(1), h: g(k: 2))`},
		{`include "lib.inc"`, `include "lib.inc"`},
		{"a = 1\n\nf(a) # comment\n", `(a = 1) ; f(a)`},
		{"a = 1; b = false;", `(a = 1) ; (b = false)`},
		{"", ``},
	}
	test_helper.RunTest(t, tests, parse)
}

func TestSyntaxErrors(t *testing.T) {
	tests := []test_helper.TestItem{
		{`f(a: 1, 2)`, `1:9: positional argument after named arguments`},
		{`f(a: 1, a: 2)`, `1:9: named argument a given twice`},
		{`include x`, `1:9: expected string literal, got identifier "x"`},
		{`x y`, `1:3: expected end of statement, got identifier "y"`},
		{`x = )`, `1:5: unexpected ')'`},
		{"a = 1\nb = !", `2:5: unexpected character '!'`},
		{`x = "abc`, `1:5: string literal not terminated`},
	}
	test_helper.RunTest(t, tests, parse)
}

func TestUnclosedCall(t *testing.T) {
	_, err := parser.Parse("test", `f(1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected ')', got end of file")
}

func TestStatementsKnowWhereTheyAre(t *testing.T) {
	statements, err := parser.Parse("test", "a = 1\n\n  f(a, k: 0x00)\n")
	require.NoError(t, err)
	require.Len(t, statements, 2)
	tok := statements[1].GetToken()
	assert.Equal(t, 3, tok.Line)
	assert.Equal(t, 3, tok.Column())
	assert.Equal(t, "test", tok.Source)

	call := statements[1].(*ast.ExpressionStatement).Expression.(*ast.CallExpression)
	assert.Equal(t, "f", call.Function)
	require.Len(t, call.Named, 1)
	assert.Equal(t, "k", call.Named[0].Name)
	assert.Equal(t, []byte{0}, call.Named[0].Value.(*ast.DataLiteral).Value)
	assert.Len(t, call.Children(), 2)
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := parser.Parse("test", "a = 1\nb = )")
	var syntaxErr *parser.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line())
	assert.Equal(t, 5, syntaxErr.Column())
}
