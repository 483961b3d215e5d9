package ast

import (
	"bytes"
	"encoding/hex"
	"strconv"

	"github.com/tim-hardcastle/scanscript/source/token"
)

// The base Node interface. Statements and expressions are both Nodes: a statement is
// whatever the parser hands back as one line of a script.
type Node interface {
	Children() []Node
	GetToken() *token.Token
	String() string
}

// Nodes in alphabetical order.

type AssignmentStatement struct {
	Token token.Token // The identifier being assigned to.
	Name  string
	Value Node
}

func (as *AssignmentStatement) Children() []Node       { return []Node{as.Value} }
func (as *AssignmentStatement) GetToken() *token.Token { return &as.Token }
func (as *AssignmentStatement) String() string {
	return "(" + as.Name + " = " + as.Value.String() + ")"
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Children() []Node       { return []Node{} }
func (b *BooleanLiteral) GetToken() *token.Token { return &b.Token }
func (b *BooleanLiteral) String() string         { return b.Token.Literal }

type CallExpression struct {
	Token      token.Token // The function's name.
	Function   string
	Positional []Node
	Named      []*NamedArgument
}

func (ce *CallExpression) Children() []Node {
	result := append([]Node{}, ce.Positional...)
	for _, arg := range ce.Named {
		result = append(result, arg)
	}
	return result
}
func (ce *CallExpression) GetToken() *token.Token { return &ce.Token }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(ce.Function)
	out.WriteString("(")
	sep := ""
	for _, arg := range ce.Positional {
		out.WriteString(sep + arg.String())
		sep = ", "
	}
	for _, arg := range ce.Named {
		out.WriteString(sep + arg.String())
		sep = ", "
	}
	out.WriteString(")")
	return out.String()
}

type DataLiteral struct {
	Token token.Token
	Value []byte
}

func (dl *DataLiteral) Children() []Node       { return []Node{} }
func (dl *DataLiteral) GetToken() *token.Token { return &dl.Token }
func (dl *DataLiteral) String() string         { return "0x" + hex.EncodeToString(dl.Value) }

// ExpressionStatement is a line that's just an expression, usually a call.
type ExpressionStatement struct {
	Token      token.Token
	Expression Node
}

func (es *ExpressionStatement) Children() []Node       { return []Node{es.Expression} }
func (es *ExpressionStatement) GetToken() *token.Token { return &es.Token }
func (es *ExpressionStatement) String() string         { return es.Expression.String() }

// FunctionReference is '@name': the function itself rather than a call to it.
type FunctionReference struct {
	Token token.Token // The '@'.
	Name  string
}

func (fr *FunctionReference) Children() []Node       { return []Node{} }
func (fr *FunctionReference) GetToken() *token.Token { return &fr.Token }
func (fr *FunctionReference) String() string         { return "@" + fr.Name }

type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Children() []Node       { return []Node{} }
func (i *Identifier) GetToken() *token.Token { return &i.Token }
func (i *Identifier) String() string         { return i.Value }

type IncludeStatement struct {
	Token    token.Token // The 'include' keyword.
	Filename string
}

func (is *IncludeStatement) Children() []Node       { return []Node{} }
func (is *IncludeStatement) GetToken() *token.Token { return &is.Token }
func (is *IncludeStatement) String() string         { return "include " + strconv.Quote(is.Filename) }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Children() []Node       { return []Node{} }
func (il *IntegerLiteral) GetToken() *token.Token { return &il.Token }
func (il *IntegerLiteral) String() string         { return il.Token.Literal }

type ListExpression struct {
	Token    token.Token
	Elements []Node
}

func (le *ListExpression) Children() []Node       { return le.Elements }
func (le *ListExpression) GetToken() *token.Token { return &le.Token }
func (le *ListExpression) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, e := range le.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(e.String())
	}
	out.WriteString("]")
	return out.String()
}

type NamedArgument struct {
	Token token.Token // The name.
	Name  string
	Value Node
}

func (na *NamedArgument) Children() []Node       { return []Node{na.Value} }
func (na *NamedArgument) GetToken() *token.Token { return &na.Token }
func (na *NamedArgument) String() string         { return na.Name + ": " + na.Value.String() }

type NullLiteral struct {
	Token token.Token
}

func (nl *NullLiteral) Children() []Node       { return []Node{} }
func (nl *NullLiteral) GetToken() *token.Token { return &nl.Token }
func (nl *NullLiteral) String() string         { return "NULL" }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Children() []Node       { return []Node{} }
func (sl *StringLiteral) GetToken() *token.Token { return &sl.Token }
func (sl *StringLiteral) String() string         { return strconv.Quote(sl.Value) }
