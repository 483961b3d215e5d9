// Package parser turns the tokens of a script into statements, one per line.
//
// The grammar is small:
//
//	statement  := 'include' STRING | [IDENT '='] expression
//	expression := literal | IDENT | '@' IDENT | IDENT '(' arguments ')' | '[' elements ']'
//	arguments  := (expression | IDENT ':' expression) {',' ...}
//
// Positional arguments must all come before the named ones.
package parser

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/tim-hardcastle/scanscript/source/ast"
	"github.com/tim-hardcastle/scanscript/source/lexer"
	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/token"
)

type TokenSupplier interface{ NextToken() token.Token }

// A SyntaxError knows where it happened, which is all an include error needs to say.
type SyntaxError struct {
	Message string
	Token   token.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line(), e.Column(), e.Message)
}

func (e *SyntaxError) Line() int {
	return e.Token.Line
}

func (e *SyntaxError) Column() int {
	return e.Token.Column()
}

type Parser struct {
	TokenizedCode TokenSupplier
	Errors        []*SyntaxError
	curToken      token.Token
	peekToken     token.Token
}

func New(tcc TokenSupplier) *Parser {
	p := &Parser{TokenizedCode: tcc}
	p.NextToken()
	p.NextToken()
	return p
}

// Parse gives back the statements of the script, or the first syntax error in it.
func Parse(source, input string) ([]ast.Node, error) {
	p := New(lexer.Tokenize(source, input))
	statements := p.ParseAll()
	if p.ErrorsExist() {
		return nil, p.Errors[0]
	}
	return statements, nil
}

func (p *Parser) NextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.TokenizedCode.NextToken()
	if p.peekToken.Type == token.ILLEGAL {
		p.Throw(&p.peekToken, "%s", p.peekToken.Literal)
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.NextToken()
		return true
	}
	p.Throw(&p.peekToken, "expected %s, got %s", token.Category(t), describe(p.peekToken))
	return false
}

// ParseAll parses up to EOF, stopping at the first error.
func (p *Parser) ParseAll() []ast.Node {
	result := []ast.Node{}
	for !p.ErrorsExist() {
		for p.curTokenIs(token.NEWLINE) {
			p.NextToken()
		}
		if p.curTokenIs(token.EOF) {
			break
		}
		stmt := p.ParseStatement()
		if p.ErrorsExist() {
			break
		}
		if settings.SHOW_PARSER {
			println("Parsed " + stmt.String())
		}
		result = append(result, stmt)
		p.NextToken()
		if !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
			p.Throw(&p.curToken, "expected end of statement, got %s", describe(p.curToken))
		}
	}
	return result
}

// ParseStatement leaves curToken on the last token of the statement.
func (p *Parser) ParseStatement() ast.Node {
	switch {
	case p.curTokenIs(token.INCLUDE):
		stmt := &ast.IncludeStatement{Token: p.curToken}
		if !p.expectPeek(token.STRING) {
			return nil
		}
		stmt.Filename = p.curToken.Literal
		return stmt
	case p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN):
		stmt := &ast.AssignmentStatement{Token: p.curToken, Name: p.curToken.Literal}
		p.NextToken()
		p.NextToken()
		stmt.Value = p.parseExpression()
		return stmt
	}
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression()
	return stmt
}

func (p *Parser) parseExpression() ast.Node {
	switch p.curToken.Type {
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseCallExpression()
		}
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case token.AT:
		ref := &ast.FunctionReference{Token: p.curToken}
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		ref.Name = p.curToken.Literal
		return ref
	case token.INT:
		return p.parseIntegerLiteral()
	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case token.DATA:
		return p.parseDataLiteral()
	case token.TRUE, token.FALSE:
		return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
	case token.NULL:
		return &ast.NullLiteral{Token: p.curToken}
	case token.LBRACK:
		return p.parseListExpression()
	case token.ILLEGAL:
		// Already reported when it was peeked at.
		return nil
	}
	p.Throw(&p.curToken, "unexpected %s", describe(p.curToken))
	return nil
}

func (p *Parser) parseIntegerLiteral() ast.Node {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.Throw(&p.curToken, "can't read %s as a 64-bit integer", p.curToken.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseDataLiteral() ast.Node {
	value, err := hex.DecodeString(p.curToken.Literal)
	if err != nil {
		p.Throw(&p.curToken, "can't read 0x%s as data", p.curToken.Literal)
		return nil
	}
	return &ast.DataLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseListExpression() ast.Node {
	list := &ast.ListExpression{Token: p.curToken, Elements: []ast.Node{}}
	if p.peekTokenIs(token.RBRACK) {
		p.NextToken()
		return list
	}
	for !p.ErrorsExist() {
		p.NextToken()
		list.Elements = append(list.Elements, p.parseExpression())
		if p.peekTokenIs(token.COMMA) {
			p.NextToken()
			continue
		}
		p.expectPeek(token.RBRACK)
		break
	}
	return list
}

func (p *Parser) parseCallExpression() ast.Node {
	call := &ast.CallExpression{Token: p.curToken, Function: p.curToken.Literal,
		Positional: []ast.Node{}, Named: []*ast.NamedArgument{}}
	p.NextToken() // Now on '('.
	if p.peekTokenIs(token.RPAREN) {
		p.NextToken()
		return call
	}
	seen := map[string]bool{}
	for !p.ErrorsExist() {
		p.NextToken()
		if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
			arg := &ast.NamedArgument{Token: p.curToken, Name: p.curToken.Literal}
			if seen[arg.Name] {
				p.Throw(&p.curToken, "named argument %s given twice", arg.Name)
				return nil
			}
			seen[arg.Name] = true
			p.NextToken()
			p.NextToken()
			arg.Value = p.parseExpression()
			call.Named = append(call.Named, arg)
		} else {
			if len(call.Named) > 0 {
				p.Throw(&p.curToken, "positional argument after named arguments")
				return nil
			}
			call.Positional = append(call.Positional, p.parseExpression())
		}
		if p.peekTokenIs(token.COMMA) {
			p.NextToken()
			continue
		}
		p.expectPeek(token.RPAREN)
		break
	}
	return call
}

// Throw records an error. Only the first one is of any use, since the parser doesn't
// try to recover.
func (p *Parser) Throw(tok *token.Token, format string, args ...any) {
	p.Errors = append(p.Errors, &SyntaxError{Message: fmt.Sprintf(format, args...), Token: *tok})
}

func (p *Parser) ErrorsExist() bool {
	return len(p.Errors) > 0
}

func describe(tok token.Token) string {
	category := token.Category(tok.Type)
	if tok.Type == token.NEWLINE || tok.Type == token.EOF || strings.HasPrefix(category, "'") {
		return category
	}
	return category + " " + strconv.Quote(tok.Literal)
}
