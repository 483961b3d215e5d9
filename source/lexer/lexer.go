// Package lexer turns call lines into tokens. It doesn't report errors itself: what
// it can't make sense of comes out as an ILLEGAL token whose literal says what was
// wrong, and the parser reports that.
package lexer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/token"
)

type lexer struct {
	runes  *RuneSupplier
	tstart int // the column at the start of a token
	lineNo int
	source string
}

func NewLexer(source, input string) *lexer {
	return &lexer{
		runes:  NewRuneSupplier([]rune(input)),
		source: source,
		lineNo: 1,
	}
}

// Tokenize lexes the whole input. Comments are dropped; the result always ends with
// an EOF token.
func Tokenize(source, input string) *token.TokenizedCodeChunk {
	l := NewLexer(source, input)
	tcc := token.NewCodeChunk()
	for {
		tok := l.NextToken()
		if tok.Type == token.COMMENT {
			continue
		}
		tcc.Append(tok)
		if tok.Type == token.EOF {
			return tcc
		}
	}
}

func (l *lexer) NextToken() token.Token {
	l.skipWhitespace()
	l.lineNo, l.tstart = l.runes.Position()
	switch l.runes.CurrentRune() {
	case 0:
		return l.MakeToken(token.EOF, "EOF")
	case '\n':
		return l.NewToken(token.NEWLINE, "\n")
	case ';':
		return l.NewToken(token.NEWLINE, ";")
	case '#':
		return l.NewToken(token.COMMENT, strings.TrimSpace(l.runes.ReadComment()))
	case '(':
		return l.NewToken(token.LPAREN, "(")
	case ')':
		return l.NewToken(token.RPAREN, ")")
	case '[':
		return l.NewToken(token.LBRACK, "[")
	case ']':
		return l.NewToken(token.RBRACK, "]")
	case ',':
		return l.NewToken(token.COMMA, ",")
	case ':':
		return l.NewToken(token.COLON, ":")
	case '=':
		return l.NewToken(token.ASSIGN, "=")
	case '@':
		return l.NewToken(token.AT, "@")
	// We may have a formatted string.
	case '"':
		s, ok := l.runes.ReadFormattedString()
		if !ok {
			return l.Throw("string literal not terminated")
		}
		return l.NewToken(token.STRING, s)
	// Or a plaintext string.
	case '`':
		s, ok := l.runes.ReadPlaintextString()
		if !ok {
			return l.Throw("string literal not terminated")
		}
		return l.NewToken(token.STRING, s)
	}

	// We may have a data literal.
	if l.runes.CurrentRune() == '0' && (l.runes.PeekRune() == 'x' || l.runes.PeekRune() == 'X') {
		hex := l.runes.ReadHexNumber()
		if len(hex)%2 != 0 {
			return l.Throw("data literal 0x" + hex + " has an odd number of hex digits")
		}
		if IsIdentifierRune(l.runes.PeekRune()) {
			l.runes.Next()
			return l.Throw(fmt.Sprintf("%q is not a hex digit", l.runes.CurrentRune()))
		}
		return l.NewToken(token.DATA, hex)
	}

	// Or a number, which may be negative.
	if IsDigit(l.runes.CurrentRune()) || l.runes.CurrentRune() == '-' && IsDigit(l.runes.PeekRune()) {
		numString := l.runes.ReadNumber()
		if IsIdentifierRune(l.runes.PeekRune()) {
			l.runes.Next()
			return l.Throw("malformed number " + numString + string(l.runes.CurrentRune()))
		}
		return l.NewToken(token.INT, numString)
	}

	// Or an identifier or keyword.
	if IsLegalStart(l.runes.CurrentRune()) {
		lit := l.runes.ReadIdentifier()
		return l.NewToken(token.LookupIdent(lit), lit)
	}

	// Or we have nothing recognizable.
	return l.Throw(fmt.Sprintf("unexpected character %q", l.runes.CurrentRune()))
}

func (l *lexer) skipWhitespace() {
	for l.runes.CurrentRune() == ' ' || l.runes.CurrentRune() == '\t' || l.runes.CurrentRune() == '\r' {
		l.runes.Next()
	}
}

func IsLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func IsUnderscore(ch rune) bool {
	return ch == '_'
}

func IsDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func IsHexDigit(ch rune) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func IsLegalStart(ch rune) bool {
	return IsLetter(ch) || IsUnderscore(ch)
}

func IsIdentifierRune(ch rune) bool {
	return IsLetter(ch) || IsUnderscore(ch) || IsDigit(ch)
}

// NewToken makes a token ending at the current rune and moves past it.
func (l *lexer) NewToken(tokenType token.TokenType, st string) token.Token {
	l.runes.Next()
	return l.MakeToken(tokenType, st)
}

func (l *lexer) MakeToken(tokenType token.TokenType, st string) token.Token {
	if settings.SHOW_LEXER {
		fmt.Println(tokenType, st)
	}
	_, chNo := l.runes.Position()
	return token.Token{Type: tokenType, Literal: st, Source: l.source, Line: l.lineNo, ChStart: l.tstart, ChEnd: chNo}
}

func (l *lexer) Throw(message string) token.Token {
	return l.NewToken(token.ILLEGAL, message)
}
