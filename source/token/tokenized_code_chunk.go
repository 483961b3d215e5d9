package token

import (
	"fmt"
)

// A TokenizedCodeChunk is the stream the parser reads one statement from.
type TokenizedCodeChunk struct {
	position int
	code     []Token
}

func NewCodeChunk() *TokenizedCodeChunk {
	tcc := &TokenizedCodeChunk{
		position: -1,
		code:     []Token{},
	}
	return tcc
}

func (tcc *TokenizedCodeChunk) Append(tokenToAppend Token) {
	tcc.code = append(tcc.code, tokenToAppend)
}

func (tcc *TokenizedCodeChunk) Length() int {
	return len(tcc.code)
}

func (tcc *TokenizedCodeChunk) IndexToken() *Token {
	return &tcc.code[0]
}

// NextToken keeps on returning EOF tokens once the chunk is used up, positioned at
// the last real token so that errors at the end of a line still have a location.
func (tcc *TokenizedCodeChunk) NextToken() Token {
	if tcc.position+1 < len(tcc.code) {
		tcc.position++
		return tcc.code[tcc.position]
	}
	if len(tcc.code) == 0 {
		return Token{Type: EOF, Literal: "EOF", Line: 1}
	}
	last := tcc.code[len(tcc.code)-1]
	return Token{Type: EOF, Literal: "EOF", Line: last.Line, ChStart: last.ChEnd, ChEnd: last.ChEnd, Source: last.Source}
}

func (tcc *TokenizedCodeChunk) PeekToken() Token {
	if tcc.position+1 < len(tcc.code) {
		return tcc.code[tcc.position+1]
	}
	return Token{Type: EOF, Literal: "EOF"}
}

func (tcc *TokenizedCodeChunk) String() string {
	output := ""
	for _, tok := range tcc.code {
		output = output + fmt.Sprintf("%v\n", tok)
	}
	return output + "\n"
}

func (tcc *TokenizedCodeChunk) ToStart() {
	tcc.position = -1
}
