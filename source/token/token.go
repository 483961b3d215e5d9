package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Identifiers + literals
	IDENT  = "IDENT"  // get_kb_item, key, x, ...
	INT    = "int"    // 1343456, -1, 0x10 is DATA not INT
	STRING = "string" // "foo", `bar`
	DATA   = "data"   // 0x0a0b0c
	TRUE   = "true"
	FALSE  = "false"
	NULL   = "NULL"

	COMMENT = "COMMENT" // # foo bar

	ASSIGN  = "="
	COLON   = ":"
	COMMA   = ","
	AT      = "@"
	NEWLINE = "\n"

	LPAREN = "("
	RPAREN = ")"
	LBRACK = "["
	RBRACK = "]"

	// Keywords
	INCLUDE = "include"
)

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	ChStart int
	ChEnd   int
	Source  string
}

// Column is one-based, ChStart isn't.
func (t *Token) Column() int {
	return t.ChStart + 1
}

var keywords = map[string]TokenType{
	"true":    TRUE,
	"false":   FALSE,
	"NULL":    NULL,
	"include": INCLUDE,
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Describes a token type the way we'd like to see it in an error message, e.g.
// "Expected the category string literal".
func Category(t TokenType) string {
	switch t {
	case IDENT:
		return "identifier"
	case INT:
		return "number literal"
	case STRING:
		return "string literal"
	case DATA:
		return "data literal"
	case TRUE, FALSE:
		return "boolean literal"
	case NEWLINE:
		return "newline"
	case EOF:
		return "end of file"
	case ILLEGAL:
		return "illegal token"
	}
	return "'" + string(t) + "'"
}

func TokenTypeIsLiteral(t TokenType) bool {
	return t == INT || t == STRING || t == DATA || t == TRUE || t == FALSE || t == NULL
}
