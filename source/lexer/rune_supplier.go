package lexer

// The RuneSupplier walks through the source a rune at a time, keeping track of where
// it is, so the lexer doesn't have to.
type RuneSupplier struct {
	code      []rune
	pos       int
	lineNo    int
	lineStart int
}

func NewRuneSupplier(code []rune) *RuneSupplier {
	return &RuneSupplier{code: code, lineNo: 1}
}

func (rs *RuneSupplier) CurrentRune() rune {
	if rs.pos < len(rs.code) {
		return rs.code[rs.pos]
	}
	return 0
}

func (rs *RuneSupplier) PeekRune() rune {
	if rs.pos+1 < len(rs.code) {
		return rs.code[rs.pos+1]
	}
	return 0
}

func (rs *RuneSupplier) Next() {
	if rs.pos >= len(rs.code) {
		return
	}
	if rs.code[rs.pos] == '\n' {
		rs.lineNo++
		rs.lineStart = rs.pos + 1
	}
	rs.pos++
}

// Position gives the line, counting from 1, and the column, counting from 0.
func (rs *RuneSupplier) Position() (int, int) {
	return rs.lineNo, rs.pos - rs.lineStart
}

func (runes *RuneSupplier) ReadNumber() string {
	result := string(runes.CurrentRune())
	for IsDigit(runes.PeekRune()) {
		runes.Next()
		result = result + string(runes.CurrentRune())
	}
	return result
}

func (runes *RuneSupplier) ReadHexNumber() string {
	result := ""
	runes.Next()
	for IsHexDigit(runes.PeekRune()) {
		runes.Next()
		result = result + string(runes.CurrentRune())
	}
	return result
}

func (runes *RuneSupplier) ReadComment() string {
	result := ""
	for !(runes.PeekRune() == '\n' || runes.PeekRune() == 0) {
		result = result + string(runes.PeekRune())
		runes.Next()
	}
	return result
}

func (runes *RuneSupplier) ReadFormattedString() (string, bool) {
	escape := false
	result := ""
	for {
		runes.Next()
		if (runes.CurrentRune() == '"' && !escape) || runes.CurrentRune() == 0 || runes.CurrentRune() == 13 || runes.CurrentRune() == 10 {
			break
		}
		if runes.CurrentRune() == '\\' && !escape {
			escape = true
			continue
		}
		charToAdd := runes.CurrentRune()
		if escape {
			escape = false
			switch runes.CurrentRune() {
			case 'n':
				charToAdd = '\n'
			case 'r':
				charToAdd = '\r'
			case 't':
				charToAdd = '\t'
			case '0':
				charToAdd = 0
			}
		}
		result = result + string(charToAdd)
	}
	if runes.CurrentRune() != '"' {
		return result, false
	}
	return result, true
}

func (runes *RuneSupplier) ReadPlaintextString() (string, bool) {
	result := ""
	for {
		runes.Next()
		if runes.CurrentRune() == '`' || runes.CurrentRune() == 0 || runes.CurrentRune() == 13 || runes.CurrentRune() == 10 {
			break
		}
		result = result + string(runes.CurrentRune())
	}
	if runes.CurrentRune() != '`' {
		return result, false
	}
	return result, true
}

func (runes *RuneSupplier) ReadIdentifier() string {
	result := string(runes.CurrentRune()) // i.e. the character that suggested this was an identifier.
	for IsIdentifierRune(runes.PeekRune()) {
		runes.Next()
		result = result + string(runes.CurrentRune())
	}
	return result
}
