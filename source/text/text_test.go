package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tim-hardcastle/scanscript/source/token"
)

func TestDescribePos(t *testing.T) {
	tok := &token.Token{Source: "scan.inc", Line: 3, ChStart: 4}
	assert.Equal(t, " at line 3:5 of 'scan.inc'", DescribePos(tok))
	tok = &token.Token{Source: "REPL input"}
	assert.Equal(t, " in REPL input", DescribePos(tok))
	assert.Equal(t, "", DescribePos(&token.Token{}))
}

func TestLogo(t *testing.T) {
	assert.Contains(t, Logo(), "scanscript")
	assert.Contains(t, Logo(), VERSION)
}

func TestPrettyWraps(t *testing.T) {
	s := Pretty("one two three four five six", 0, 10)
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 10)
	}
	assert.Contains(t, s, "three")
}

func TestPrettyPlainTextHasNoEscapes(t *testing.T) {
	s := Pretty("one two three four five six", 0, 10)
	assert.NotContains(t, s, "\x1b[")
	assert.Equal(t, "one two\nthree\nfour five\nsix\n", s)
}
