package text

// This consists of a bunch of text utilities to help in generating pretty and meaningful
// help messages, error messages, etc.

import (
	"strconv"
	"strings"

	"github.com/tim-hardcastle/scanscript/source/token"
)

const (
	VERSION        = "0.1.0"
	BULLET         = "  ▪ "
	BULLET_SPACING = "    " // I.e. whitespace the same width as BULLET.
	GOOD_BULLET    = "\033[32m  ▪ \033[0m"
	BROKEN         = "\033[31m  ✖ \033[0m"
	PROMPT         = "→ "
)

func Cyan(s string) string {
	return CYAN + s + RESET
}

func Emph(s string) string {
	return "'" + s + "'"
}

func Red(s string) string {
	return RED + s + RESET
}

func Green(s string) string {
	return GREEN + s + RESET
}

func Yellow(s string) string {
	return YELLOW + s + RESET
}

func Logo() string {
	var padding string
	if len(VERSION)%2 == 1 {
		padding = ","
	}
	titleText := " scanscript" + padding + " version " + VERSION + " "
	mark := Red("◆")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2)
	logoString := "\n" +
		leftMargin + "╔" + bar + mark + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + mark + bar + "╝\n\n"
	return logoString
}

const HELP = "\nUsage: scanscript [-v | --version] [-h | --help] [-config <file>]\n" +
	"                [<script> ...]\n\n" +
	"With scripts, runs each of them in turn and stops at the first one that fails.\n" +
	"Without, starts the REPL.\n\n"

// DescribePos says where a token is, for the purposes of log lines and the like.
func DescribePos(tok *token.Token) string {
	prettySource := tok.Source
	if prettySource == "" {
		return ""
	}
	if prettySource != "REPL input" {
		prettySource = "'" + prettySource + "'"
	}
	if tok.Line > 0 {
		return " at line " + strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.Column()) + " of " + prettySource
	}
	return " in " + prettySource
}

var (
	RESET     = "\033[0m"
	UNDERLINE = "\033[3m"
	RED       = "\033[31m"
	GREEN     = "\033[32m"
	YELLOW    = "\033[33m"
	BLUE      = "\033[34m"
	PURPLE    = "\033[35m"
	CYAN      = "\033[36m"
	GRAY      = "\033[37m"
	WHITE     = "\033[97m"

	ERROR     = "$Error$"
	HUB_ERROR = "$Hub error$"
	OK        = Green("OK")
)

func HighlightLine(plainLine string, highlighter rune) (string, rune) {
	// Now we highlight the line. The rules are: anything enclosed in '   ' is code and is
	// therefore highlighted, i.e. 'foo' serves the same function as writing foo in a monotype
	// font would in a textbook or manual.

	// Because it looks kind of odd and redundant to write '"foo"' and '<foo>',  these are also
	// highlighted without requiring '.

	// The ' doesn't trigger the highlighting unless it follows a line beginning or space etc, because it
	// might be an apostrophe.

	highlitLine := ""
	prevCh := ' '
	if highlighter != ' ' {
		highlitLine = CYAN
	}

	for _, ch := range plainLine {
		if highlighter == ' ' && ((prevCh == ' ' || prevCh == '\n' || prevCh == '$') &&
			(ch == '\'' || ch == '"' || ch == '<' || ch == '$') || ch == '@') {
			highlighter = ch
			if highlighter == '<' {
				highlighter = '>'
			}
			if highlighter == '$' {
				highlitLine = highlitLine + RED
				continue
			}
			if highlighter == '@' {
				highlitLine = highlitLine + " " + YELLOW
				continue
			}
			highlitLine = highlitLine + CYAN
		} else {
			if highlighter != ' ' && ch == highlighter {
				prevCh = ch
				highlighter = ' '

				if ch == '$' {
					highlitLine = highlitLine + RESET + ": "
					continue
				}
				if ch == '@' {
					highlitLine = highlitLine + " " + RESET
					continue
				}
				highlitLine = highlitLine + string(ch) + RESET
				continue
			}
		}
		prevCh = ch
		highlitLine = highlitLine + string(ch)
	}
	return highlitLine, highlighter
}

func Pretty(s string, lMargin, rMargin int) string {
	LENGTH := rMargin - lMargin
	result := ""
	codeWidth := -1
	highlighter := ' '
	for i := 0; i < len(s); {
		result = result + strings.Repeat(" ", lMargin)
		e := i + LENGTH
		j := 0
		if e > len(s) {
			j = len(s) - i
		} else if strings.Contains(s[i:e], "\n") {
			j = strings.Index(s[i:e], "\n")
		} else {
			j = strings.LastIndex(s[i:e], " ")
		}
		if j == -1 {
			j = LENGTH
		}
		if strings.Contains(s[i:i+j], "\n") {
			j = strings.Index(s[i:i+j], "\n")
		}

		plainLine := s[i : i+j]
		if len(plainLine) >= 2 && plainLine[0:2] == "|-" {
			if codeWidth > 0 {
				result = result + (" └──" + strings.Repeat("─", codeWidth) + "┘\n")
				codeWidth = -1
			} else {
				codeWidth = len(plainLine)
				result = result + (" ┌──" + strings.Repeat("─", codeWidth) + "┐\n")
			}
		} else if codeWidth > 0 {
			repeatNo := codeWidth - len(plainLine)
			if repeatNo < 0 {
				repeatNo = 0
			}
			result = result + (" │  " + Cyan(plainLine) + strings.Repeat(" ", repeatNo) + "│\n")
		} else {
			var str string
			str, highlighter = HighlightLine(plainLine, highlighter)
			result = result + (str + "\n")
		}
		i = i + j + 1
	}
	return result
}
