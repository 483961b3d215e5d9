package test_helper

import (
	"testing"

	"github.com/tim-hardcastle/scanscript/source/settings"
	"github.com/tim-hardcastle/scanscript/source/text"
)

// Auxiliary types and functions for testing the parser and the interpreter.

type TestItem struct {
	Input string
	Want  string
}

// RunTest feeds each input to F and compares what comes back with what's wanted. If
// F returns an error, the error message is what gets compared.
func RunTest(t *testing.T, tests []TestItem, F func(s string) (string, error)) {
	t.Helper()
	for _, test := range tests {
		if settings.SHOW_TESTS {
			println(text.BULLET + "Running test " + text.Emph(test.Input))
		}
		got, e := F(test.Input)
		if e != nil {
			got = e.Error()
		}
		if !(test.Want == got) {
			t.Fatalf(`Test failed with input %s | Wanted : %s | Got : %s.`, test.Input, test.Want, got)
		}
	}
}
