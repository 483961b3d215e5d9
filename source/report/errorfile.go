package report

import (
	"errors"
	"fmt"

	"github.com/tim-hardcastle/scanscript/source/parser"
)

type ErrorCreator struct {
	Message     func(e *InterpretError) string
	Explanation func(e *InterpretError) string
}

// A map from error kinds to the functions that supply the corresponding error
// messages and explanations, in the order the kinds are declared.
var ErrorCreatorMap = map[ErrorKind]ErrorCreator{

	FUNCTION_EXPECTED_VALUE: {
		Message: func(e *InterpretError) string {
			return "Expected a value but got a function."
		},
		Explanation: func(e *InterpretError) string {
			return "A function reference, written " + emph("@name") + ", can only be passed to a function. " +
				"It can't be used as a value in its own right."
		},
	},

	VALUE_EXPECTED_FUNCTION: {
		Message: func(e *InterpretError) string {
			return "Expected a function but got a value."
		},
		Explanation: func(e *InterpretError) string {
			return "Something was called as a function which is a value."
		},
	},

	WRONG_TYPE: {
		Message: func(e *InterpretError) string {
			return "Expected the type " + e.Detail
		},
		Explanation: func(e *InterpretError) string {
			return "A value of the wrong type was found where a " + emph(e.Detail) + " was wanted."
		},
	},

	WRONG_CATEGORY: {
		Message: func(e *InterpretError) string {
			return "Expected the category " + e.Detail
		},
		Explanation: func(e *InterpretError) string {
			return "The script has something other than a " + e.Detail + " where it needs one."
		},
	},

	INVALID_REGEX: {
		Message: func(e *InterpretError) string {
			return "Invalid regular expression: " + e.Detail
		},
		Explanation: func(e *InterpretError) string {
			return "Regular expressions use Go's RE2 syntax."
		},
	},

	INCLUDE_SYNTAX_ERROR: {
		Message: func(e *InterpretError) string {
			var syntaxErr *parser.SyntaxError
			if errors.As(e.Err, &syntaxErr) {
				return fmt.Sprintf("Error while including file %s, line: %d, col: %d: %s",
					e.Filename, syntaxErr.Line(), syntaxErr.Column(), syntaxErr.Message)
			}
			return fmt.Sprintf("Error while including file %s: %v", e.Filename, e.Err)
		},
		Explanation: func(e *InterpretError) string {
			return "The included file " + emph(e.Filename) + " has a syntax error, so none of it was run. " +
				"The line and column are in the included file, not this one."
		},
	},

	SYNTAX_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "The line couldn't be parsed. A call line looks like " + emph("x = f(a, key: b)") + "."
		},
	},

	NOT_FOUND: {
		Message: func(e *InterpretError) string {
			return "Key not found: " + e.Detail
		},
		Explanation: func(e *InterpretError) string {
			return "Nothing called " + emph(e.Detail) + " exists. Variables come into being when they are assigned to, " +
				"and the functions are the ones listed by " + emph("functions") + "."
		},
	},

	STORAGE_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "The knowledge base failed."
		},
	},

	LOAD_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "A script file couldn't be read."
		},
	},

	FORMAT_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "A value couldn't be written out."
		},
	},

	IO_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "Something outside the interpreter, usually the network, let the script down."
		},
	},

	FUNCTION_CALL_ERROR: {
		Message: func(e *InterpretError) string {
			return plain(e)
		},
		Explanation: func(e *InterpretError) string {
			return "A function failed."
		},
	},
}

func plain(e *InterpretError) string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Detail
}

func emph(s string) string {
	return "'" + s + "'"
}
