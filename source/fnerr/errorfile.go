package fnerr

import (
	"fmt"
	"strings"
)

type ErrorCreator struct {
	Message     func(args ...any) string
	Explanation func(args ...any) string
}

// A map from error identifiers to the functions that supply the corresponding error
// messages and explanations, in alphabetical order of identifier.
//
// The categories are arg, built, crypto, internal, kb, and ssh. The message texts of
// the arg errors are relied on by scripts that grep their own logs, so leave them be.
var ErrorCreatorMap = map[string]ErrorCreator{

	"arg/named/missing": {
		Message: func(args ...any) string {
			return "Missing named arguments: " + strings.Join(args[0].([]string), ", ")
		},
		Explanation: func(args ...any) string {
			return "The function needs to be given " + emphList(args[0].([]string)) + " as named arguments, " +
				"written as e.g. " + emph("key: 0x0102") + ", and didn't get them."
		},
	},

	"arg/named/unexpected": {
		Message: func(args ...any) string {
			return fmt.Sprintf("Unknown named argument given: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "The function doesn't take an argument called " + emph(args[0]) + ". Check the spelling: " +
				"a misspelled optional argument would otherwise be silently ignored."
		},
	},

	"arg/positional/missing": {
		Message: func(args ...any) string {
			return fmt.Sprintf("Missing positional arguments. Expected %v but got %v.", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return fmt.Sprintf("The function takes %v unnamed arguments and you gave it only %v.", args[0], args[1])
		},
	},

	"arg/positional/trailing": {
		Message: func(args ...any) string {
			return fmt.Sprintf("Trailing positional arguments. Expected %v but got %v.", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return fmt.Sprintf("The function takes %v unnamed arguments and you gave it %v. The extra ones "+
				"would be ignored, which is probably not what you meant.", args[0], args[1])
		},
	},

	"arg/wrong": {
		Message: func(args ...any) string {
			return fmt.Sprintf("Wrong arguments given: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "One of the arguments is of the wrong kind. Note that a string is always accepted where " +
				"data is wanted, and is passed on as its UTF-8 bytes."
		},
	},

	"built/general": {
		Message: func(args ...any) string {
			return fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "The function failed, and said why as best it could."
		},
	},

	"built/hex": {
		Message: func(args ...any) string {
			return "can't read " + emph(args[0]) + " as hexadecimal"
		},
		Explanation: func(args ...any) string {
			return "A hex string must have an even number of characters, each of which is 0-9, a-f or A-F."
		},
	},

	"built/io": {
		Message: func(args ...any) string {
			return fmt.Sprintf("I/O error: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "The function couldn't talk to the outside world. The target may be down, filtered, or " +
				"just slow; this is not a problem with your script as such."
		},
	},

	"built/range": {
		Message: func(args ...any) string {
			return fmt.Sprintf("System only supports numbers between %v and %v but was %v", args[0], args[1], args[2])
		},
		Explanation: func(args ...any) string {
			return fmt.Sprintf("The number %v is a perfectly good number, but it has to be turned into something "+
				"this machine can only represent between %v and %v. Rather than wrap it round or cut it short, "+
				"the function refuses.", args[2], args[0], args[1])
		},
	},

	"built/regex": {
		Message: func(args ...any) string {
			return fmt.Sprintf("invalid regular expression %v: %v", emph(args[0]), args[1])
		},
		Explanation: func(args ...any) string {
			return "The pattern is compiled using Go's RE2 syntax, which doesn't support backreferences or lookaround."
		},
	},

	"crypto/auth": {
		Message: func(args ...any) string {
			return fmt.Sprintf("%v: message authentication failed", args[0])
		},
		Explanation: func(args ...any) string {
			return "An authenticated cipher refused to decrypt the data because the tag didn't match. Either " +
				"the key, the iv or the data is wrong, or the data has been tampered with."
		},
	},

	"crypto/bcrypt": {
		Message: func(args ...any) string {
			return fmt.Sprintf("bcrypt: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "bcrypt refused the password or the hash. Passwords longer than 72 bytes are refused outright."
		},
	},

	"crypto/blocks": {
		Message: func(args ...any) string {
			return fmt.Sprintf("%v: %v bytes of data is not a whole number of blocks", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "Block-mode decryption works on whole blocks of 16 bytes, and the data isn't."
		},
	},

	"crypto/iterations": {
		Message: func(args ...any) string {
			return "pbkdf2 needs at least one iteration"
		},
		Explanation: func(args ...any) string {
			return "Zero iterations of a key derivation function would derive nothing."
		},
	},

	"crypto/iv": {
		Message: func(args ...any) string {
			return fmt.Sprintf("%v needs an iv of %v bytes, not %v", args[0], args[1], args[2])
		},
		Explanation: func(args ...any) string {
			return "The initialization vector must be exactly the size the mode asks for."
		},
	},

	"crypto/key": {
		Message: func(args ...any) string {
			return fmt.Sprintf("%v needs a key of %v bytes, not %v", args[0], args[1], args[2])
		},
		Explanation: func(args ...any) string {
			return "The number in the function name is the key size in bits, so e.g. aes256 needs a 32-byte key."
		},
	},

	"crypto/len": {
		Message: func(args ...any) string {
			return fmt.Sprintf("len is %v but there are only %v bytes of output", args[0], args[1])
		},
		Explanation: func(args ...any) string {
			return "The optional len argument cuts the output down to size; it can't make it bigger."
		},
	},

	"internal/storage": {
		Message: func(args ...any) string {
			return fmt.Sprint(args[0])
		},
		Explanation: func(args ...any) string {
			return "The knowledge base failed underneath the function. If it said to retry, it was retried " +
				"as many times as the configuration allows."
		},
	},

	"ssh/auth": {
		Message: func(args ...any) string {
			return fmt.Sprintf("authentication as %v failed on %v: %v", emph(args[0]), args[1], args[2])
		},
		Explanation: func(args ...any) string {
			return "The server was reached but didn't accept the credentials."
		},
	},

	"ssh/credentials": {
		Message: func(args ...any) string {
			return "either password or privatekey must be given"
		},
		Explanation: func(args ...any) string {
			return "ssh_connect needs something to log in with."
		},
	},

	"ssh/exit": {
		Message: func(args ...any) string {
			return fmt.Sprintf("command %v exited with status %v", emph(args[0]), args[1])
		},
		Explanation: func(args ...any) string {
			return "The command ran but didn't succeed. Whatever it printed is used as the result regardless."
		},
	},

	"ssh/file": {
		Message: func(args ...any) string {
			return fmt.Sprintf("can't read %v: %v", emph(args[0]), args[1])
		},
		Explanation: func(args ...any) string {
			return "The file isn't there, or the login can't read it. The function returns NULL and the script carries on."
		},
	},

	"ssh/key": {
		Message: func(args ...any) string {
			return fmt.Sprintf("can't use private key: %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "The private key must be PEM-encoded and must not need a passphrase."
		},
	},

	"ssh/session": {
		Message: func(args ...any) string {
			return fmt.Sprintf("there is no ssh session %v", args[0])
		},
		Explanation: func(args ...any) string {
			return "Sessions are numbered by ssh_connect and forgotten by ssh_disconnect."
		},
	},
}

func Message(errorId string, args ...any) string {
	creator, ok := ErrorCreatorMap[errorId]
	if !ok {
		return errorId
	}
	return creator.Message(args...)
}

func Explain(errorId string, args ...any) string {
	creator, ok := ErrorCreatorMap[errorId]
	if !ok || creator.Explanation == nil {
		return "There is no further explanation of " + emph(errorId) + "."
	}
	return creator.Explanation(args...)
}

func emph(s any) string {
	if t, ok := s.(string); ok {
		s = strings.TrimSpace(t)
	}
	return fmt.Sprintf("'%v'", s)
}

func emphList(names []string) string {
	result := ""
	sep := ""
	for _, name := range names {
		result = result + sep + emph(name)
		sep = ", "
	}
	return result
}
