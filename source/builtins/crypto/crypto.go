// Package crypto has the cryptographic built-ins: AES in CBC, CTR and GCM modes,
// HMACs, and key derivation. The primitives themselves come from the Go standard
// library and golang.org/x/crypto; what's here is argument handling.
package crypto

import (
	"github.com/tim-hardcastle/scanscript/source/args"
	"github.com/tim-hardcastle/scanscript/source/builtins"
	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
)

type crypt int

const (
	ENCRYPT crypt = iota
	DECRYPT
)

func Module() builtins.Module {
	return builtins.Cascade("crypto",
		hmacModule(),
		cbcModule(),
		ctrModule(),
		gcmModule(),
		kdfModule(),
	)
}

// The named arguments that every cipher takes. key, data and iv are required and
// may be given as data or as strings.

func getKey(reg *register.Register) ([]byte, error) {
	return args.RequiredData(reg, "key")
}

func getData(reg *register.Register) ([]byte, error) {
	return args.RequiredData(reg, "data")
}

func getIv(reg *register.Register) ([]byte, error) {
	return args.RequiredData(reg, "iv")
}

// getLen is the optional output length. ok is false if it wasn't given, in which
// case no length constraint applies.
func getLen(reg *register.Register) (uint, bool, error) {
	return args.NamedUint(reg, "len", false)
}

func checkKey(function string, key []byte, size int) error {
	if len(key) != size {
		return fnerr.FromBuiltin(fnerr.Builtin("crypto/key", function, size, len(key)))
	}
	return nil
}

func checkIv(function string, iv []byte, size int) error {
	if len(iv) != size {
		return fnerr.FromBuiltin(fnerr.Builtin("crypto/iv", function, size, len(iv)))
	}
	return nil
}

func truncate(out []byte, length uint, ok bool) ([]byte, error) {
	if !ok {
		return out, nil
	}
	if length > uint(len(out)) {
		return nil, fnerr.FromBuiltin(fnerr.Builtin("crypto/len", length, len(out)))
	}
	return out[:length], nil
}
