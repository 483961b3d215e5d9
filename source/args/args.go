// Package args pulls typed arguments out of a Register for a built-in function.
//
// A getter either gives back what the function asked for or an error the function
// can return as it stands. With required set, a nil error means the value is there;
// callers shouldn't check again.
package args

import (
	"bytes"
	"math"
	"strconv"

	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/set"
	"github.com/tim-hardcastle/scanscript/source/values"
)

type Kind int

const (
	DATA    Kind = iota // Data, or a string as its UTF-8 bytes.
	NUMBER              // An int.
	TEXT                // A string.
	BOOLEAN             // A bool.
	ANY                 // Any value at all, but not a function.
)

// These go into error messages and are matched on by tests, so don't reword them.
func (k Kind) String() string {
	switch k {
	case DATA:
		return "a String or Data Value"
	case NUMBER:
		return "a Number Value"
	case TEXT:
		return "a String Value"
	case BOOLEAN:
		return "a Boolean Value"
	}
	return "a Value"
}

// Named is the general getter. If the key is absent and not required, the second
// return value is false and there's no error.
func Named(reg *register.Register, key string, required bool, kind Kind) (values.Value, bool, error) {
	c, ok := reg.Named(key)
	if !ok {
		if required {
			return values.Value{}, false, fnerr.MissingArgument(key)
		}
		return values.Value{}, false, nil
	}
	if c.IsFunction() {
		return values.Value{}, false, fnerr.WrongArgument(key, kind.String(), register.Describe(c))
	}
	v, ok := coerce(c.Value, kind)
	if !ok {
		return values.Value{}, false, fnerr.WrongArgument(key, kind.String(), register.Describe(c))
	}
	return v, true, nil
}

func coerce(v values.Value, kind Kind) (values.Value, bool) {
	switch kind {
	case DATA:
		switch v.T {
		case values.DATA:
			// A copy, so the function can't write through to the caller's variable.
			return values.Data(bytes.Clone(v.V.([]byte))), true
		case values.STRING:
			return values.Data([]byte(v.V.(string))), true
		}
	case NUMBER:
		if v.T == values.INT {
			return v, true
		}
	case TEXT:
		if v.T == values.STRING {
			return v, true
		}
	case BOOLEAN:
		if v.T == values.BOOL {
			return v, true
		}
	case ANY:
		return v, true
	}
	return values.Value{}, false
}

func NamedData(reg *register.Register, key string, required bool) ([]byte, bool, error) {
	v, ok, err := Named(reg, key, required, DATA)
	if !ok || err != nil {
		return nil, ok, err
	}
	return v.V.([]byte), true, nil
}

func NamedInt(reg *register.Register, key string, required bool) (int64, bool, error) {
	v, ok, err := Named(reg, key, required, NUMBER)
	if !ok || err != nil {
		return 0, ok, err
	}
	return v.V.(int64), true, nil
}

func NamedString(reg *register.Register, key string, required bool) (string, bool, error) {
	v, ok, err := Named(reg, key, required, TEXT)
	if !ok || err != nil {
		return "", ok, err
	}
	return v.V.(string), true, nil
}

func NamedBool(reg *register.Register, key string, required bool) (bool, bool, error) {
	v, ok, err := Named(reg, key, required, BOOLEAN)
	if !ok || err != nil {
		return false, ok, err
	}
	return v.V.(bool), true, nil
}

// NamedUint narrows the script's 64-bit signed int to a uint. A number that won't fit
// is a builtin error, not an argument error: see fnerr.OutOfRange.
func NamedUint(reg *register.Register, key string, required bool) (uint, bool, error) {
	i, ok, err := NamedInt(reg, key, required)
	if !ok || err != nil {
		return 0, ok, err
	}
	u, err := ToUint(i)
	if err != nil {
		return 0, false, err
	}
	return u, true, nil
}

func ToUint(i int64) (uint, error) {
	if i < 0 || uint64(i) > uint64(math.MaxUint) {
		return 0, fnerr.FromBuiltin(fnerr.OutOfRange(uint(0), uint(math.MaxUint), i))
	}
	return uint(i), nil
}

// ToInt narrows to the platform int, for things like ports and timeouts.
func ToInt(i int64) (int, error) {
	if i < math.MinInt || i > math.MaxInt {
		return 0, fnerr.FromBuiltin(fnerr.OutOfRange(math.MinInt, math.MaxInt, i))
	}
	return int(i), nil
}

func RequiredData(reg *register.Register, key string) ([]byte, error) {
	b, _, err := NamedData(reg, key, true)
	return b, err
}

func RequiredInt(reg *register.Register, key string) (int64, error) {
	i, _, err := NamedInt(reg, key, true)
	return i, err
}

func RequiredString(reg *register.Register, key string) (string, error) {
	s, _, err := NamedString(reg, key, true)
	return s, err
}

func RequiredValue(reg *register.Register, key string) (values.Value, error) {
	v, _, err := Named(reg, key, true, ANY)
	return v, err
}

// Positionals checks that there are exactly as many unnamed arguments as expected
// and hands them back.
func Positionals(reg *register.Register, expected int) ([]values.Value, error) {
	got := reg.PositionalLen()
	switch {
	case got < expected:
		return nil, fnerr.FromArgument(fnerr.MissingPositionals(expected, got))
	case got > expected:
		return nil, fnerr.FromArgument(fnerr.TrailingPositionals(expected, got))
	}
	return reg.Positional(), nil
}

// AtLeast is Positionals for functions that take a variable number of arguments.
func AtLeast(reg *register.Register, expected int) ([]values.Value, error) {
	got := reg.PositionalLen()
	if got < expected {
		return nil, fnerr.FromArgument(fnerr.MissingPositionals(expected, got))
	}
	return reg.Positional(), nil
}

func Positional(reg *register.Register, i int, kind Kind) (values.Value, error) {
	v, ok := reg.PositionalAt(i)
	if !ok {
		return values.Value{}, fnerr.FromArgument(fnerr.MissingPositionals(i+1, reg.PositionalLen()))
	}
	result, ok := coerce(v, kind)
	if !ok {
		return values.Value{}, fnerr.WrongUnnamedArgument(kind.String(), "argument "+strconv.Itoa(i+1)+" is "+values.Describe(v))
	}
	return result, nil
}

func PositionalData(reg *register.Register, i int) ([]byte, error) {
	v, err := Positional(reg, i, DATA)
	if err != nil {
		return nil, err
	}
	return v.V.([]byte), nil
}

func PositionalInt(reg *register.Register, i int) (int64, error) {
	v, err := Positional(reg, i, NUMBER)
	if err != nil {
		return 0, err
	}
	return v.V.(int64), nil
}

func PositionalString(reg *register.Register, i int) (string, error) {
	v, err := Positional(reg, i, TEXT)
	if err != nil {
		return "", err
	}
	return v.V.(string), nil
}

// Only rejects any named argument not in the allowed list. The keys are looked at in
// sorted order so that the same call always gives the same error.
func Only(reg *register.Register, allowed ...string) error {
	ok := set.MakeFromSlice(allowed)
	for _, key := range reg.NamedKeys() {
		if !ok.Contains(key) {
			return fnerr.FromArgument(fnerr.UnexpectedArgument(key))
		}
	}
	return nil
}
