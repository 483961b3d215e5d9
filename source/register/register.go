// Package register holds the arguments of a single call to a built-in function.
//
// A Register is built by the call site from already-evaluated expressions, handed to
// the callable, and dropped when the call returns. Nothing writes to it after New.
package register

import (
	"sort"

	"github.com/tim-hardcastle/scanscript/source/values"
)

type ContextKind int

const (
	VALUE ContextKind = iota
	FUNCTION
)

// A ContextType is what a name can be bound to: either a value, or a reference to a
// function by name.
type ContextType struct {
	Kind     ContextKind
	Value    values.Value
	Function string
}

func Value(v values.Value) ContextType {
	return ContextType{Kind: VALUE, Value: v}
}

func Function(name string) ContextType {
	return ContextType{Kind: FUNCTION, Function: name}
}

func (c ContextType) IsFunction() bool {
	return c.Kind == FUNCTION
}

func Describe(c ContextType) string {
	if c.Kind == FUNCTION {
		return "Function(" + c.Function + ")"
	}
	return "Value(" + values.Describe(c.Value) + ")"
}

type Register struct {
	positional []values.Value
	named      map[string]ContextType
}

// New copies what it's given, so the caller can go on using its own slice and map.
func New(positional []values.Value, named map[string]ContextType) *Register {
	reg := &Register{
		positional: make([]values.Value, len(positional)),
		named:      make(map[string]ContextType, len(named)),
	}
	copy(reg.positional, positional)
	for k, v := range named {
		reg.named[k] = v
	}
	return reg
}

func Empty() *Register {
	return New(nil, nil)
}

func (reg *Register) Named(key string) (ContextType, bool) {
	c, ok := reg.named[key]
	return c, ok
}

func (reg *Register) Positional() []values.Value {
	result := make([]values.Value, len(reg.positional))
	copy(result, reg.positional)
	return result
}

func (reg *Register) PositionalAt(i int) (values.Value, bool) {
	if i < 0 || i >= len(reg.positional) {
		return values.Value{}, false
	}
	return reg.positional[i], true
}

func (reg *Register) PositionalLen() int {
	return len(reg.positional)
}

func (reg *Register) NamedKeys() []string {
	keys := make([]string, 0, len(reg.named))
	for k := range reg.named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
