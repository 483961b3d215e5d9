package values

import (
	"encoding/hex"
	"strconv"
	"strings"

	"src.elv.sh/pkg/persistent/vector"
)

type ValueType uint32

const (
	UNDEFINED_VALUE ValueType = iota // For debugging purposes, it is useful to have the zero value something it should never actually be.
	NULL
	INT
	BOOL
	STRING
	DATA
	ARRAY
)

// A Value is what a script sees. The V field holds, according to T:
// NULL: nil, INT: int64, BOOL: bool, STRING: string, DATA: []byte, ARRAY: vector.Vector
// of Values.
type Value struct {
	T ValueType
	V any
}

var (
	FALSE      = Value{T: BOOL, V: false}
	TRUE       = Value{T: BOOL, V: true}
	NULL_VALUE = Value{T: NULL}
)

func Int(i int64) Value {
	return Value{INT, i}
}

func Bool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

func String(s string) Value {
	return Value{STRING, s}
}

func Data(b []byte) Value {
	return Value{DATA, b}
}

func Array(vals ...Value) Value {
	vec := vector.Empty
	for _, v := range vals {
		vec = vec.Conj(v)
	}
	return Value{ARRAY, vec}
}

// Elements unpacks an ARRAY. It returns nil for anything else.
func Elements(v Value) []Value {
	if v.T != ARRAY {
		return nil
	}
	vec := v.V.(vector.Vector)
	result := make([]Value, 0, vec.Len())
	for it := vec.Iterator(); it.HasElem(); it.Next() {
		result = append(result, it.Elem().(Value))
	}
	return result
}

var typeNames = map[ValueType]string{
	UNDEFINED_VALUE: "undefined",
	NULL:            "null",
	INT:             "int",
	BOOL:            "bool",
	STRING:          "string",
	DATA:            "data",
	ARRAY:           "array",
}

func TypeName(t ValueType) string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown type " + strconv.Itoa(int(t))
}

// Describe gives the unambiguous debugging form of a value that goes into argument
// error messages, e.g. "Number(5)" or "String(\"foo\")".
func Describe(v Value) string {
	switch v.T {
	case NULL:
		return "Null"
	case INT:
		return "Number(" + strconv.FormatInt(v.V.(int64), 10) + ")"
	case BOOL:
		return "Boolean(" + strconv.FormatBool(v.V.(bool)) + ")"
	case STRING:
		return "String(" + strconv.Quote(v.V.(string)) + ")"
	case DATA:
		b := v.V.([]byte)
		parts := make([]string, len(b))
		for i, by := range b {
			parts[i] = strconv.Itoa(int(by))
		}
		return "Data([" + strings.Join(parts, ", ") + "])"
	case ARRAY:
		elems := Elements(v)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = Describe(e)
		}
		return "Array([" + strings.Join(parts, ", ") + "])"
	}
	return "Undefined"
}

// Literal is how the REPL shows a value, and is also how you'd write it in a call line.
func Literal(v Value) string {
	switch v.T {
	case NULL:
		return "NULL"
	case INT:
		return strconv.FormatInt(v.V.(int64), 10)
	case BOOL:
		return strconv.FormatBool(v.V.(bool))
	case STRING:
		return strconv.Quote(v.V.(string))
	case DATA:
		return "0x" + hex.EncodeToString(v.V.([]byte))
	case ARRAY:
		elems := Elements(v)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = Literal(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "UNDEFINED"
}

func Equal(v, w Value) bool {
	if v.T != w.T {
		return false
	}
	switch v.T {
	case NULL, UNDEFINED_VALUE:
		return true
	case INT:
		return v.V.(int64) == w.V.(int64)
	case BOOL:
		return v.V.(bool) == w.V.(bool)
	case STRING:
		return v.V.(string) == w.V.(string)
	case DATA:
		return string(v.V.([]byte)) == string(w.V.([]byte))
	case ARRAY:
		vElems, wElems := Elements(v), Elements(w)
		if len(vElems) != len(wElems) {
			return false
		}
		for i := range vElems {
			if !Equal(vElems[i], wElems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
