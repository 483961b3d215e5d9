package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{NULL_VALUE, "Null"},
		{Int(-5), "Number(-5)"},
		{TRUE, "Boolean(true)"},
		{String("a\"b"), `String("a\"b")`},
		{Data([]byte{1, 2, 3}), "Data([1, 2, 3])"},
		{Array(Int(1), String("x")), `Array([Number(1), String("x")])`},
		{Value{}, "Undefined"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.v))
	}
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "NULL", Literal(NULL_VALUE))
	assert.Equal(t, "42", Literal(Int(42)))
	assert.Equal(t, `"abc"`, Literal(String("abc")))
	assert.Equal(t, "0x0102", Literal(Data([]byte{1, 2})))
	assert.Equal(t, `[1, [false]]`, Literal(Array(Int(1), Array(FALSE))))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Data([]byte("a")), Data([]byte("a"))))
	assert.False(t, Equal(Data([]byte("a")), String("a")))
	assert.True(t, Equal(Array(Int(1), NULL_VALUE), Array(Int(1), NULL_VALUE)))
	assert.False(t, Equal(Array(Int(1)), Array(Int(1), Int(2))))
}

func TestArraysArePersistent(t *testing.T) {
	a := Array(Int(1))
	elems := Elements(a)
	elems[0] = Int(2)
	assert.Equal(t, "[1]", Literal(a))
	assert.Nil(t, Elements(Int(1)))
}
