package args

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/fnerr"
	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func named(kv map[string]values.Value) *register.Register {
	m := map[string]register.ContextType{}
	for k, v := range kv {
		m[k] = register.Value(v)
	}
	return register.New(nil, m)
}

func TestMissingRequired(t *testing.T) {
	for _, key := range []string{"key", "data", "iv", "password"} {
		_, _, err := Named(named(nil), key, true, DATA)
		require.Error(t, err)
		argErr, ok := fnerr.From(err).Kind().(*fnerr.ArgumentError)
		require.True(t, ok)
		assert.Equal(t, []string{key}, argErr.MissingNames())
	}
}

func TestMissingOptional(t *testing.T) {
	v, ok, err := Named(named(nil), "len", false, NUMBER)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, values.Value{}, v)
}

func TestWrongKind(t *testing.T) {
	tests := []struct {
		kind Kind
		v    values.Value
		want string
	}{
		{DATA, values.Int(5), "Expected k to be a String or Data Value but it is Value(Number(5))"},
		{NUMBER, values.String("5"), `Expected k to be a Number Value but it is Value(String("5"))`},
		{TEXT, values.Data([]byte{1, 2}), "Expected k to be a String Value but it is Value(Data([1, 2]))"},
		{BOOLEAN, values.NULL_VALUE, "Expected k to be a Boolean Value but it is Value(Null)"},
	}
	for _, tt := range tests {
		_, _, err := Named(named(map[string]values.Value{"k": tt.v}), "k", true, tt.kind)
		require.Error(t, err)
		assert.Equal(t, "Wrong arguments given: "+tt.want, err.Error())
	}
}

func TestFunctionWhereValueWanted(t *testing.T) {
	reg := register.New(nil, map[string]register.ContextType{"k": register.Function("strlen")})
	_, _, err := Named(reg, "k", true, ANY)
	require.Error(t, err)
	assert.Equal(t, "Wrong arguments given: Expected k to be a Value but it is Function(strlen)", err.Error())
}

func TestTextIsData(t *testing.T) {
	for _, s := range []string{"", "abc", "héllo", "日本", "\x00\xff"} {
		b, err := RequiredData(named(map[string]values.Value{"data": values.String(s)}), "data")
		require.NoError(t, err)
		assert.Equal(t, []byte(s), b)
	}
}

func TestNamedUint(t *testing.T) {
	u, ok, err := NamedUint(named(map[string]values.Value{"len": values.Int(16)}), "len", false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(16), u)

	for _, bad := range []int64{-1, math.MinInt64} {
		_, _, err := NamedUint(named(map[string]values.Value{"len": values.Int(bad)}), "len", false)
		require.Error(t, err)
		fe := fnerr.From(err)
		_, isBuiltin := fe.Kind().(*fnerr.BuiltinError)
		assert.True(t, isBuiltin)
		assert.Equal(t, "System only supports numbers between 0 and "+strconv.FormatUint(uint64(math.MaxUint), 10)+
			" but was "+strconv.FormatInt(bad, 10), err.Error())
	}
}

func TestPositionals(t *testing.T) {
	reg := register.New([]values.Value{values.Int(1), values.String("a")}, nil)
	_, err := Positionals(reg, 3)
	assert.Equal(t, "Missing positional arguments. Expected 3 but got 2.", err.Error())
	_, err = Positionals(reg, 1)
	assert.Equal(t, "Trailing positional arguments. Expected 1 but got 2.", err.Error())
	vals, err := AtLeast(reg, 1)
	require.NoError(t, err)
	assert.Len(t, vals, 2)

	i, err := PositionalInt(reg, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)
	b, err := PositionalData(reg, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), b)
	_, err = PositionalString(reg, 0)
	assert.Equal(t, "Wrong arguments given: Expected a String Value but argument 1 is Number(1)", err.Error())
}

func TestOnly(t *testing.T) {
	reg := named(map[string]values.Value{"key": values.Int(1), "zzz": values.Int(1), "aaa": values.Int(1)})
	err := Only(reg, "key")
	require.Error(t, err)
	assert.Equal(t, "Unknown named argument given: aaa", err.Error())
	assert.NoError(t, Only(reg, "key", "zzz", "aaa"))
}

func TestDataIsCopied(t *testing.T) {
	original := []byte{1, 2, 3}
	reg := register.New([]values.Value{values.Data(original)}, map[string]register.ContextType{
		"key": register.Value(values.Data(original)),
	})
	b, err := RequiredData(reg, "key")
	require.NoError(t, err)
	b[0] = 9
	p, err := PositionalData(reg, 0)
	require.NoError(t, err)
	p[1] = 9
	assert.Equal(t, []byte{1, 2, 3}, original)
	again, err := RequiredData(reg, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}
