package builtins

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/register"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func returning(v values.Value) Function {
	return func(ctx context.Context, reg *register.Register) (values.Value, error) {
		return v, nil
	}
}

func moduleA() Module {
	return NewTable("A", map[string]Function{"foo": returning(values.String("A")), "bar": returning(values.Int(1))})
}

func moduleB() Module {
	return NewTable("B", map[string]Function{"foo": returning(values.String("B")), "baz": returning(values.Int(2))})
}

func TestFirstModuleWins(t *testing.T) {
	log, hook := test.NewNullLogger()
	r := New(log, moduleA(), moduleB())
	f, ok := r.Lookup("foo")
	require.True(t, ok)
	v, err := f(context.Background(), register.Empty())
	require.NoError(t, err)
	assert.Equal(t, values.String("A"), v)

	owner, ok := r.Module("foo")
	require.True(t, ok)
	assert.Equal(t, "A", owner)
	owner, _ = r.Module("baz")
	assert.Equal(t, "B", owner)

	require.Len(t, r.Collisions(), 1)
	assert.Equal(t, Collision{Function: "foo", Winner: "A", Shadowed: []string{"B"}}, r.Collisions()[0])
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "foo", hook.LastEntry().Data["function"])
}

func TestOrderMatters(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := New(log, moduleB(), moduleA())
	f, _ := r.Lookup("foo")
	v, _ := f(context.Background(), register.Empty())
	assert.Equal(t, values.String("B"), v)
}

func TestStrict(t *testing.T) {
	_, err := NewStrict(moduleA(), moduleB())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function 'foo' is defined in A and also in B")

	r, err := NewStrict(moduleA(), NewTable("C", map[string]Function{"qux": returning(values.NULL_VALUE)}))
	require.NoError(t, err)
	assert.Equal(t, []string{"bar", "foo", "qux"}, r.Names())
}

func TestNestedCascade(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := New(log, Cascade("both", moduleA(), moduleB()))
	f, ok := r.Lookup("baz")
	require.True(t, ok)
	v, _ := f(context.Background(), register.Empty())
	assert.Equal(t, values.Int(2), v)
	_, ok = r.Lookup("nothing")
	assert.False(t, ok)
	assert.Empty(t, r.Collisions())
}
