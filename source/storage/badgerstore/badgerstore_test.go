package badgerstore

import (
	"context"
	"errors"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func openStore(t *testing.T) *Store {
	s, err := Open("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Add(ctx, "Ports/tcp/22", values.Int(1)))
	require.NoError(t, s.Add(ctx, "Ports/tcp/22", values.String("ssh")))
	require.NoError(t, s.Add(ctx, "Ports/tcp/22", values.Int(1)))
	vals, err := s.Get(ctx, "Ports/tcp/22")
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.True(t, values.Equal(values.Int(1), vals[0]))
	assert.True(t, values.Equal(values.String("ssh"), vals[1]))
}

func TestReplaceAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Add(ctx, "a", values.Int(1)))
	require.NoError(t, s.Replace(ctx, "a", values.Data([]byte{1, 2})))
	vals, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.True(t, values.Equal(values.Data([]byte{1, 2}), vals[0]))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	var se *storage.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, storage.NOT_FOUND, se.Kind)
}

func TestDeleteMissing(t *testing.T) {
	s := openStore(t)
	err := s.Delete(context.Background(), "nothing")
	var se *storage.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, storage.NOT_FOUND, se.Kind)
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, k := range []string{"Host/OS", "Ports/tcp/80", "Ports/tcp/22"} {
		require.NoError(t, s.Add(ctx, k, values.TRUE))
	}
	keys, err := s.Keys(ctx, "Ports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ports/tcp/22", "Ports/tcp/80"}, keys)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, storage.RETRY, classify("k", badger.ErrConflict).Kind)
	assert.Equal(t, storage.NOT_FOUND, classify("k", badger.ErrKeyNotFound).Kind)
	assert.Equal(t, storage.BACKEND, classify("k", errors.New("disk on fire")).Kind)
}

func TestCancelledContext(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Add(ctx, "a", values.Int(1))
	var se *storage.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, storage.BACKEND, se.Kind)
}
