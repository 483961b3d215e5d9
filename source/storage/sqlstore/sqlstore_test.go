package sqlstore

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

func openStore(t *testing.T) *Store {
	s, err := Open(context.Background(), "SQLite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func kindOf(t *testing.T, err error) storage.ErrorKind {
	var se *storage.Error
	require.True(t, errors.As(err, &se), "expected a storage error, got %v", err)
	return se.Kind
}

func TestAddGetKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Add(ctx, "SSH/banner", values.String("OpenSSH_9.6")))
	require.NoError(t, s.Add(ctx, "SSH/banner", values.Data([]byte{0xde, 0xad})))
	require.NoError(t, s.Add(ctx, "SSH/banner", values.String("OpenSSH_9.6")))
	vals, err := s.Get(ctx, "SSH/banner")
	require.NoError(t, err)
	require.Len(t, vals, 2)
	assert.True(t, values.Equal(values.String("OpenSSH_9.6"), vals[0]))
	assert.True(t, values.Equal(values.Data([]byte{0xde, 0xad}), vals[1]))
}

func TestReplaceDeleteKeys(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.Add(ctx, "Ports/tcp/22", values.TRUE))
	require.NoError(t, s.Add(ctx, "Ports/tcp/443", values.TRUE))
	require.NoError(t, s.Add(ctx, "Host/OS", values.String("Linux")))
	require.NoError(t, s.Replace(ctx, "Host/OS", values.Array(values.String("Linux"), values.Int(6))))
	vals, err := s.Get(ctx, "Host/OS")
	require.NoError(t, err)
	require.Len(t, vals, 1)
	assert.Equal(t, values.ARRAY, vals[0].T)

	keys, err := s.Keys(ctx, "Ports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ports/tcp/22", "Ports/tcp/443"}, keys)

	require.NoError(t, s.Delete(ctx, "Ports/tcp/22"))
	assert.Equal(t, storage.NOT_FOUND, kindOf(t, s.Delete(ctx, "Ports/tcp/22")))
	_, err = s.Get(ctx, "Ports/tcp/22")
	assert.Equal(t, storage.NOT_FOUND, kindOf(t, err))
}

func TestUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "dBase", "")
	assert.Equal(t, storage.UNSUPPORTED, kindOf(t, err))
}

func TestDriverNamesResolve(t *testing.T) {
	for _, name := range Drivers() {
		d, ok := lookupDialect(name)
		require.True(t, ok, name)
		_, ok = lookupDialect(d.driver)
		assert.True(t, ok, d.driver)
	}
}

func TestTransientErrors(t *testing.T) {
	s := &Store{dialect: dialects["SQLite"]}
	assert.Equal(t, storage.RETRY, s.classify("k", driver.ErrBadConn).Kind)
	assert.Equal(t, storage.RETRY, s.classify("k", &mysql.MySQLError{Number: 1213}).Kind)
	assert.Equal(t, storage.RETRY, s.classify("k", &pq.Error{Code: "40P01"}).Kind)
	assert.Equal(t, storage.BACKEND, s.classify("k", &pq.Error{Code: "23505"}).Kind)
	assert.Equal(t, storage.RETRY, s.classify("k", &pgconn.PgError{Code: "40001"}).Kind)
	assert.Equal(t, storage.BACKEND, s.classify("k", errors.New("syntax error")).Kind)
	assert.Equal(t, storage.NOT_FOUND, s.classify("k", storage.NotFound("k")).Kind)
}
