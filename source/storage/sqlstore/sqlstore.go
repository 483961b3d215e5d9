// Package sqlstore keeps the knowledge base in an SQL database, for scanners that
// share one between several hosts.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	pkgerrors "github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database and makes sure the table is there. The name is one
// of Drivers() or the name of a driver, e.g. "sqlite".
func Open(ctx context.Context, name, dsn string) (*Store, error) {
	d, ok := lookupDialect(name)
	if !ok {
		return nil, storage.Unsupported(fmt.Errorf("no SQL driver called %q: try one of %s", name, strings.Join(Drivers(), ", ")))
	}
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, storage.Backend("", pkgerrors.Wrapf(err, "opening %s database", name))
	}
	if d.driver == "sqlite" {
		// An in-memory database is private to its connection, and a file is better
		// served by one writer anyway.
		db.SetMaxOpenConns(1)
	}
	s := &Store{db: db, dialect: d}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, s.classify("", pkgerrors.Wrapf(err, "connecting to %s database", name))
	}
	if _, err := db.ExecContext(ctx, d.createTable); err != nil {
		db.Close()
		return nil, s.classify("", pkgerrors.Wrap(err, "creating kb_items"))
	}
	return s, nil
}

// classify decides which storage errors are worth trying again. Lock timeouts,
// deadlocks and serialization failures are; so is a connection the pool has given up
// on.
func (s *Store) classify(key string, err error) *storage.Error {
	var se *storage.Error
	if errors.As(err, &se) {
		return se
	}
	if isTransient(err) {
		return storage.Retry(key, err)
	}
	return storage.Backend(key, pkgerrors.Wrap(err, s.dialect.driver))
}

func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1205 || myErr.Number == 1213
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	// SQL Server's errors are values, so look for the method rather than the type.
	var msErr interface{ SQLErrorNumber() int32 }
	if errors.As(err, &msErr) {
		return msErr.SQLErrorNumber() == 1205
	}
	return false
}

func (s *Store) ph(n int) string {
	return s.dialect.placeholder(n)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// read gives the values under key in order, and the next free sequence number.
func (s *Store) read(ctx context.Context, q queryer, key string) ([]values.Value, int, error) {
	rows, err := q.QueryContext(ctx, "SELECT seq, val FROM kb_items WHERE name = "+s.ph(1)+" ORDER BY seq", key)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := []values.Value{}
	next := 0
	for rows.Next() {
		var seq int
		var val string
		if err := rows.Scan(&seq, &val); err != nil {
			return nil, 0, err
		}
		v, err := storage.DecodeValue([]byte(val))
		if err != nil {
			return nil, 0, storage.UnexpectedData(key, err)
		}
		result = append(result, v)
		if seq >= next {
			next = seq + 1
		}
	}
	return result, next, rows.Err()
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, key string, seq int, v values.Value) error {
	b, err := storage.EncodeValue(v)
	if err != nil {
		return storage.UnexpectedData(key, err)
	}
	_, err = tx.ExecContext(ctx, "INSERT INTO kb_items (name, seq, val) VALUES ("+s.ph(1)+", "+s.ph(2)+", "+s.ph(3)+")",
		key, seq, string(b))
	return err
}

// inTx runs f in a transaction, committing only if it succeeds.
func (s *Store) inTx(ctx context.Context, key string, f func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.classify(key, err)
	}
	if err := f(tx); err != nil {
		tx.Rollback()
		return s.classify(key, err)
	}
	if err := tx.Commit(); err != nil {
		return s.classify(key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]values.Value, error) {
	vals, _, err := s.read(ctx, s.db, key)
	if err != nil {
		return nil, s.classify(key, err)
	}
	if len(vals) == 0 {
		return nil, storage.NotFound(key)
	}
	return vals, nil
}

func (s *Store) Add(ctx context.Context, key string, v values.Value) error {
	return s.inTx(ctx, key, func(tx *sql.Tx) error {
		vals, next, err := s.read(ctx, tx, key)
		if err != nil {
			return err
		}
		for _, existing := range vals {
			if values.Equal(existing, v) {
				return nil
			}
		}
		return s.insert(ctx, tx, key, next, v)
	})
}

func (s *Store) Replace(ctx context.Context, key string, v values.Value) error {
	return s.inTx(ctx, key, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kb_items WHERE name = "+s.ph(1), key); err != nil {
			return err
		}
		return s.insert(ctx, tx, key, 0, v)
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM kb_items WHERE name = "+s.ph(1), key)
	if err != nil {
		return s.classify(key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return s.classify(key, err)
	}
	if n == 0 {
		return storage.NotFound(key)
	}
	return nil
}

// Keys filters on our side of the connection, which saves escaping the prefix for
// LIKE in seven different ways.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT name FROM kb_items")
	if err != nil {
		return nil, s.classify(prefix, err)
	}
	defer rows.Close()
	result := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, s.classify(prefix, err)
		}
		if strings.HasPrefix(name, prefix) {
			result = append(result, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, s.classify(prefix, err)
	}
	sort.Strings(result)
	return result, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storage.Backend("", pkgerrors.Wrap(err, "closing database"))
	}
	return nil
}
