// Package badgerstore keeps the knowledge base in a Badger database, so that what
// one run of the scanner learns is there for the next.
package badgerstore

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tim-hardcastle/scanscript/source/storage"
	"github.com/tim-hardcastle/scanscript/source/values"
)

// Keys are stored under this prefix so the database can be shared with other things.
const keyPrefix = "kb/"

type Store struct {
	db *badger.DB
}

// Open opens or creates the database in dir. An empty dir gives an in-memory
// database, which is what the tests use. Badger's own chatter goes to log, or
// nowhere if log is nil.
func Open(dir string, log logrus.FieldLogger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if log != nil {
		opts = opts.WithLogger(log.WithField("store", "badger"))
	}
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, storage.Backend("", pkgerrors.Wrapf(err, "opening badger database in %q", dir))
	}
	return &Store{db: db}, nil
}

func classify(key string, err error) *storage.Error {
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return storage.NotFound(key)
	case errors.Is(err, badger.ErrConflict):
		return storage.Retry(key, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return storage.Backend(key, err)
	}
	return storage.Backend(key, pkgerrors.Wrap(err, "badger"))
}

func read(txn *badger.Txn, key string) ([]values.Value, error) {
	item, err := txn.Get([]byte(keyPrefix + key))
	if err != nil {
		return nil, err
	}
	b, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	vals, err := storage.DecodeList(b)
	if err != nil {
		return nil, storage.UnexpectedData(key, err)
	}
	return vals, nil
}

func write(txn *badger.Txn, key string, vals []values.Value) error {
	b, err := storage.EncodeList(vals)
	if err != nil {
		return storage.UnexpectedData(key, err)
	}
	return txn.Set([]byte(keyPrefix+key), b)
}

// wrap passes storage errors through and classifies everything else.
func wrap(key string, err error) error {
	if err == nil {
		return nil
	}
	var se *storage.Error
	if errors.As(err, &se) {
		return se
	}
	return classify(key, err)
}

func (s *Store) Get(ctx context.Context, key string) ([]values.Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(key, err)
	}
	var result []values.Value
	err := s.db.View(func(txn *badger.Txn) error {
		vals, err := read(txn, key)
		result = vals
		return err
	})
	if err != nil {
		return nil, wrap(key, err)
	}
	return result, nil
}

func (s *Store) Add(ctx context.Context, key string, v values.Value) error {
	if err := ctx.Err(); err != nil {
		return classify(key, err)
	}
	return wrap(key, s.db.Update(func(txn *badger.Txn) error {
		vals, err := read(txn, key)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		for _, existing := range vals {
			if values.Equal(existing, v) {
				return nil
			}
		}
		return write(txn, key, append(vals, v))
	}))
}

func (s *Store) Replace(ctx context.Context, key string, v values.Value) error {
	if err := ctx.Err(); err != nil {
		return classify(key, err)
	}
	return wrap(key, s.db.Update(func(txn *badger.Txn) error {
		return write(txn, key, []values.Value{v})
	}))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return classify(key, err)
	}
	return wrap(key, s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(keyPrefix + key)); err != nil {
			return err
		}
		return txn.Delete([]byte(keyPrefix + key))
	}))
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(prefix, err)
	}
	result := []string{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		p := []byte(keyPrefix + prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			result = append(result, string(it.Item().KeyCopy(nil)[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, wrap(prefix, err)
	}
	return result, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storage.Backend("", pkgerrors.Wrap(err, "closing badger database"))
	}
	return nil
}
