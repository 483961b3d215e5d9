// Package storage is the scanner's knowledge base: a multi-valued key/value store
// that scripts read and write through the kb built-ins.
//
// Every backend reports failure as a *Error. The RETRY kind is the one that matters
// to the rest of the system: it is the only thing that makes a built-in's failure
// retryable.
package storage

import (
	"context"
	"fmt"

	"github.com/tim-hardcastle/scanscript/source/values"
)

type ErrorKind int

const (
	RETRY           ErrorKind = iota // Transient: a lock, a conflict, a dropped connection.
	NOT_FOUND                        // No such key.
	UNEXPECTED_DATA                  // Something is stored that we can't decode.
	UNSUPPORTED                      // The backend can't do this.
	BACKEND                          // Anything else the backend threw at us.
)

var kindNames = map[ErrorKind]string{
	RETRY:           "retry",
	NOT_FOUND:       "not found",
	UNEXPECTED_DATA: "unexpected data",
	UNSUPPORTED:     "unsupported",
	BACKEND:         "backend",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("storage error kind %d", int(k))
}

type Error struct {
	Kind ErrorKind
	Key  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case RETRY:
		return fmt.Sprintf("storage busy, retry: %v", e.Err)
	case NOT_FOUND:
		return fmt.Sprintf("key %q not found", e.Key)
	case UNEXPECTED_DATA:
		return fmt.Sprintf("unexpected data stored under key %q: %v", e.Key, e.Err)
	case UNSUPPORTED:
		return fmt.Sprintf("unsupported storage operation: %v", e.Err)
	}
	return fmt.Sprintf("storage error: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Retry(key string, err error) *Error {
	return &Error{Kind: RETRY, Key: key, Err: err}
}

func NotFound(key string) *Error {
	return &Error{Kind: NOT_FOUND, Key: key}
}

func UnexpectedData(key string, err error) *Error {
	return &Error{Kind: UNEXPECTED_DATA, Key: key, Err: err}
}

func Unsupported(err error) *Error {
	return &Error{Kind: UNSUPPORTED, Err: err}
}

func Backend(key string, err error) *Error {
	return &Error{Kind: BACKEND, Key: key, Err: err}
}

// Store is the knowledge base. A key holds an ordered list of values: Add appends,
// Replace overwrites the list with a single value.
type Store interface {
	Get(ctx context.Context, key string) ([]values.Value, error)
	Add(ctx context.Context, key string, v values.Value) error
	Replace(ctx context.Context, key string, v values.Value) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
