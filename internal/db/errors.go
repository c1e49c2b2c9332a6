// Package db provides key/value persistence backends for small blobs such as
// the favorites list.
package db

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/surrealdb/surrealdb.go"
)

// Sentinel errors for storage operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotFound indicates no value is stored under the key.
	ErrNotFound = errors.New("key not found")

	// ErrUnknownBackend indicates the configured backend name is not supported.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrInvalidKey indicates a key that cannot be stored safely.
	ErrInvalidKey = errors.New("invalid key")

	// ErrTransactionConflict indicates a SurrealDB transaction conflict.
	// Callers should typically retry the write.
	ErrTransactionConflict = errors.New("transaction conflict")
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// checkKey rejects keys that would escape a directory or a record id.
func checkKey(key string) error {
	if !validKey.MatchString(key) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// wrapQueryError inspects a SurrealDB error and wraps it with the appropriate
// sentinel error if it's a known query error type.
func wrapQueryError(err error) error {
	if err == nil {
		return nil
	}

	var queryErr *surrealdb.QueryError
	if errors.As(err, &queryErr) {
		if strings.Contains(queryErr.Message, "Transaction conflict") {
			return fmt.Errorf("%w: %s", ErrTransactionConflict, queryErr.Message)
		}
	}

	return err
}
