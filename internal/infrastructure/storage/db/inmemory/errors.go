package inmemory

import (
	"context"
	"errors"
)

var (
	// ErrReadOnlyTx is returned when writing within a read-only transaction.
	ErrReadOnlyTx = errors.New("write operation within a read-only transaction")

	errKeyExists   = errors.New("key already exists")
	errKeyNotFound = errors.New("key not found")
)

type readOnlyKey struct{}

func isReadOnly(ctx context.Context) bool {
	readOnly, _ := ctx.Value(readOnlyKey{}).(bool)
	return readOnly
}
