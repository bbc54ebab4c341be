package inmemory

import (
	"context"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"
)

// table is the in-memory storage shared by all repositories. Writes made
// within a transaction go to a private copy of the rows, that replaces the
// root ones only on commit.
type table[K comparable, V any] struct {
	rows map[K]V
	lock *sync.RWMutex
}

func newTable[K comparable, V any]() *table[K, V] {
	return &table[K, V]{
		rows: map[K]V{},
		lock: &sync.RWMutex{},
	}
}

// Begin returns a new tableTx
func (t *table[K, V]) Begin() (uow.Tx, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	tx := &tableTx[K, V]{
		root: t,
		rows: make(map[K]V, len(t.rows)),
	}
	// copy the current state of the repo into the transaction
	for k, v := range t.rows {
		tx.rows[k] = v
	}
	return tx, nil
}

func (t *table[K, V]) storageByContext(ctx context.Context) map[K]V {
	if tx, ok := ctx.Value(t).(*tableTx[K, V]); ok {
		return tx.rows
	}
	return t.rows
}

func (t *table[K, V]) get(ctx context.Context, key K) (V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	v, ok := t.storageByContext(ctx)[key]
	return v, ok
}

func (t *table[K, V]) insert(ctx context.Context, key K, value V) error {
	if isReadOnly(ctx) {
		return ErrReadOnlyTx
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	rows := t.storageByContext(ctx)
	if _, ok := rows[key]; ok {
		return errKeyExists
	}
	rows[key] = value
	return nil
}

func (t *table[K, V]) upsert(ctx context.Context, key K, value V) error {
	if isReadOnly(ctx) {
		return ErrReadOnlyTx
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	t.storageByContext(ctx)[key] = value
	return nil
}

func (t *table[K, V]) delete(ctx context.Context, key K) error {
	if isReadOnly(ctx) {
		return ErrReadOnlyTx
	}
	t.lock.Lock()
	defer t.lock.Unlock()

	rows := t.storageByContext(ctx)
	if _, ok := rows[key]; !ok {
		return errKeyNotFound
	}
	delete(rows, key)
	return nil
}

func (t *table[K, V]) filter(ctx context.Context, fn func(V) bool) []V {
	t.lock.RLock()
	defer t.lock.RUnlock()

	values := make([]V, 0)
	for _, v := range t.storageByContext(ctx) {
		if fn == nil || fn(v) {
			values = append(values, v)
		}
	}
	return values
}

// tableTx allows to make transactional read/write operation on the in-memory
// repository
type tableTx[K comparable, V any] struct {
	root *table[K, V]
	rows map[K]V
}

// Commit replaces the rows of the root with the state of the transaction.
func (tx *tableTx[K, V]) Commit() error {
	tx.root.lock.Lock()
	defer tx.root.lock.Unlock()

	tx.root.rows = tx.rows
	return nil
}

// Rollback drops the state of the transaction.
func (tx *tableTx[K, V]) Rollback() error {
	tx.rows = nil
	return nil
}
