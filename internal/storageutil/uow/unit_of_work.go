package uow

import (
	"context"
	"fmt"
)

// Transactional begins a transaction
type Transactional interface {
	Begin() (Tx, error)
}

// Tx represents an all-or-nothing transaction, by committing or rolling back
// a set of read/write operations
type Tx interface {
	Commit() error
	Rollback() error
}

// ContextProvider returns the key under which the transaction of a
// Transactional is stored in the context. Transactionals sharing the same
// key share the same transaction.
type ContextProvider interface {
	ContextKey() interface{}
}

// UnitOfWork allows to run multiple transactions as one
type UnitOfWork struct {
	repositories []Transactional
}

// NewUnitOfWork returns a new UnitOfWork with the given Transaction interfaces
func NewUnitOfWork(repositories ...Transactional) *UnitOfWork {
	return &UnitOfWork{repositories}
}

// TxFromContext returns the transaction begun for the given key, if any.
func TxFromContext(ctx context.Context, key interface{}) (Tx, bool) {
	tx, ok := ctx.Value(key).(Tx)
	return tx, ok
}

// Run executes the given function over the current UnitOfWork. The given
// function is likely making read/write operations to different repositories in
// a transactional way. Run begins a transaction for every repository and
// passes them to fn through its context. It makes sure that all the
// transactions are either all committed to the relative storage or rolled
// back if any error occur, or if fn panics.
func (u *UnitOfWork) Run(
	ctx context.Context, fn func(ctx context.Context) error,
) (err error) {
	txs := make([]Tx, 0, len(u.repositories))

	defer func() {
		if err == nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Rollback(); _err != nil {
				err = fmt.Errorf("%s, rollback failed: %w", err, _err)
				return
			}
		}
	}()

	defer func() {
		if err != nil {
			return
		}
		for _, tx := range txs {
			if _err := tx.Commit(); _err != nil {
				// Previously committed txs are rolled back by the deferred func
				// above, if the storage supports it.
				err = _err
				return
			}
		}
	}()

	defer func() {
		// panicking returns an error that causes txs rollback
		if rec := recover(); rec != nil {
			err = fmt.Errorf("recovered: %v", rec)
		}
	}()

	begun := make(map[interface{}]struct{}, len(u.repositories))
	for _, r := range u.repositories {
		var key interface{} = r
		if cp, ok := r.(ContextProvider); ok {
			key = cp.ContextKey()
		}
		// make sure that the same context providers share the same tx
		if _, ok := begun[key]; ok {
			continue
		}

		tx, err := r.Begin()
		if err != nil {
			return err
		}
		begun[key] = struct{}{}
		ctx = context.WithValue(ctx, key, tx)
		txs = append(txs, tx)
	}

	return fn(ctx)
}
