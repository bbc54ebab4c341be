package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/timshannon/badgerhold/v4"
)

type escrowRepositoryImpl struct {
	store *badgerhold.Store
}

// NewEscrowRepositoryImpl returns a new badger escrow repository.
func NewEscrowRepositoryImpl(store *badgerhold.Store) domain.EscrowRepository {
	return &escrowRepositoryImpl{store}
}

func (r *escrowRepositoryImpl) AddEscrow(
	ctx context.Context, escrow *domain.Escrow,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, escrow.Address.String(), *escrow)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAccountAlreadyInUse
		}
		return err
	})
}

func (r *escrowRepositoryImpl) GetEscrow(
	ctx context.Context, address identity.Identity,
) (*domain.Escrow, error) {
	var escrow domain.Escrow
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, address.String(), &escrow)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrEscrowNotFound
		}
		return nil, err
	}
	return &escrow, nil
}

func (r *escrowRepositoryImpl) GetEscrowsByMaker(
	ctx context.Context, maker identity.Identity,
) ([]domain.Escrow, error) {
	escrows, err := r.GetAllEscrows(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]domain.Escrow, 0, len(escrows))
	for _, e := range escrows {
		if e.Maker == maker {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

func (r *escrowRepositoryImpl) GetAllEscrows(
	ctx context.Context,
) ([]domain.Escrow, error) {
	escrows := make([]domain.Escrow, 0)
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &escrows, nil)
	}); err != nil {
		return nil, err
	}
	return escrows, nil
}

func (r *escrowRepositoryImpl) DeleteEscrow(
	ctx context.Context, address identity.Identity,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxDelete(tx, address.String(), domain.Escrow{})
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrEscrowNotFound
		}
		return err
	})
}
