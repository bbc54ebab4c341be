package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/timshannon/badgerhold/v4"
)

type mintRepositoryImpl struct {
	store *badgerhold.Store
}

// NewMintRepositoryImpl returns a new badger mint repository.
func NewMintRepositoryImpl(store *badgerhold.Store) domain.MintRepository {
	return &mintRepositoryImpl{store}
}

func (r *mintRepositoryImpl) AddMint(ctx context.Context, mint *domain.Mint) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, mint.Address.String(), *mint)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAccountAlreadyInUse
		}
		return err
	})
}

func (r *mintRepositoryImpl) GetMint(
	ctx context.Context, address identity.Identity,
) (*domain.Mint, error) {
	var mint *domain.Mint
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		m, err := r.getMint(tx, address)
		mint = m
		return err
	}); err != nil {
		return nil, err
	}
	return mint, nil
}

func (r *mintRepositoryImpl) UpdateMint(
	ctx context.Context,
	address identity.Identity,
	updateFn func(m *domain.Mint) (*domain.Mint, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		mint, err := r.getMint(tx, address)
		if err != nil {
			return err
		}

		updatedMint, err := updateFn(mint)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, address.String(), *updatedMint)
	})
}

func (r *mintRepositoryImpl) getMint(
	tx *badger.Txn, address identity.Identity,
) (*domain.Mint, error) {
	var mint domain.Mint
	if err := r.store.TxGet(tx, address.String(), &mint); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrMintNotFound
		}
		return nil, err
	}
	return &mint, nil
}
