package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/timshannon/badgerhold/v4"
)

type tokenAccountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTokenAccountRepositoryImpl returns a new badger token account
// repository.
func NewTokenAccountRepositoryImpl(
	store *badgerhold.Store,
) domain.TokenAccountRepository {
	return &tokenAccountRepositoryImpl{store}
}

func (r *tokenAccountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, account.Address.String(), *account)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAccountAlreadyInUse
		}
		return err
	})
}

func (r *tokenAccountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address identity.Identity,
) (*domain.TokenAccount, error) {
	var account *domain.TokenAccount
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		a, err := r.getTokenAccount(tx, address)
		account = a
		return err
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *tokenAccountRepositoryImpl) GetTokenAccountsByOwner(
	ctx context.Context, owner identity.Identity,
) ([]domain.TokenAccount, error) {
	accounts := make([]domain.TokenAccount, 0)
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &accounts, nil)
	}); err != nil {
		return nil, err
	}

	filtered := make([]domain.TokenAccount, 0, len(accounts))
	for _, a := range accounts {
		if a.Owner == owner {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

func (r *tokenAccountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context,
	address identity.Identity,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		account, err := r.getTokenAccount(tx, address)
		if err != nil {
			return err
		}

		updatedAccount, err := updateFn(account)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, address.String(), *updatedAccount)
	})
}

func (r *tokenAccountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address identity.Identity,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxDelete(tx, address.String(), domain.TokenAccount{})
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	})
}

func (r *tokenAccountRepositoryImpl) getTokenAccount(
	tx *badger.Txn, address identity.Identity,
) (*domain.TokenAccount, error) {
	var account domain.TokenAccount
	if err := r.store.TxGet(tx, address.String(), &account); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}
