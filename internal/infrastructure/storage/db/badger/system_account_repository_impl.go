package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/timshannon/badgerhold/v4"
)

type systemAccountRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSystemAccountRepositoryImpl returns a new badger system account
// repository.
func NewSystemAccountRepositoryImpl(
	store *badgerhold.Store,
) domain.SystemAccountRepository {
	return &systemAccountRepositoryImpl{store}
}

func (r *systemAccountRepositoryImpl) GetSystemAccount(
	ctx context.Context, address identity.Identity,
) (*domain.SystemAccount, error) {
	var account *domain.SystemAccount
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		a, err := r.getSystemAccount(tx, address)
		account = a
		return err
	}); err != nil {
		return nil, err
	}
	return account, nil
}

func (r *systemAccountRepositoryImpl) UpdateSystemAccount(
	ctx context.Context,
	address identity.Identity,
	updateFn func(a *domain.SystemAccount) (*domain.SystemAccount, error),
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		account, err := r.getSystemAccount(tx, address)
		if err != nil {
			return err
		}

		updatedAccount, err := updateFn(account)
		if err != nil {
			return err
		}

		if updatedAccount.Lamports == 0 {
			err := r.store.TxDelete(tx, address.String(), domain.SystemAccount{})
			if errors.Is(err, badgerhold.ErrNotFound) {
				return nil
			}
			return err
		}
		return r.store.TxUpsert(tx, address.String(), *updatedAccount)
	})
}

func (r *systemAccountRepositoryImpl) getSystemAccount(
	tx *badger.Txn, address identity.Identity,
) (*domain.SystemAccount, error) {
	var account domain.SystemAccount
	if err := r.store.TxGet(tx, address.String(), &account); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return &domain.SystemAccount{Address: address}, nil
		}
		return nil, err
	}
	return &account, nil
}
