package inmemory

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

type systemAccountRepositoryImpl struct {
	store *table[identity.Identity, domain.SystemAccount]
}

// NewSystemAccountRepositoryImpl returns a new empty system account
// repository.
func NewSystemAccountRepositoryImpl() domain.SystemAccountRepository {
	return newSystemAccountRepositoryImpl()
}

func newSystemAccountRepositoryImpl() *systemAccountRepositoryImpl {
	return &systemAccountRepositoryImpl{
		newTable[identity.Identity, domain.SystemAccount](),
	}
}

func (r *systemAccountRepositoryImpl) GetSystemAccount(
	ctx context.Context, address identity.Identity,
) (*domain.SystemAccount, error) {
	account, ok := r.store.get(ctx, address)
	if !ok {
		return &domain.SystemAccount{Address: address}, nil
	}
	return &account, nil
}

func (r *systemAccountRepositoryImpl) UpdateSystemAccount(
	ctx context.Context,
	address identity.Identity,
	updateFn func(a *domain.SystemAccount) (*domain.SystemAccount, error),
) error {
	account, err := r.GetSystemAccount(ctx, address)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	if updatedAccount.Lamports == 0 {
		err := r.store.delete(ctx, address)
		if err == errKeyNotFound {
			return nil
		}
		return err
	}
	return r.store.upsert(ctx, address, *updatedAccount)
}
