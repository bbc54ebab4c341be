package inmemory

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

type tokenAccountRepositoryImpl struct {
	store *table[identity.Identity, domain.TokenAccount]
}

// NewTokenAccountRepositoryImpl returns a new empty token account repository.
func NewTokenAccountRepositoryImpl() domain.TokenAccountRepository {
	return newTokenAccountRepositoryImpl()
}

func newTokenAccountRepositoryImpl() *tokenAccountRepositoryImpl {
	return &tokenAccountRepositoryImpl{
		newTable[identity.Identity, domain.TokenAccount](),
	}
}

func (r *tokenAccountRepositoryImpl) AddTokenAccount(
	ctx context.Context, account *domain.TokenAccount,
) error {
	err := r.store.insert(ctx, account.Address, *account)
	if errors.Is(err, errKeyExists) {
		return domain.ErrAccountAlreadyInUse
	}
	return err
}

func (r *tokenAccountRepositoryImpl) GetTokenAccount(
	ctx context.Context, address identity.Identity,
) (*domain.TokenAccount, error) {
	account, ok := r.store.get(ctx, address)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

func (r *tokenAccountRepositoryImpl) GetTokenAccountsByOwner(
	ctx context.Context, owner identity.Identity,
) ([]domain.TokenAccount, error) {
	return r.store.filter(ctx, func(a domain.TokenAccount) bool {
		return a.Owner == owner
	}), nil
}

func (r *tokenAccountRepositoryImpl) UpdateTokenAccount(
	ctx context.Context,
	address identity.Identity,
	updateFn func(a *domain.TokenAccount) (*domain.TokenAccount, error),
) error {
	account, err := r.GetTokenAccount(ctx, address)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	return r.store.upsert(ctx, address, *updatedAccount)
}

func (r *tokenAccountRepositoryImpl) DeleteTokenAccount(
	ctx context.Context, address identity.Identity,
) error {
	err := r.store.delete(ctx, address)
	if errors.Is(err, errKeyNotFound) {
		return domain.ErrAccountNotFound
	}
	return err
}
