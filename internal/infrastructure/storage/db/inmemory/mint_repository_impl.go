package inmemory

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

type mintRepositoryImpl struct {
	store *table[identity.Identity, domain.Mint]
}

// NewMintRepositoryImpl returns a new empty mint repository.
func NewMintRepositoryImpl() domain.MintRepository {
	return newMintRepositoryImpl()
}

func newMintRepositoryImpl() *mintRepositoryImpl {
	return &mintRepositoryImpl{newTable[identity.Identity, domain.Mint]()}
}

func (r *mintRepositoryImpl) AddMint(ctx context.Context, mint *domain.Mint) error {
	err := r.store.insert(ctx, mint.Address, *mint)
	if errors.Is(err, errKeyExists) {
		return domain.ErrAccountAlreadyInUse
	}
	return err
}

func (r *mintRepositoryImpl) GetMint(
	ctx context.Context, address identity.Identity,
) (*domain.Mint, error) {
	mint, ok := r.store.get(ctx, address)
	if !ok {
		return nil, domain.ErrMintNotFound
	}
	return &mint, nil
}

func (r *mintRepositoryImpl) UpdateMint(
	ctx context.Context,
	address identity.Identity,
	updateFn func(m *domain.Mint) (*domain.Mint, error),
) error {
	mint, err := r.GetMint(ctx, address)
	if err != nil {
		return err
	}

	updatedMint, err := updateFn(mint)
	if err != nil {
		return err
	}

	return r.store.upsert(ctx, address, *updatedMint)
}
