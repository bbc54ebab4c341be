package inmemory

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

type escrowRepositoryImpl struct {
	store *table[identity.Identity, domain.Escrow]
}

// NewEscrowRepositoryImpl returns a new empty escrow repository.
func NewEscrowRepositoryImpl() domain.EscrowRepository {
	return newEscrowRepositoryImpl()
}

func newEscrowRepositoryImpl() *escrowRepositoryImpl {
	return &escrowRepositoryImpl{newTable[identity.Identity, domain.Escrow]()}
}

func (r *escrowRepositoryImpl) AddEscrow(
	ctx context.Context, escrow *domain.Escrow,
) error {
	err := r.store.insert(ctx, escrow.Address, *escrow)
	if errors.Is(err, errKeyExists) {
		return domain.ErrAccountAlreadyInUse
	}
	return err
}

func (r *escrowRepositoryImpl) GetEscrow(
	ctx context.Context, address identity.Identity,
) (*domain.Escrow, error) {
	escrow, ok := r.store.get(ctx, address)
	if !ok {
		return nil, domain.ErrEscrowNotFound
	}
	return &escrow, nil
}

func (r *escrowRepositoryImpl) GetEscrowsByMaker(
	ctx context.Context, maker identity.Identity,
) ([]domain.Escrow, error) {
	return r.store.filter(ctx, func(e domain.Escrow) bool {
		return e.Maker == maker
	}), nil
}

func (r *escrowRepositoryImpl) GetAllEscrows(
	ctx context.Context,
) ([]domain.Escrow, error) {
	return r.store.filter(ctx, nil), nil
}

func (r *escrowRepositoryImpl) DeleteEscrow(
	ctx context.Context, address identity.Identity,
) error {
	err := r.store.delete(ctx, address)
	if errors.Is(err, errKeyNotFound) {
		return domain.ErrEscrowNotFound
	}
	return err
}
