package inmemory

import (
	"context"
	"errors"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type signatureRepositoryImpl struct {
	store *table[string, domain.ProcessedSignature]
}

// NewSignatureRepositoryImpl returns a new empty signature repository.
func NewSignatureRepositoryImpl() domain.SignatureRepository {
	return newSignatureRepositoryImpl()
}

func newSignatureRepositoryImpl() *signatureRepositoryImpl {
	return &signatureRepositoryImpl{
		newTable[string, domain.ProcessedSignature](),
	}
}

func (r *signatureRepositoryImpl) AddSignature(
	ctx context.Context, signature []byte,
) error {
	processed := domain.NewProcessedSignature(signature)
	err := r.store.insert(ctx, processed.ID, processed)
	if errors.Is(err, errKeyExists) {
		return domain.ErrSignatureAlreadyProcessed
	}
	return err
}

func (r *signatureRepositoryImpl) IsProcessed(
	ctx context.Context, signature []byte,
) (bool, error) {
	_, ok := r.store.get(ctx, domain.SignatureID(signature))
	return ok, nil
}
