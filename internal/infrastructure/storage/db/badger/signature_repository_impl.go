package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type signatureRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSignatureRepositoryImpl returns a new badger signature repository.
func NewSignatureRepositoryImpl(
	store *badgerhold.Store,
) domain.SignatureRepository {
	return &signatureRepositoryImpl{store}
}

func (r *signatureRepositoryImpl) AddSignature(
	ctx context.Context, signature []byte,
) error {
	processed := domain.NewProcessedSignature(signature)
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, processed.ID, processed)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrSignatureAlreadyProcessed
		}
		return err
	})
}

func (r *signatureRepositoryImpl) IsProcessed(
	ctx context.Context, signature []byte,
) (bool, error) {
	var processed domain.ProcessedSignature
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, domain.SignatureID(signature), &processed)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
