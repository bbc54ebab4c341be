package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/timshannon/badgerhold/v4"
)

type settlementRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSettlementRepositoryImpl returns a new badger settlement repository.
func NewSettlementRepositoryImpl(
	store *badgerhold.Store,
) domain.SettlementRepository {
	return &settlementRepositoryImpl{store}
}

func (r *settlementRepositoryImpl) AddSettlement(
	ctx context.Context, settlement *domain.Settlement,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, settlement.ID.String(), *settlement)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAccountAlreadyInUse
		}
		return err
	})
}

func (r *settlementRepositoryImpl) GetSettlement(
	ctx context.Context, id uuid.UUID,
) (*domain.Settlement, error) {
	var settlement domain.Settlement
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id.String(), &settlement)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSettlementNotFound
		}
		return nil, err
	}
	return &settlement, nil
}

func (r *settlementRepositoryImpl) GetAllSettlements(
	ctx context.Context,
) ([]domain.Settlement, error) {
	return r.findSettlements(ctx, nil)
}

func (r *settlementRepositoryImpl) GetSettlementsByParty(
	ctx context.Context, party identity.Identity,
) ([]domain.Settlement, error) {
	return r.findSettlements(ctx, func(s domain.Settlement) bool {
		return s.Maker == party || s.Counterparty == party
	})
}

func (r *settlementRepositoryImpl) findSettlements(
	ctx context.Context, filter func(s domain.Settlement) bool,
) ([]domain.Settlement, error) {
	settlements := make([]domain.Settlement, 0)
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(
			tx, &settlements, badgerhold.Where("Timestamp").Ge(int64(0)),
		)
	}); err != nil {
		return nil, err
	}

	filtered := make([]domain.Settlement, 0, len(settlements))
	for _, s := range settlements {
		if filter == nil || filter(s) {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp < filtered[j].Timestamp
	})
	return filtered, nil
}
