package inmemory

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

type settlementRepositoryImpl struct {
	store *table[uuid.UUID, domain.Settlement]
}

// NewSettlementRepositoryImpl returns a new empty settlement repository.
func NewSettlementRepositoryImpl() domain.SettlementRepository {
	return newSettlementRepositoryImpl()
}

func newSettlementRepositoryImpl() *settlementRepositoryImpl {
	return &settlementRepositoryImpl{newTable[uuid.UUID, domain.Settlement]()}
}

func (r *settlementRepositoryImpl) AddSettlement(
	ctx context.Context, settlement *domain.Settlement,
) error {
	err := r.store.insert(ctx, settlement.ID, *settlement)
	if errors.Is(err, errKeyExists) {
		return domain.ErrAccountAlreadyInUse
	}
	return err
}

func (r *settlementRepositoryImpl) GetSettlement(
	ctx context.Context, id uuid.UUID,
) (*domain.Settlement, error) {
	settlement, ok := r.store.get(ctx, id)
	if !ok {
		return nil, domain.ErrSettlementNotFound
	}
	return &settlement, nil
}

func (r *settlementRepositoryImpl) GetAllSettlements(
	ctx context.Context,
) ([]domain.Settlement, error) {
	return sortByTimestamp(r.store.filter(ctx, nil)), nil
}

func (r *settlementRepositoryImpl) GetSettlementsByParty(
	ctx context.Context, party identity.Identity,
) ([]domain.Settlement, error) {
	settlements := r.store.filter(ctx, func(s domain.Settlement) bool {
		return s.Maker == party || s.Counterparty == party
	})
	return sortByTimestamp(settlements), nil
}

func sortByTimestamp(settlements []domain.Settlement) []domain.Settlement {
	sort.SliceStable(settlements, func(i, j int) bool {
		return settlements[i].Timestamp < settlements[j].Timestamp
	})
	return settlements
}
