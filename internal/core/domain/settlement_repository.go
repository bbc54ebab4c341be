package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// SettlementRepository is the abstraction for any kind of database intended
// to persist Settlement receipts.
type SettlementRepository interface {
	// AddSettlement adds a new receipt to the repository.
	AddSettlement(ctx context.Context, settlement *Settlement) error
	// GetSettlement returns the receipt with the given id.
	GetSettlement(ctx context.Context, id uuid.UUID) (*Settlement, error)
	// GetAllSettlements returns all receipts.
	GetAllSettlements(ctx context.Context) ([]Settlement, error)
	// GetSettlementsByParty returns all receipts where the given identity
	// is either maker or counterparty.
	GetSettlementsByParty(
		ctx context.Context, party identity.Identity,
	) ([]Settlement, error)
}
