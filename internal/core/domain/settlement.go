package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

const (
	// SettlementTypeTake marks a settlement completed by a taker.
	SettlementTypeTake SettlementType = iota
	// SettlementTypeRefund marks an escrow cancelled by its maker.
	SettlementTypeRefund
)

// SettlementType ...
type SettlementType int

func (t SettlementType) String() string {
	switch t {
	case SettlementTypeTake:
		return "TAKE"
	case SettlementTypeRefund:
		return "REFUND"
	default:
		return "UNKNOWN"
	}
}

// Settlement is the receipt of a closed escrow.
type Settlement struct {
	ID     uuid.UUID
	Type   SettlementType
	Escrow identity.Identity
	Seed   uint64
	Maker  identity.Identity
	// Counterparty is the taker for settlements of type take, the maker
	// itself for refunds.
	Counterparty identity.Identity
	MintA        identity.Identity
	MintB        identity.Identity
	// AmountPaid is the amount of mint B moved to the maker.
	AmountPaid uint64
	// AmountReleased is the amount of mint A swept out of the vault.
	AmountReleased uint64
	// RentReturned is the sum of the lamports of the vault and the escrow
	// record returned to the maker.
	RentReturned uint64
	Timestamp    int64
}

// NewSettlement returns a receipt for the given escrow.
func NewSettlement(
	settlementType SettlementType, escrow Escrow, counterparty identity.Identity,
) *Settlement {
	return &Settlement{
		ID:           uuid.New(),
		Type:         settlementType,
		Escrow:       escrow.Address,
		Seed:         escrow.Seed,
		Maker:        escrow.Maker,
		Counterparty: counterparty,
		MintA:        escrow.MintA,
		MintB:        escrow.MintB,
		Timestamp:    time.Now().Unix(),
	}
}
