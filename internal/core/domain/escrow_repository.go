package domain

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// EscrowRepository is the abstraction for any kind of database intended to
// persist Escrows.
type EscrowRepository interface {
	// AddEscrow adds a new escrow to the repository. It fails with
	// ErrAccountAlreadyInUse if an escrow exists at the same address.
	AddEscrow(ctx context.Context, escrow *Escrow) error
	// GetEscrow returns the escrow at the given address.
	GetEscrow(ctx context.Context, address identity.Identity) (*Escrow, error)
	// GetEscrowsByMaker returns all open escrows of the given maker.
	GetEscrowsByMaker(ctx context.Context, maker identity.Identity) ([]Escrow, error)
	// GetAllEscrows returns all open escrows.
	GetAllEscrows(ctx context.Context) ([]Escrow, error)
	// DeleteEscrow removes the escrow at the given address.
	DeleteEscrow(ctx context.Context, address identity.Identity) error
}
