package domain

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// MintRepository is the abstraction for any kind of database intended to
// persist Mints.
type MintRepository interface {
	// AddMint adds a new mint to the repository.
	AddMint(ctx context.Context, mint *Mint) error
	// GetMint returns the mint at the given address.
	GetMint(ctx context.Context, address identity.Identity) (*Mint, error)
	// UpdateMint updates the state of a mint. The closure function let's to
	// commit multiple changes to a certain mint in a transactional way.
	UpdateMint(
		ctx context.Context,
		address identity.Identity, updateFn func(m *Mint) (*Mint, error),
	) error
}
