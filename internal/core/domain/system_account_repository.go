package domain

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// SystemAccountRepository is the abstraction for any kind of database intended
// to persist SystemAccounts.
type SystemAccountRepository interface {
	// GetSystemAccount returns the system account of the given identity. An
	// identity that never received lamports has an empty account.
	GetSystemAccount(
		ctx context.Context, address identity.Identity,
	) (*SystemAccount, error)
	// UpdateSystemAccount updates the lamports of the given identity, creating
	// its account if missing.
	UpdateSystemAccount(
		ctx context.Context,
		address identity.Identity,
		updateFn func(a *SystemAccount) (*SystemAccount, error),
	) error
}
