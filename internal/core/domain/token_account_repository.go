package domain

import (
	"context"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// TokenAccountRepository is the abstraction for any kind of database intended
// to persist TokenAccounts.
type TokenAccountRepository interface {
	// AddTokenAccount adds a new token account to the repository. It fails
	// with ErrAccountAlreadyInUse if the address is taken.
	AddTokenAccount(ctx context.Context, account *TokenAccount) error
	// GetTokenAccount returns the token account at the given address.
	GetTokenAccount(
		ctx context.Context, address identity.Identity,
	) (*TokenAccount, error)
	// GetTokenAccountsByOwner returns all token accounts of the given owner.
	GetTokenAccountsByOwner(
		ctx context.Context, owner identity.Identity,
	) ([]TokenAccount, error)
	// UpdateTokenAccount updates the state of a token account. The closure
	// function let's to commit multiple changes in a transactional way.
	UpdateTokenAccount(
		ctx context.Context,
		address identity.Identity,
		updateFn func(a *TokenAccount) (*TokenAccount, error),
	) error
	// DeleteTokenAccount removes the token account at the given address.
	DeleteTokenAccount(ctx context.Context, address identity.Identity) error
}
