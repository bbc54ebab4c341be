package ports

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// RepoManager interface defines the methods for escrows, mints, token and
// system accounts, settlement receipts, processed signatures and webhook
// subscriptions.
type RepoManager interface {
	EscrowRepository() domain.EscrowRepository
	MintRepository() domain.MintRepository
	TokenAccountRepository() domain.TokenAccountRepository
	SystemAccountRepository() domain.SystemAccountRepository
	SettlementRepository() domain.SettlementRepository
	SignatureRepository() domain.SignatureRepository
	SubscriptionRepository() domain.SubscriptionRepository

	// RunTransaction runs the given handler as an atomic unit: either all its
	// writes to any repository are committed, or none is if the handler
	// returns an error. Transactions are isolated, the way this is achieved
	// depends on the underlying storage.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
