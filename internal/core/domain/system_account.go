package domain

import (
	"errors"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
)

// SystemAccount holds the native lamports of an identity, used to pay for
// the rent deposits of the accounts it creates.
type SystemAccount struct {
	Address  identity.Identity
	Lamports uint64
}

// Credit ...
func (a *SystemAccount) Credit(lamports uint64) error {
	balance, err := mathutil.CheckedAdd(a.Lamports, lamports)
	if err != nil {
		return err
	}
	a.Lamports = balance
	return nil
}

// Debit ...
func (a *SystemAccount) Debit(lamports uint64) error {
	balance, err := mathutil.CheckedSub(a.Lamports, lamports)
	if err != nil {
		if errors.Is(err, mathutil.ErrUnderflow) {
			return ErrInsufficientLamports
		}
		return err
	}
	a.Lamports = balance
	return nil
}
