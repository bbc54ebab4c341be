package domain

import (
	"errors"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
)

// TokenAccount holds the balance of a single mint for its owner. The owner
// is the only authority allowed to move funds out of it or to close it.
type TokenAccount struct {
	Address  identity.Identity
	Mint     identity.Identity
	Owner    identity.Identity
	Amount   uint64
	Lamports uint64
}

// AssociatedTokenAddress returns the address of the canonical token account
// of owner for the given mint.
func AssociatedTokenAddress(owner, mint identity.Identity) (identity.Identity, error) {
	addr, _, err := identity.FindProgramAddress(
		[][]byte{owner.Bytes(), TokenProgramID.Bytes(), mint.Bytes()},
		AssociatedTokenProgramID,
	)
	return addr, err
}

// NewAssociatedTokenAccount returns an empty token account for owner and
// mint at the associated address, funded with the rent-exempt minimum.
func NewAssociatedTokenAccount(owner, mint identity.Identity) (*TokenAccount, error) {
	addr, err := AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return &TokenAccount{
		Address:  addr,
		Mint:     mint,
		Owner:    owner,
		Lamports: RentExemptMinimum(TokenAccountSpace),
	}, nil
}

// IsEmpty returns whether the account holds no tokens.
func (a *TokenAccount) IsEmpty() bool {
	return a.Amount == 0
}

// Credit adds the given amount to the account's balance.
func (a *TokenAccount) Credit(amount uint64) error {
	balance, err := mathutil.CheckedAdd(a.Amount, amount)
	if err != nil {
		return err
	}
	a.Amount = balance
	return nil
}

// Debit subtracts the given amount from the account's balance.
func (a *TokenAccount) Debit(amount uint64) error {
	balance, err := mathutil.CheckedSub(a.Amount, amount)
	if err != nil {
		if errors.Is(err, mathutil.ErrUnderflow) {
			return ErrInsufficientBalance
		}
		return err
	}
	a.Amount = balance
	return nil
}
