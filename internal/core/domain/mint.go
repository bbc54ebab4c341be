package domain

import (
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/mathutil"
)

// Mint defines a fungible asset type.
type Mint struct {
	Address       identity.Identity
	MintAuthority identity.Identity
	// Decimals is the number of base-10 digits to the right of the decimal
	// point of the asset's UI amounts.
	Decimals uint8
	Supply   uint64
	Lamports uint64
}

// NewMint returns a mint with zero supply funded with the rent-exempt
// minimum.
func NewMint(address, mintAuthority identity.Identity, decimals uint8) *Mint {
	return &Mint{
		Address:       address,
		MintAuthority: mintAuthority,
		Decimals:      decimals,
		Lamports:      RentExemptMinimum(MintSpace),
	}
}

// Issue increases the supply by amount.
func (m *Mint) Issue(amount uint64) error {
	supply, err := mathutil.CheckedAdd(m.Supply, amount)
	if err != nil {
		return err
	}
	m.Supply = supply
	return nil
}
