package domain

import "github.com/tdex-network/tdex-escrow/pkg/identity"

var (
	// SystemProgramID ...
	SystemProgramID = identity.MustFromString("11111111111111111111111111111111")
	// TokenProgramID ...
	TokenProgramID = identity.MustFromString("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	// AssociatedTokenProgramID ...
	AssociatedTokenProgramID = identity.MustFromString("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

const (
	// EscrowSeedTag is the fixed tag prepended to the seeds of every escrow
	// authority.
	EscrowSeedTag = "escrow"

	// MintSpace is the size in bytes of a mint account.
	MintSpace = 82
	// TokenAccountSpace is the size in bytes of a token account.
	TokenAccountSpace = 165
	// EscrowSpace is the size in bytes of an escrow account: discriminator,
	// seed, maker, mint a, mint b, receive and bump.
	EscrowSpace = 8 + 8 + 32 + 32 + 32 + 8 + 1

	accountStorageOverhead  = 128
	lamportsPerByteYear     = 3480
	exemptionThresholdYears = 2
)

// RentExemptMinimum returns the lamports an account with dataLen bytes of
// data must hold to be exempt from rent.
func RentExemptMinimum(dataLen uint64) uint64 {
	return (dataLen + accountStorageOverhead) * lamportsPerByteYear * exemptionThresholdYears
}
