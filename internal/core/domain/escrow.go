package domain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

var escrowDiscriminator = accountDiscriminator("Escrow")

// Escrow is the record of an open trade. It holds the trade terms and the
// parameters to derive the identity that controls the vault holding the
// maker's deposit.
type Escrow struct {
	// Address of the record, equal to the derived authority.
	Address identity.Identity
	// Seed discriminates among concurrent escrows of the same maker.
	Seed uint64
	// Maker is the identity that deposited mint A and receives mint B.
	Maker identity.Identity
	// MintA is the asset held in the vault.
	MintA identity.Identity
	// MintB is the asset the maker expects to receive.
	MintB identity.Identity
	// Receive is the amount of mint B expected by the maker.
	Receive uint64
	// Bump is the canonical bump of the derived authority.
	Bump uint8
	// Lamports held by the record as rent deposit.
	Lamports uint64
}

// NewEscrow returns a new escrow for the given terms. The record address and
// its canonical bump are derived from the maker and the seed.
func NewEscrow(
	programID, maker, mintA, mintB identity.Identity, seed, receive uint64,
) (*Escrow, error) {
	if receive == 0 {
		return nil, ErrInvalidAmount
	}
	if mintA == mintB {
		return nil, ErrAssetTypeMismatch
	}

	addr, bump, err := EscrowAddress(programID, maker, seed)
	if err != nil {
		return nil, err
	}

	return &Escrow{
		Address: addr,
		Seed:    seed,
		Maker:   maker,
		MintA:   mintA,
		MintB:   mintB,
		Receive: receive,
		Bump:    bump,
	}, nil
}

// EscrowAddress returns the address and canonical bump of the escrow of the
// given maker and seed.
func EscrowAddress(
	programID, maker identity.Identity, seed uint64,
) (identity.Identity, uint8, error) {
	return identity.FindProgramAddress(escrowSeeds(maker, seed), programID)
}

// SignerSeeds returns the seeds that let the escrow program sign on behalf
// of the derived authority: tag, maker, little-endian seed and bump.
func (e Escrow) SignerSeeds() [][]byte {
	return append(escrowSeeds(e.Maker, e.Seed), []byte{e.Bump})
}

// Authority re-derives the identity controlling the escrow's vault.
func (e Escrow) Authority(programID identity.Identity) (identity.Identity, error) {
	return identity.CreateProgramAddress(e.SignerSeeds(), programID)
}

// VerifyAuthority makes sure the record address matches the identity
// derived from its own maker, seed and bump.
func (e Escrow) VerifyAuthority(programID identity.Identity) error {
	authority, err := e.Authority(programID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrAuthorizationMismatch, err)
	}
	if authority != e.Address {
		return ErrAuthorizationMismatch
	}
	return nil
}

// MarshalBinary encodes the escrow's data as it's laid out on the ledger.
func (e Escrow) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, EscrowSpace))
	buf.Write(escrowDiscriminator[:])
	binary.Write(buf, binary.LittleEndian, e.Seed)
	buf.Write(e.Maker[:])
	buf.Write(e.MintA[:])
	buf.Write(e.MintB[:])
	binary.Write(buf, binary.LittleEndian, e.Receive)
	buf.WriteByte(e.Bump)
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the escrow's data. Address and lamports are not
// part of the data and are left untouched.
func (e *Escrow) UnmarshalBinary(data []byte) error {
	if len(data) != EscrowSpace {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidEscrowData, EscrowSpace, len(data))
	}
	if !bytes.Equal(data[:8], escrowDiscriminator[:]) {
		return fmt.Errorf("%w: discriminator mismatch", ErrInvalidEscrowData)
	}

	data = data[8:]
	e.Seed = binary.LittleEndian.Uint64(data[:8])
	data = data[8:]
	copy(e.Maker[:], data[:32])
	data = data[32:]
	copy(e.MintA[:], data[:32])
	data = data[32:]
	copy(e.MintB[:], data[:32])
	data = data[32:]
	e.Receive = binary.LittleEndian.Uint64(data[:8])
	e.Bump = data[8]
	return nil
}

func escrowSeeds(maker identity.Identity, seed uint64) [][]byte {
	le := make([]byte, 8)
	binary.LittleEndian.PutUint64(le, seed)
	return [][]byte{[]byte(EscrowSeedTag), maker.Bytes(), le}
}

func accountDiscriminator(name string) [8]byte {
	var d [8]byte
	h := sha256.Sum256([]byte("account:" + name))
	copy(d[:], h[:8])
	return d
}
