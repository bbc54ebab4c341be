package identity

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

const (
	// MaxSeeds is the max number of seeds accepted for deriving an address.
	MaxSeeds = 16
	// MaxSeedLength is the max length in bytes of a single seed.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

var (
	// ErrMaxSeedLengthExceeded is returned if too many seeds, or a too long
	// one, are given for deriving an address.
	ErrMaxSeedLengthExceeded = errors.New("length of the seed or number of seeds is too high")
	// ErrInvalidSeeds is returned if the given seeds derive a point that lies
	// on the ed25519 curve and therefore could have a private key.
	ErrInvalidSeeds = errors.New("provided seeds do not result in a valid address")
	// ErrNoViableBump is returned if no bump in the range [1, 255] derives an
	// off-curve address.
	ErrNoViableBump = errors.New("unable to find a viable program address bump seed")
)

// CreateProgramAddress derives the address controlled by programID for the
// given seeds. The address is the sha256 of the seeds concatenated in order,
// followed by the program ID and the "ProgramDerivedAddress" marker. The
// result must not be a valid ed25519 point.
func CreateProgramAddress(seeds [][]byte, programID Identity) (Identity, error) {
	if len(seeds) > MaxSeeds {
		return Zero, ErrMaxSeedLengthExceeded
	}
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return Zero, ErrMaxSeedLengthExceeded
		}
	}

	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr Identity
	copy(addr[:], h.Sum(nil))

	if IsOnCurve(addr[:]) {
		return Zero, ErrInvalidSeeds
	}
	return addr, nil
}

// FindProgramAddress looks for the canonical bump, that is the greatest value
// in [1, 255] that appended as last seed derives a valid program address.
func FindProgramAddress(seeds [][]byte, programID Identity) (Identity, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump > 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return Zero, 0, err
		}
	}
	return Zero, 0, ErrNoViableBump
}

// IsOnCurve returns whether the given 32 bytes are the compressed form of a
// point of the ed25519 curve.
func IsOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
