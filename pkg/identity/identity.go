package identity

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

// Size is the length in bytes of an Identity.
const Size = 32

var (
	// ErrInvalidIdentity is returned when decoding a string or byte slice that
	// does not represent a 32-byte identity.
	ErrInvalidIdentity = errors.New("identity must be a 32-byte value in base58 format")
)

// Identity is the public identity of an account holder. It can be either an
// ed25519 public key or an address derived off-curve from a program ID and a
// set of seeds, in which case no private key exists for it.
type Identity [Size]byte

// Zero is the all-zeros identity.
var Zero = Identity{}

// FromBytes returns the identity for the given 32-byte slice.
func FromBytes(b []byte) (Identity, error) {
	var id Identity
	if len(b) != Size {
		return id, ErrInvalidIdentity
	}
	copy(id[:], b)
	return id, nil
}

// FromString decodes a base58-encoded identity.
func FromString(s string) (Identity, error) {
	if len(s) == 0 {
		return Zero, ErrInvalidIdentity
	}
	return FromBytes(base58.Decode(s))
}

// MustFromString is like FromString but panics on error. It's meant for
// well-known constants only.
func MustFromString(s string) Identity {
	id, err := FromString(s)
	if err != nil {
		panic(fmt.Sprintf("identity %q: %s", s, err))
	}
	return id
}

// Bytes returns a copy of the identity's raw bytes.
func (i Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, i[:])
	return b
}

// IsZero returns whether the identity is the all-zeros one.
func (i Identity) IsZero() bool {
	return i == Zero
}

// Equal returns whether the two identities match.
func (i Identity) Equal(other Identity) bool {
	return bytes.Equal(i[:], other[:])
}

// String returns the base58 encoding of the identity.
func (i Identity) String() string {
	return base58.Encode(i[:])
}

// MarshalText implements encoding.TextMarshaler.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Identity) UnmarshalText(text []byte) error {
	id, err := FromString(string(text))
	if err != nil {
		return err
	}
	*i = id
	return nil
}
