package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"

	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

var (
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed must not be null")
	// ErrNullSecretKey ...
	ErrNullSecretKey = errors.New("secret key must not be null")
	// ErrInvalidSeedSize ...
	ErrInvalidSeedSize = errors.New("seed must be a 32-byte value")
	// ErrInvalidSecretKeySize ...
	ErrInvalidSecretKeySize = errors.New("secret key must be a 64-byte value")
	// ErrInvalidSecretKey is returned if the public half of a secret key does
	// not match the one derived from its seed half.
	ErrInvalidSecretKey = errors.New("secret key public half does not match its seed")
)

// Wallet holds an ed25519 key pair and signs messages on behalf of the
// identity of its public key.
type Wallet struct {
	privateKey ed25519.PrivateKey
}

// NewWallet creates a wallet with a fresh random key pair.
func NewWallet() (*Wallet, error) {
	_, prvkey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Wallet{prvkey}, nil
}

// NewWalletFromSeedOpts is the struct given to the NewWalletFromSeed method
type NewWalletFromSeedOpts struct {
	Seed []byte
}

func (o NewWalletFromSeedOpts) validate() error {
	if len(o.Seed) <= 0 {
		return ErrNullSeed
	}
	if len(o.Seed) != ed25519.SeedSize {
		return ErrInvalidSeedSize
	}
	return nil
}

// NewWalletFromSeed deterministically restores a wallet from a 32-byte seed.
func NewWalletFromSeed(opts NewWalletFromSeedOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Wallet{ed25519.NewKeyFromSeed(opts.Seed)}, nil
}

// NewWalletFromSecretKeyOpts is the struct given to the NewWalletFromSecretKey
// method
type NewWalletFromSecretKeyOpts struct {
	SecretKey []byte
}

func (o NewWalletFromSecretKeyOpts) validate() error {
	if len(o.SecretKey) <= 0 {
		return ErrNullSecretKey
	}
	if len(o.SecretKey) != ed25519.PrivateKeySize {
		return ErrInvalidSecretKeySize
	}
	return nil
}

// NewWalletFromSecretKey restores a wallet from a 64-byte secret key made of
// seed and public key.
func NewWalletFromSecretKey(opts NewWalletFromSecretKeyOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	prvkey := ed25519.NewKeyFromSeed(opts.SecretKey[:ed25519.SeedSize])
	if !prvkey.Equal(ed25519.PrivateKey(opts.SecretKey)) {
		return nil, ErrInvalidSecretKey
	}
	return &Wallet{prvkey}, nil
}

// Identity returns the public identity of the wallet.
func (w *Wallet) Identity() identity.Identity {
	var id identity.Identity
	copy(id[:], w.privateKey.Public().(ed25519.PublicKey))
	return id
}

// SecretKey returns a copy of the 64-byte secret key.
func (w *Wallet) SecretKey() []byte {
	buf := make([]byte, len(w.privateKey))
	copy(buf, w.privateKey)
	return buf
}

// Sign returns the ed25519 signature of the given message.
func (w *Wallet) Sign(msg []byte) []byte {
	return ed25519.Sign(w.privateKey, msg)
}

// Verify returns whether sig is a valid signature of msg made by signer.
func Verify(signer identity.Identity, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(signer[:]), msg, sig)
}
