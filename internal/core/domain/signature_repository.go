package domain

import "context"

// SignatureRepository is the abstraction for any kind of database intended
// to persist the signatures of the processed instructions.
type SignatureRepository interface {
	// AddSignature records the given signature. It fails with
	// ErrSignatureAlreadyProcessed if the signature is already known.
	AddSignature(ctx context.Context, signature []byte) error
	// IsProcessed returns whether the given signature is already recorded.
	IsProcessed(ctx context.Context, signature []byte) (bool, error)
}
