package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ProcessedSignature marks the signature of a committed instruction. A signed
// request whose signature was already processed is never applied again.
type ProcessedSignature struct {
	// ID is the hex encoded hash of the signature.
	ID        string
	Timestamp int64
}

// NewProcessedSignature returns the record of the given signature.
func NewProcessedSignature(signature []byte) ProcessedSignature {
	return ProcessedSignature{
		ID:        SignatureID(signature),
		Timestamp: time.Now().Unix(),
	}
}

// SignatureID returns the key under which a signature is recorded.
func SignatureID(signature []byte) string {
	h := sha256.Sum256(signature)
	return hex.EncodeToString(h[:])
}
