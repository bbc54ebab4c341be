package token

import (
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// Authorization is the proof of who signed an instruction. It holds the
// identities whose signature was verified and the seed sets a program can
// sign with on behalf of the identities derived from them.
type Authorization struct {
	signers     map[identity.Identity]struct{}
	invoker     identity.Identity
	signerSeeds [][][]byte
}

// SignedBy returns an authorization for the given verified signers.
func SignedBy(signers ...identity.Identity) Authorization {
	m := make(map[identity.Identity]struct{}, len(signers))
	for _, s := range signers {
		m[s] = struct{}{}
	}
	return Authorization{signers: m}
}

// SignedWithSeeds returns an authorization for the identities that
// invoker derives from any of the given seed sets.
func SignedWithSeeds(invoker identity.Identity, seeds ...[][]byte) Authorization {
	return Authorization{invoker: invoker, signerSeeds: seeds}
}

// Authorizes returns whether authority either signed or is the address
// derived by the invoker from one of the seed sets.
func (a Authorization) Authorizes(authority identity.Identity) bool {
	if _, ok := a.signers[authority]; ok {
		return true
	}
	for _, seeds := range a.signerSeeds {
		addr, err := identity.CreateProgramAddress(seeds, a.invoker)
		if err != nil {
			continue
		}
		if addr == authority {
			return true
		}
	}
	return false
}
