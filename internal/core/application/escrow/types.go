package escrow

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

var (
	makeDiscriminator   = instructionDiscriminator("make")
	takeDiscriminator   = instructionDiscriminator("take")
	refundDiscriminator = instructionDiscriminator("refund")
)

// MakeRequest opens a new escrow: the maker deposits Deposit units of MintA
// into the vault and asks for Receive units of MintB.
//
// Every request carries a random nonce covered by its signature, so that
// the same terms can be signed more than once while each signature is
// accepted only once.
type MakeRequest struct {
	Maker     identity.Identity
	MintA     identity.Identity
	MintB     identity.Identity
	MakerAtaA identity.Identity
	Escrow    identity.Identity
	Vault     identity.Identity
	Seed      uint64
	Deposit   uint64
	Receive   uint64
	Nonce     uuid.UUID

	Signature []byte
}

// NewMakeRequest returns a request with all the derived addresses resolved.
func NewMakeRequest(
	programID, maker, mintA, mintB identity.Identity,
	seed, deposit, receive uint64,
) (*MakeRequest, error) {
	escrow, _, err := domain.EscrowAddress(programID, maker, seed)
	if err != nil {
		return nil, err
	}
	addrs, err := associatedAddresses(
		[2]identity.Identity{maker, mintA},
		[2]identity.Identity{escrow, mintA},
	)
	if err != nil {
		return nil, err
	}

	return &MakeRequest{
		Maker:     maker,
		MintA:     mintA,
		MintB:     mintB,
		MakerAtaA: addrs[0],
		Escrow:    escrow,
		Vault:     addrs[1],
		Seed:      seed,
		Deposit:   deposit,
		Receive:   receive,
		Nonce:     uuid.New(),
	}, nil
}

// Message returns the bytes the maker signs.
func (r *MakeRequest) Message() []byte {
	return message(
		makeDiscriminator, r.Nonce,
		[]identity.Identity{
			r.Maker, r.MintA, r.MintB, r.MakerAtaA, r.Escrow, r.Vault,
		},
		r.Seed, r.Deposit, r.Receive,
	)
}

// Sign signs the request with the maker's wallet.
func (r *MakeRequest) Sign(w *wallet.Wallet) {
	r.Signature = w.Sign(r.Message())
}

// TakeRequest settles an escrow: the taker pays the maker and receives the
// vault's balance. Seed and Receive are the terms the taker agrees to, the
// escrow is settled only if its record still holds them.
type TakeRequest struct {
	Taker     identity.Identity
	Maker     identity.Identity
	MintA     identity.Identity
	MintB     identity.Identity
	Escrow    identity.Identity
	Vault     identity.Identity
	TakerAtaA identity.Identity
	TakerAtaB identity.Identity
	MakerAtaB identity.Identity
	Seed      uint64
	Receive   uint64
	Nonce     uuid.UUID

	Signature []byte
}

// NewTakeRequest returns a request accepting the given escrow terms, with
// all the derived addresses resolved. The escrow address is derived from
// the maker and seed of the terms.
func NewTakeRequest(
	programID, taker identity.Identity, terms domain.Escrow,
) (*TakeRequest, error) {
	escrow, _, err := domain.EscrowAddress(programID, terms.Maker, terms.Seed)
	if err != nil {
		return nil, err
	}
	addrs, err := associatedAddresses(
		[2]identity.Identity{escrow, terms.MintA},
		[2]identity.Identity{taker, terms.MintA},
		[2]identity.Identity{taker, terms.MintB},
		[2]identity.Identity{terms.Maker, terms.MintB},
	)
	if err != nil {
		return nil, err
	}

	return &TakeRequest{
		Taker:     taker,
		Maker:     terms.Maker,
		MintA:     terms.MintA,
		MintB:     terms.MintB,
		Escrow:    escrow,
		Vault:     addrs[0],
		TakerAtaA: addrs[1],
		TakerAtaB: addrs[2],
		MakerAtaB: addrs[3],
		Seed:      terms.Seed,
		Receive:   terms.Receive,
		Nonce:     uuid.New(),
	}, nil
}

// Message returns the bytes the taker signs.
func (r *TakeRequest) Message() []byte {
	return message(
		takeDiscriminator, r.Nonce,
		[]identity.Identity{
			r.Taker, r.Maker, r.MintA, r.MintB, r.Escrow, r.Vault,
			r.TakerAtaA, r.TakerAtaB, r.MakerAtaB,
		},
		r.Seed, r.Receive,
	)
}

// Sign signs the request with the taker's wallet.
func (r *TakeRequest) Sign(w *wallet.Wallet) {
	r.Signature = w.Sign(r.Message())
}

// RefundRequest cancels an escrow, giving the vault's balance back to the
// maker.
type RefundRequest struct {
	Maker     identity.Identity
	MintA     identity.Identity
	MakerAtaA identity.Identity
	Escrow    identity.Identity
	Vault     identity.Identity
	Seed      uint64
	Nonce     uuid.UUID

	Signature []byte
}

// NewRefundRequest returns a request with all the derived addresses
// resolved for the escrow of maker with the given seed.
func NewRefundRequest(
	programID, maker, mintA identity.Identity, seed uint64,
) (*RefundRequest, error) {
	escrow, _, err := domain.EscrowAddress(programID, maker, seed)
	if err != nil {
		return nil, err
	}
	addrs, err := associatedAddresses(
		[2]identity.Identity{maker, mintA},
		[2]identity.Identity{escrow, mintA},
	)
	if err != nil {
		return nil, err
	}

	return &RefundRequest{
		Maker:     maker,
		MintA:     mintA,
		MakerAtaA: addrs[0],
		Escrow:    escrow,
		Vault:     addrs[1],
		Seed:      seed,
		Nonce:     uuid.New(),
	}, nil
}

// Message returns the bytes the maker signs.
func (r *RefundRequest) Message() []byte {
	return message(
		refundDiscriminator, r.Nonce,
		[]identity.Identity{r.Maker, r.MintA, r.MakerAtaA, r.Escrow, r.Vault},
		r.Seed,
	)
}

// Sign signs the request with the maker's wallet.
func (r *RefundRequest) Sign(w *wallet.Wallet) {
	r.Signature = w.Sign(r.Message())
}

func message(
	discriminator [8]byte, nonce uuid.UUID,
	accounts []identity.Identity, args ...uint64,
) []byte {
	buf := bytes.NewBuffer(nil)
	buf.Write(discriminator[:])
	buf.Write(nonce[:])
	for _, a := range accounts {
		buf.Write(a[:])
	}
	for _, arg := range args {
		//nolint
		binary.Write(buf, binary.LittleEndian, arg)
	}
	return buf.Bytes()
}

func instructionDiscriminator(name string) [8]byte {
	var d [8]byte
	h := sha256.Sum256([]byte("global:" + name))
	copy(d[:], h[:8])
	return d
}

// associatedAddresses resolves the associated token address of every
// (owner, mint) pair.
func associatedAddresses(
	pairs ...[2]identity.Identity,
) ([]identity.Identity, error) {
	addrs := make([]identity.Identity, 0, len(pairs))
	for _, p := range pairs {
		addr, err := domain.AssociatedTokenAddress(p[0], p[1])
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
