package escrow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/ledger"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

const (
	seed          = uint64(42)
	deposit       = uint64(1000)
	receive       = uint64(500)
	decimalsA     = uint8(6)
	decimalsB     = uint8(9)
	startLamports = uint64(1000000000)
)

var (
	ctx       = context.Background()
	programID = identity.MustFromString("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
)

type testEnv struct {
	repoManager ports.RepoManager
	svc         *escrow.Service
	ledger      *ledger.Service

	maker      *wallet.Wallet
	taker      *wallet.Wallet
	mintA      identity.Identity
	mintB      identity.Identity
	mintAuth   *wallet.Wallet
	escrowAddr identity.Identity
}

// newTestEnv returns an environment where maker holds deposit units of mint
// A and taker holds takerFunds units of mint B.
func newTestEnv(t *testing.T, takerFunds uint64) *testEnv {
	repoManager := inmemory.NewRepoManager()
	return newTestEnvWithRepoManager(t, repoManager, takerFunds)
}

func newTestEnvWithRepoManager(
	t *testing.T, repoManager ports.RepoManager, takerFunds uint64,
) *testEnv {
	svc, err := escrow.NewService(repoManager, programID, nil, nil)
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(repoManager)
	require.NoError(t, err)

	env := &testEnv{
		repoManager: repoManager,
		svc:         svc,
		ledger:      ledgerSvc,
		maker:       newWallet(t),
		taker:       newWallet(t),
		mintAuth:    newWallet(t),
	}

	for _, w := range []*wallet.Wallet{env.maker, env.taker, env.mintAuth} {
		_, err := ledgerSvc.Airdrop(ctx, w.Identity(), startLamports)
		require.NoError(t, err)
	}

	env.mintA, err = ledgerSvc.CreateMint(ctx, env.mintAuth, decimalsA)
	require.NoError(t, err)
	env.mintB, err = ledgerSvc.CreateMint(ctx, env.mintAuth, decimalsB)
	require.NoError(t, err)

	_, err = ledgerSvc.MintTo(
		ctx, env.mintAuth, env.mintA, env.maker.Identity(), deposit,
	)
	require.NoError(t, err)
	if takerFunds > 0 {
		_, err = ledgerSvc.MintTo(
			ctx, env.mintAuth, env.mintB, env.taker.Identity(), takerFunds,
		)
		require.NoError(t, err)
	} else {
		_, err = ledgerSvc.CreateAssociatedAccount(
			ctx, env.taker, env.taker.Identity(), env.mintB,
		)
		require.NoError(t, err)
	}

	return env
}

// open makes the escrow with the test seed and terms.
func (e *testEnv) open(t *testing.T) *domain.Escrow {
	req, err := escrow.NewMakeRequest(
		programID, e.maker.Identity(), e.mintA, e.mintB, seed, deposit, receive,
	)
	require.NoError(t, err)
	req.Sign(e.maker)

	escrowRecord, err := e.svc.Make(ctx, req)
	require.NoError(t, err)
	e.escrowAddr = escrowRecord.Address
	return escrowRecord
}

// terms returns the escrow record the test taker agrees to settle.
func (e *testEnv) terms() domain.Escrow {
	return domain.Escrow{
		Seed:    seed,
		Maker:   e.maker.Identity(),
		MintA:   e.mintA,
		MintB:   e.mintB,
		Receive: receive,
	}
}

func (e *testEnv) takeRequest(t *testing.T) *escrow.TakeRequest {
	return e.signedTakeRequest(t, e.terms())
}

func (e *testEnv) signedTakeRequest(
	t *testing.T, terms domain.Escrow,
) *escrow.TakeRequest {
	req, err := escrow.NewTakeRequest(programID, e.taker.Identity(), terms)
	require.NoError(t, err)
	req.Sign(e.taker)
	return req
}

func (e *testEnv) tokenBalance(
	t *testing.T, owner, mint identity.Identity,
) uint64 {
	balance, err := e.ledger.GetTokenBalance(ctx, owner, mint)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return 0
	}
	require.NoError(t, err)
	return balance.Amount
}

func (e *testEnv) lamports(t *testing.T, owner identity.Identity) uint64 {
	balance, err := e.ledger.GetBalance(ctx, owner)
	require.NoError(t, err)
	return balance
}

// snapshot is the overall state of the parties involved in an escrow.
type snapshot struct {
	makerA, makerB, takerA, takerB, vault uint64
	makerLamports, takerLamports         uint64
	escrowOpen                           bool
}

func (e *testEnv) snapshot(t *testing.T) snapshot {
	maker, taker := e.maker.Identity(), e.taker.Identity()
	_, err := e.svc.GetEscrow(ctx, e.escrowAddr)
	return snapshot{
		makerA:        e.tokenBalance(t, maker, e.mintA),
		makerB:        e.tokenBalance(t, maker, e.mintB),
		takerA:        e.tokenBalance(t, taker, e.mintA),
		takerB:        e.tokenBalance(t, taker, e.mintB),
		vault:         e.tokenBalance(t, e.escrowAddr, e.mintA),
		makerLamports: e.lamports(t, maker),
		takerLamports: e.lamports(t, taker),
		escrowOpen:    err == nil,
	}
}

func newWallet(t *testing.T) *wallet.Wallet {
	w, err := wallet.NewWallet()
	require.NoError(t, err)
	return w
}
