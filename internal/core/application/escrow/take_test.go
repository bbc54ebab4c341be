package escrow_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"golang.org/x/sync/errgroup"
)

var (
	escrowRent = domain.RentExemptMinimum(domain.EscrowSpace)
	tokenRent  = domain.RentExemptMinimum(domain.TokenAccountSpace)
)

func TestTake(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	record := env.open(t)
	require.Equal(t, seed, record.Seed)
	require.Equal(t, receive, record.Receive)

	before := env.snapshot(t)
	require.Equal(t, snapshot{
		makerA:        0,
		makerB:        0,
		takerA:        0,
		takerB:        receive,
		vault:         deposit,
		makerLamports: startLamports - escrowRent - tokenRent,
		takerLamports: startLamports,
		escrowOpen:    true,
	}, before)

	settlement, err := env.svc.Take(ctx, env.takeRequest(t))
	require.NoError(t, err)
	require.NotNil(t, settlement)
	require.Equal(t, domain.SettlementTypeTake, settlement.Type)
	require.Equal(t, record.Address, settlement.Escrow)
	require.Equal(t, env.maker.Identity(), settlement.Maker)
	require.Equal(t, env.taker.Identity(), settlement.Counterparty)
	require.Equal(t, receive, settlement.AmountPaid)
	require.Equal(t, deposit, settlement.AmountReleased)
	require.Equal(t, escrowRent+tokenRent, settlement.RentReturned)

	after := env.snapshot(t)
	require.Equal(t, snapshot{
		makerA: 0,
		makerB: receive,
		takerA: deposit,
		takerB: 0,
		vault:  0,
		// Both rent deposits are back to the maker.
		makerLamports: startLamports,
		// The taker paid for its account of mint A and the maker's of mint B.
		takerLamports: startLamports - 2*tokenRent,
		escrowOpen:    false,
	}, after)

	// Conservation of both assets.
	require.Equal(
		t, before.makerA+before.takerA+before.vault,
		after.makerA+after.takerA+after.vault,
	)
	require.Equal(t, before.makerB+before.takerB, after.makerB+after.takerB)

	// The vault is gone, not just emptied.
	_, err = env.ledger.GetTokenBalance(ctx, record.Address, env.mintA)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	settlements, err := env.svc.ListSettlements(ctx, env.maker.Identity())
	require.NoError(t, err)
	require.Len(t, settlements, 1)
	require.Equal(t, settlement.ID, settlements[0].ID)

	// A destroyed escrow can't be taken twice.
	_, err = env.svc.Take(ctx, env.takeRequest(t))
	require.ErrorIs(t, err, domain.ErrEscrowNotFound)
	require.Equal(t, after, env.snapshot(t))
}

func TestTakeSweepsLiveBalance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	record := env.open(t)

	// Anyone can top up the vault after the escrow is opened.
	_, err := env.ledger.MintTo(ctx, env.mintAuth, env.mintA, record.Address, 50)
	require.NoError(t, err)

	settlement, err := env.svc.Take(ctx, env.takeRequest(t))
	require.NoError(t, err)
	require.Equal(t, deposit+50, settlement.AmountReleased)
	require.Equal(t, deposit+50, env.tokenBalance(t, env.taker.Identity(), env.mintA))
}

func TestTakeReusesExistingAccounts(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	env.open(t)

	_, err := env.ledger.CreateAssociatedAccount(
		ctx, env.taker, env.taker.Identity(), env.mintA,
	)
	require.NoError(t, err)
	_, err = env.ledger.CreateAssociatedAccount(
		ctx, env.maker, env.maker.Identity(), env.mintB,
	)
	require.NoError(t, err)
	takerLamports := env.lamports(t, env.taker.Identity())

	_, err = env.svc.Take(ctx, env.takeRequest(t))
	require.NoError(t, err)
	require.Equal(t, takerLamports, env.lamports(t, env.taker.Identity()))
}

func TestTakeFails(t *testing.T) {
	t.Parallel()

	stranger := newWallet(t)
	otherMint := identity.MustFromString("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")

	tests := []struct {
		name        string
		takerFunds  uint64
		request     func(t *testing.T, env *testEnv) *escrow.TakeRequest
		expectedErr error
	}{
		{
			name:       "insufficient funds",
			takerFunds: 400,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				return env.takeRequest(t)
			},
			expectedErr: domain.ErrInsufficientBalance,
		},
		{
			name:       "taker did not sign",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				req := env.takeRequest(t)
				req.Sign(stranger)
				return req
			},
			expectedErr: domain.ErrMissingSignature,
		},
		{
			name:       "signed message was tampered",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				req := env.takeRequest(t)
				req.Vault = req.TakerAtaB
				return req
			},
			expectedErr: domain.ErrMissingSignature,
		},
		{
			name:       "vault is not the escrow's",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				req := env.takeRequest(t)
				req.Vault = req.TakerAtaB
				req.Sign(env.taker)
				return req
			},
			expectedErr: domain.ErrAuthorizationMismatch,
		},
		{
			name:       "maker does not match the record",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				req := env.takeRequest(t)
				terms := env.terms()
				terms.Maker = stranger.Identity()
				fake := env.signedTakeRequest(t, terms)
				fake.Escrow = req.Escrow
				fake.Vault = req.Vault
				fake.Sign(env.taker)
				return fake
			},
			expectedErr: domain.ErrAuthorizationMismatch,
		},
		{
			name:       "mint b does not match the record",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				terms := env.terms()
				terms.MintB = otherMint
				return env.signedTakeRequest(t, terms)
			},
			expectedErr: domain.ErrAssetTypeMismatch,
		},
		{
			name:       "wrong seed",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				terms := env.terms()
				terms.Seed = seed + 1
				return env.signedTakeRequest(t, terms)
			},
			expectedErr: domain.ErrEscrowNotFound,
		},
		{
			name:       "signed for a different receive amount",
			takerFunds: 2 * receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				terms := env.terms()
				terms.Receive = receive - 1
				return env.signedTakeRequest(t, terms)
			},
			expectedErr: domain.ErrMissingSignature,
		},
		{
			name:       "seed does not match the escrow address",
			takerFunds: receive,
			request: func(t *testing.T, env *testEnv) *escrow.TakeRequest {
				req := env.takeRequest(t)
				req.Seed = seed + 1
				req.Sign(env.taker)
				return req
			},
			expectedErr: domain.ErrMissingSignature,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, tt.takerFunds)
			env.open(t)
			before := env.snapshot(t)

			settlement, err := env.svc.Take(ctx, tt.request(t, env))
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, settlement)

			// Nothing moved.
			require.Equal(t, before, env.snapshot(t))
		})
	}
}

func TestTakeTamperedRecord(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	record := env.open(t)

	// Rewrite the record with a bump that doesn't derive its address.
	tampered := *record
	tampered.Bump--
	repo := env.repoManager.EscrowRepository()
	require.NoError(t, repo.DeleteEscrow(ctx, record.Address))
	require.NoError(t, repo.AddEscrow(ctx, &tampered))
	before := env.snapshot(t)

	_, err := env.svc.Take(ctx, env.takeRequest(t))
	require.ErrorIs(t, err, domain.ErrAuthorizationMismatch)
	require.Equal(t, before, env.snapshot(t))
}

func TestTakeIsAtomic(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	record := env.open(t)

	// The taker can pay for its account of mint A but not for the maker's
	// of mint B: the creation of the former must be rolled back.
	sink := newWallet(t)
	takerLamports := env.lamports(t, env.taker.Identity())
	_, err := env.ledger.Transfer(
		ctx, env.taker, sink.Identity(), takerLamports-tokenRent,
	)
	require.NoError(t, err)
	before := env.snapshot(t)
	require.Equal(t, tokenRent, before.takerLamports)

	_, err = env.svc.Take(ctx, env.takeRequest(t))
	require.ErrorIs(t, err, domain.ErrInsufficientLamports)
	require.Equal(t, before, env.snapshot(t))

	_, err = env.ledger.GetTokenBalance(ctx, env.taker.Identity(), env.mintA)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	info, err := env.svc.GetEscrow(ctx, record.Address)
	require.NoError(t, err)
	require.Equal(t, deposit, info.Vault.Amount)
}

func TestConcurrentTakes(t *testing.T) {
	t.Parallel()

	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	tests := []struct {
		name string
		env  *testEnv
	}{
		{"inmemory", newTestEnvWithRepoManager(t, inmemory.NewRepoManager(), receive)},
		{"badger", newTestEnvWithRepoManager(t, badgerRepoManager, receive)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := tt.env
			env.open(t)
			req := env.takeRequest(t)

			var (
				lock      sync.Mutex
				successes int
				failures  []error
			)
			eg := &errgroup.Group{}
			for i := 0; i < 8; i++ {
				eg.Go(func() error {
					_, err := env.svc.Take(ctx, req)
					lock.Lock()
					defer lock.Unlock()
					if err != nil {
						failures = append(failures, err)
						return nil
					}
					successes++
					return nil
				})
			}
			require.NoError(t, eg.Wait())

			require.Equal(t, 1, successes)
			require.Len(t, failures, 7)
			for _, err := range failures {
				require.True(t,
					errors.Is(err, domain.ErrEscrowNotFound) ||
						errors.Is(err, badger.ErrConflict),
					err.Error(),
				)
			}

			require.Equal(t, receive, env.tokenBalance(t, env.maker.Identity(), env.mintB))
			require.Equal(t, deposit, env.tokenBalance(t, env.taker.Identity(), env.mintA))

			settlements, err := env.svc.ListSettlements(ctx, identity.Zero)
			require.NoError(t, err)
			require.Len(t, settlements, 1)
		})
	}
}

func TestTakeReplay(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, 4*receive)
	maker := env.maker.Identity()
	env.open(t)

	signed := env.takeRequest(t)
	_, err := env.svc.Take(ctx, signed)
	require.NoError(t, err)

	// The maker reopens the same seed asking 3 times more for a single unit.
	_, err = env.ledger.MintTo(ctx, env.mintAuth, env.mintA, maker, 1)
	require.NoError(t, err)
	reopen, err := escrow.NewMakeRequest(
		programID, maker, env.mintA, env.mintB, seed, 1, 3*receive,
	)
	require.NoError(t, err)
	reopen.Sign(env.maker)
	reopened, err := env.svc.Make(ctx, reopen)
	require.NoError(t, err)
	require.Equal(t, signed.Escrow, reopened.Address)
	before := env.snapshot(t)

	_, err = env.svc.Take(ctx, signed)
	require.ErrorIs(t, err, domain.ErrMissingSignature)
	require.Equal(t, before, env.snapshot(t))

	// Once back to the very same terms, the old request is still refused.
	refund, err := escrow.NewRefundRequest(programID, maker, env.mintA, seed)
	require.NoError(t, err)
	refund.Sign(env.maker)
	_, err = env.svc.Refund(ctx, refund)
	require.NoError(t, err)
	_, err = env.ledger.MintTo(ctx, env.mintAuth, env.mintA, maker, deposit-1)
	require.NoError(t, err)
	env.open(t)
	before = env.snapshot(t)

	_, err = env.svc.Take(ctx, signed)
	require.ErrorIs(t, err, domain.ErrSignatureAlreadyProcessed)
	require.Equal(t, before, env.snapshot(t))

	// A newly signed request for the same terms goes through.
	settlement, err := env.svc.Take(ctx, env.takeRequest(t))
	require.NoError(t, err)
	require.Equal(t, receive, settlement.AmountPaid)
	require.Equal(t, 2*receive, env.tokenBalance(t, env.taker.Identity(), env.mintB))
}
