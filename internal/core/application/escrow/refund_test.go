package escrow_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

func TestRefund(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	record := env.open(t)

	req, err := escrow.NewRefundRequest(
		programID, env.maker.Identity(), env.mintA, seed,
	)
	require.NoError(t, err)

	// Only the maker can cancel.
	req.Sign(env.taker)
	_, err = env.svc.Refund(ctx, req)
	require.ErrorIs(t, err, domain.ErrMissingSignature)

	req.Sign(env.maker)
	settlement, err := env.svc.Refund(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.SettlementTypeRefund, settlement.Type)
	require.Equal(t, record.Address, settlement.Escrow)
	require.Equal(t, env.maker.Identity(), settlement.Counterparty)
	require.Zero(t, settlement.AmountPaid)
	require.Equal(t, deposit, settlement.AmountReleased)

	require.Equal(t, snapshot{
		makerA:        deposit,
		takerB:        receive,
		makerLamports: startLamports,
		takerLamports: startLamports,
	}, env.snapshot(t))

	// Neither refund nor take can run on a closed escrow.
	_, err = env.svc.Refund(ctx, req)
	require.ErrorIs(t, err, domain.ErrEscrowNotFound)
	_, err = env.svc.Take(ctx, env.takeRequest(t))
	require.ErrorIs(t, err, domain.ErrEscrowNotFound)
}

func TestRefundWrongMint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	env.open(t)
	before := env.snapshot(t)

	req, err := escrow.NewRefundRequest(
		programID, env.maker.Identity(), env.mintB, seed,
	)
	require.NoError(t, err)
	req.Sign(env.maker)

	_, err = env.svc.Refund(ctx, req)
	require.ErrorIs(t, err, domain.ErrAssetTypeMismatch)
	require.Equal(t, before, env.snapshot(t))
}

func TestRefundReplay(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, receive)
	env.open(t)

	signed, err := escrow.NewRefundRequest(
		programID, env.maker.Identity(), env.mintA, seed,
	)
	require.NoError(t, err)
	signed.Sign(env.maker)
	_, err = env.svc.Refund(ctx, signed)
	require.NoError(t, err)

	env.open(t)
	before := env.snapshot(t)

	_, err = env.svc.Refund(ctx, signed)
	require.ErrorIs(t, err, domain.ErrSignatureAlreadyProcessed)
	require.Equal(t, before, env.snapshot(t))
	require.True(t, before.escrowOpen)
}
