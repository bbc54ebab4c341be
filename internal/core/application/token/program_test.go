package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

var (
	ctx       = context.Background()
	programID = identity.MustFromString("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
	payer     = identity.MustFromString("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	mintAddr  = identity.MustFromString("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	otherMint = identity.MustFromString("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	owner     = identity.MustFromString("BPFLoaderUpgradeab1e11111111111111111111111")
)

func TestAuthorization(t *testing.T) {
	t.Parallel()

	seeds := [][]byte{[]byte("escrow"), payer.Bytes(), {42, 0, 0, 0, 0, 0, 0, 0}}
	derived, bump, err := identity.FindProgramAddress(seeds, programID)
	require.NoError(t, err)
	signerSeeds := append(seeds, []byte{bump})

	tests := []struct {
		name      string
		auth      token.Authorization
		authority identity.Identity
		expected  bool
	}{
		{
			name:      "signed",
			auth:      token.SignedBy(payer, owner),
			authority: owner,
			expected:  true,
		},
		{
			name:      "not signed",
			auth:      token.SignedBy(payer),
			authority: owner,
			expected:  false,
		},
		{
			name:      "signed with seeds",
			auth:      token.SignedWithSeeds(programID, signerSeeds),
			authority: derived,
			expected:  true,
		},
		{
			name:      "seeds of another invoker",
			auth:      token.SignedWithSeeds(owner, signerSeeds),
			authority: derived,
			expected:  false,
		},
		{
			name:      "seeds with wrong bump",
			auth:      token.SignedWithSeeds(programID, append(seeds, []byte{bump - 1})),
			authority: derived,
			expected:  false,
		},
		{
			name:      "empty",
			auth:      token.Authorization{},
			authority: payer,
			expected:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, tt.auth.Authorizes(tt.authority))
		})
	}
}

func TestMintAndTransfer(t *testing.T) {
	t.Parallel()

	program, _ := newTestProgram(t)
	payerAta := newFundedAccount(t, program, payer, 1000)

	ownerAta, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, owner, mintAddr, token.SignedBy(payer),
	)
	require.NoError(t, err)

	// Creating it again is a no-op that doesn't charge the payer.
	lamports, err := program.GetLamports(ctx, payer)
	require.NoError(t, err)
	again, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, owner, mintAddr, token.SignedBy(payer),
	)
	require.NoError(t, err)
	require.Equal(t, ownerAta, again)
	lamportsAfter, err := program.GetLamports(ctx, payer)
	require.NoError(t, err)
	require.Equal(t, lamports, lamportsAfter)

	err = program.TransferChecked(
		ctx, payerAta, mintAddr, ownerAta, payer, 400, 6, token.SignedBy(payer),
	)
	require.NoError(t, err)

	requireTokenBalance(t, program, payerAta, 600)
	requireTokenBalance(t, program, ownerAta, 400)

	mint, err := program.GetMint(ctx, mintAddr)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), mint.Supply)
}

func TestTransferCheckedFails(t *testing.T) {
	t.Parallel()

	program, _ := newTestProgram(t)
	payerAta := newFundedAccount(t, program, payer, 1000)
	ownerAta, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, owner, mintAddr, token.SignedBy(payer),
	)
	require.NoError(t, err)

	err = program.InitializeMint(
		ctx, payer, otherMint, payer, 6, token.SignedBy(payer),
	)
	require.NoError(t, err)
	otherAta, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, owner, otherMint, token.SignedBy(payer),
	)
	require.NoError(t, err)

	tests := []struct {
		name        string
		destination identity.Identity
		authority   identity.Identity
		amount      uint64
		decimals    uint8
		auth        token.Authorization
		expectedErr error
	}{
		{
			name:        "insufficient balance",
			destination: ownerAta,
			authority:   payer,
			amount:      1001,
			decimals:    6,
			auth:        token.SignedBy(payer),
			expectedErr: domain.ErrInsufficientBalance,
		},
		{
			name:        "decimals mismatch",
			destination: ownerAta,
			authority:   payer,
			amount:      1,
			decimals:    9,
			auth:        token.SignedBy(payer),
			expectedErr: domain.ErrDecimalsMismatch,
		},
		{
			name:        "mint mismatch",
			destination: otherAta,
			authority:   payer,
			amount:      1,
			decimals:    6,
			auth:        token.SignedBy(payer),
			expectedErr: domain.ErrAssetTypeMismatch,
		},
		{
			name:        "authority is not the owner",
			destination: ownerAta,
			authority:   owner,
			amount:      1,
			decimals:    6,
			auth:        token.SignedBy(owner),
			expectedErr: domain.ErrAuthorizationMismatch,
		},
		{
			name:        "owner did not sign",
			destination: ownerAta,
			authority:   payer,
			amount:      1,
			decimals:    6,
			auth:        token.SignedBy(owner),
			expectedErr: domain.ErrMissingSignature,
		},
	}

	for _, tt := range tests {
		err := program.TransferChecked(
			ctx, payerAta, mintAddr, tt.destination, tt.authority,
			tt.amount, tt.decimals, tt.auth,
		)
		require.ErrorIs(t, err, tt.expectedErr, tt.name)
	}

	requireTokenBalance(t, program, payerAta, 1000)
	requireTokenBalance(t, program, ownerAta, 0)
}

func TestCloseAccount(t *testing.T) {
	t.Parallel()

	program, _ := newTestProgram(t)
	payerAta := newFundedAccount(t, program, payer, 10)

	err := program.CloseAccount(ctx, payerAta, owner, payer, token.SignedBy(payer))
	require.ErrorIs(t, err, domain.ErrNonEmptyAccountOnClose)

	err = program.CloseAccount(ctx, payerAta, owner, owner, token.SignedBy(owner))
	require.ErrorIs(t, err, domain.ErrAuthorizationMismatch)

	ownerAta, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, owner, mintAddr, token.SignedBy(payer),
	)
	require.NoError(t, err)
	err = program.TransferChecked(
		ctx, payerAta, mintAddr, ownerAta, payer, 10, 6, token.SignedBy(payer),
	)
	require.NoError(t, err)

	err = program.CloseAccount(ctx, payerAta, owner, payer, token.SignedBy(payer))
	require.NoError(t, err)

	_, err = program.GetTokenAccount(ctx, payerAta)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	lamports, err := program.GetLamports(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, domain.RentExemptMinimum(domain.TokenAccountSpace), lamports)
}

func TestPayRent(t *testing.T) {
	t.Parallel()

	program, _ := newTestProgram(t)

	_, err := program.PayRent(
		ctx, payer, domain.EscrowSpace, token.SignedBy(payer),
	)
	require.ErrorIs(t, err, domain.ErrInsufficientLamports)

	require.NoError(t, program.Airdrop(ctx, payer, 2000000))

	_, err = program.PayRent(ctx, payer, domain.EscrowSpace, token.SignedBy(owner))
	require.ErrorIs(t, err, domain.ErrMissingSignature)

	lamports, err := program.PayRent(
		ctx, payer, domain.EscrowSpace, token.SignedBy(payer),
	)
	require.NoError(t, err)
	require.Equal(t, uint64(1733040), lamports)

	balance, err := program.GetLamports(ctx, payer)
	require.NoError(t, err)
	require.Equal(t, uint64(2000000-1733040), balance)
}

func newTestProgram(t *testing.T) (*token.Program, *inmemory.RepoManager) {
	repoManager := inmemory.NewRepoManager()
	program, err := token.NewProgram(repoManager)
	require.NoError(t, err)
	return program, repoManager.(*inmemory.RepoManager)
}

// newFundedAccount initializes the test mint with 6 decimals and issues
// amount units to the associated account of holder.
func newFundedAccount(
	t *testing.T, program *token.Program, holder identity.Identity, amount uint64,
) identity.Identity {
	err := program.Airdrop(ctx, payer, 100000000)
	require.NoError(t, err)

	err = program.InitializeMint(
		ctx, payer, mintAddr, payer, 6, token.SignedBy(payer),
	)
	require.NoError(t, err)

	ata, err := program.CreateAssociatedAccountIdempotent(
		ctx, payer, holder, mintAddr, token.SignedBy(payer),
	)
	require.NoError(t, err)

	err = program.MintTo(ctx, mintAddr, ata, amount, token.SignedBy(payer))
	require.NoError(t, err)
	return ata
}

func requireTokenBalance(
	t *testing.T, program *token.Program, address identity.Identity,
	expected uint64,
) {
	account, err := program.GetTokenAccount(ctx, address)
	require.NoError(t, err)
	require.Equal(t, expected, account.Amount)
}
