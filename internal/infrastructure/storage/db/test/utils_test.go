package db_test

import (
	"context"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

var (
	readOnly  = true
	ctx       = context.Background()
	programID = identity.MustFromString("Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS")
)

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryRepoManager := inmemory.NewRepoManager()
	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerRepoManager.Close)

	return []repoManager{
		{
			Name:    "badger",
			Manager: badgerRepoManager,
		},
		{
			Name:    "inmemory",
			Manager: inmemoryRepoManager,
		},
	}
}

func makeRandomEscrow(t *testing.T, maker identity.Identity) *domain.Escrow {
	escrow, err := domain.NewEscrow(
		programID, maker, randomIdentity(), randomIdentity(),
		randomUint64(), 500,
	)
	require.NoError(t, err)
	escrow.Lamports = domain.RentExemptMinimum(domain.EscrowSpace)
	return escrow
}

func makeRandomTokenAccount(
	t *testing.T, owner identity.Identity,
) *domain.TokenAccount {
	account, err := domain.NewAssociatedTokenAccount(owner, randomIdentity())
	require.NoError(t, err)
	account.Amount = randomUint64() % 1000000
	return account
}

func randomIdentity() identity.Identity {
	var id identity.Identity
	//nolint
	rand.Read(id[:])
	return id
}

func randomUint64() uint64 {
	b := make([]byte, 8)
	//nolint
	rand.Read(b)
	var n uint64
	for _, v := range b {
		n = n<<8 | uint64(v)
	}
	return n
}
