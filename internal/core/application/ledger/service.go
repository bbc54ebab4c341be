package ledger

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

const readOnly = true

// TokenBalance is the balance of an associated token account with the
// decimals of its mint.
type TokenBalance struct {
	Account  identity.Identity
	Mint     identity.Identity
	Amount   uint64
	Decimals uint8
}

// Service stands up the ledger state the escrows operate on: native
// balances, mints and token accounts. Every method runs in its own atomic
// unit and signs with the given wallets.
type Service struct {
	repoManager ports.RepoManager
	program     *token.Program
}

func NewService(repoManager ports.RepoManager) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	program, err := token.NewProgram(repoManager)
	if err != nil {
		return nil, err
	}
	return &Service{repoManager, program}, nil
}

// Airdrop credits lamports to the given identity.
func (s *Service) Airdrop(
	ctx context.Context, to identity.Identity, lamports uint64,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := s.program.Airdrop(ctx, to, lamports); err != nil {
				return nil, err
			}
			return s.program.GetLamports(ctx, to)
		},
	)
	if err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"to":       to,
		"lamports": lamports,
	}).Debug("airdrop completed")
	return res.(uint64), nil
}

// Transfer moves lamports from the wallet's identity to another one and
// returns the remaining balance of the sender.
func (s *Service) Transfer(
	ctx context.Context, from *wallet.Wallet, to identity.Identity,
	lamports uint64,
) (uint64, error) {
	signer := from.Identity()
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := s.program.TransferLamports(
				ctx, signer, to, lamports, token.SignedBy(signer),
			); err != nil {
				return nil, err
			}
			return s.program.GetLamports(ctx, signer)
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// CreateMint initializes a new mint with a random address, whose mint
// authority and rent payer is the given wallet.
func (s *Service) CreateMint(
	ctx context.Context, authority *wallet.Wallet, decimals uint8,
) (identity.Identity, error) {
	mintKey, err := wallet.NewWallet()
	if err != nil {
		return identity.Zero, err
	}
	mint := mintKey.Identity()
	signer := authority.Identity()

	if _, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return nil, s.program.InitializeMint(
				ctx, signer, mint, signer, decimals, token.SignedBy(signer),
			)
		},
	); err != nil {
		return identity.Zero, err
	}

	log.WithFields(log.Fields{
		"mint":     mint,
		"decimals": decimals,
	}).Info("mint created")
	return mint, nil
}

// CreateAssociatedAccount makes sure the associated token account of owner
// for mint exists, creating it at the payer's expense if missing.
func (s *Service) CreateAssociatedAccount(
	ctx context.Context, payer *wallet.Wallet, owner, mint identity.Identity,
) (identity.Identity, error) {
	signer := payer.Identity()
	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return s.program.CreateAssociatedAccountIdempotent(
				ctx, signer, owner, mint, token.SignedBy(signer),
			)
		},
	)
	if err != nil {
		return identity.Zero, err
	}
	return res.(identity.Identity), nil
}

// MintTo issues amount units of mint to the associated account of owner,
// created on demand. The wallet must be the mint authority.
func (s *Service) MintTo(
	ctx context.Context, authority *wallet.Wallet,
	mint, owner identity.Identity, amount uint64,
) (identity.Identity, error) {
	signer := authority.Identity()
	auth := token.SignedBy(signer)

	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			account, err := s.program.CreateAssociatedAccountIdempotent(
				ctx, signer, owner, mint, auth,
			)
			if err != nil {
				return nil, err
			}
			if err := s.program.MintTo(ctx, mint, account, amount, auth); err != nil {
				return nil, err
			}
			return account, nil
		},
	)
	if err != nil {
		return identity.Zero, err
	}

	log.WithFields(log.Fields{
		"mint":   mint,
		"owner":  owner,
		"amount": amount,
	}).Info("tokens minted")
	return res.(identity.Identity), nil
}

// GetBalance returns the native balance of the given identity.
func (s *Service) GetBalance(
	ctx context.Context, address identity.Identity,
) (uint64, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			return s.program.GetLamports(ctx, address)
		},
	)
	if err != nil {
		return 0, err
	}
	return res.(uint64), nil
}

// GetMint returns the state of the given mint.
func (s *Service) GetMint(
	ctx context.Context, mint identity.Identity,
) (*domain.Mint, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			return s.program.GetMint(ctx, mint)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Mint), nil
}

// GetTokenBalance returns the balance of the associated account of owner for
// the given mint.
func (s *Service) GetTokenBalance(
	ctx context.Context, owner, mint identity.Identity,
) (*TokenBalance, error) {
	address, err := domain.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			m, err := s.program.GetMint(ctx, mint)
			if err != nil {
				return nil, err
			}
			account, err := s.program.GetTokenAccount(ctx, address)
			if err != nil {
				return nil, err
			}
			return &TokenBalance{address, mint, account.Amount, m.Decimals}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*TokenBalance), nil
}

// ListTokenBalances returns the balances of all the token accounts owned by
// the given identity.
func (s *Service) ListTokenBalances(
	ctx context.Context, owner identity.Identity,
) ([]TokenBalance, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			accounts, err := s.repoManager.TokenAccountRepository().
				GetTokenAccountsByOwner(ctx, owner)
			if err != nil {
				return nil, err
			}

			balances := make([]TokenBalance, 0, len(accounts))
			for _, a := range accounts {
				m, err := s.program.GetMint(ctx, a.Mint)
				if err != nil {
					return nil, err
				}
				balances = append(balances, TokenBalance{
					a.Address, a.Mint, a.Amount, m.Decimals,
				})
			}
			return balances, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]TokenBalance), nil
}
