package token

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
)

// Program applies the token and system instructions to the ledger state.
// Every instruction runs within the transaction carried by ctx, if any: the
// caller decides what makes an atomic unit.
type Program struct {
	repoManager ports.RepoManager
}

func NewProgram(repoManager ports.RepoManager) (*Program, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	return &Program{repoManager}, nil
}

// Airdrop credits the given lamports to an identity out of thin air.
func (p *Program) Airdrop(
	ctx context.Context, to identity.Identity, lamports uint64,
) error {
	if lamports == 0 {
		return domain.ErrInvalidAmount
	}
	return p.CreditLamports(ctx, to, lamports)
}

// TransferLamports moves native lamports between system accounts.
func (p *Program) TransferLamports(
	ctx context.Context, from, to identity.Identity, lamports uint64,
	auth Authorization,
) error {
	if !auth.Authorizes(from) {
		return domain.ErrMissingSignature
	}
	if err := p.debitLamports(ctx, from, lamports); err != nil {
		return err
	}
	return p.CreditLamports(ctx, to, lamports)
}

// PayRent debits the payer with the rent-exempt minimum of an account of
// the given size, and returns the amount to be assigned to the new account.
func (p *Program) PayRent(
	ctx context.Context, payer identity.Identity, space uint64,
	auth Authorization,
) (uint64, error) {
	if !auth.Authorizes(payer) {
		return 0, domain.ErrMissingSignature
	}
	lamports := domain.RentExemptMinimum(space)
	if err := p.debitLamports(ctx, payer, lamports); err != nil {
		return 0, err
	}
	return lamports, nil
}

// InitializeMint creates a new mint at the given address. The payer funds
// its rent deposit.
func (p *Program) InitializeMint(
	ctx context.Context, payer, mint, mintAuthority identity.Identity,
	decimals uint8, auth Authorization,
) error {
	if _, err := p.repoManager.MintRepository().GetMint(ctx, mint); err == nil {
		return domain.ErrAccountAlreadyInUse
	}

	lamports, err := p.PayRent(ctx, payer, domain.MintSpace, auth)
	if err != nil {
		return err
	}

	m := domain.NewMint(mint, mintAuthority, decimals)
	m.Lamports = lamports
	if err := p.repoManager.MintRepository().AddMint(ctx, m); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"mint":     mint,
		"decimals": decimals,
	}).Debug("mint initialized")
	return nil
}

// MintTo issues new units of a mint into the destination token account. The
// mint authority must sign.
func (p *Program) MintTo(
	ctx context.Context, mint, destination identity.Identity, amount uint64,
	auth Authorization,
) error {
	if amount == 0 {
		return domain.ErrInvalidAmount
	}

	dest, err := p.repoManager.TokenAccountRepository().GetTokenAccount(
		ctx, destination,
	)
	if err != nil {
		return err
	}
	if dest.Mint != mint {
		return domain.ErrAssetTypeMismatch
	}

	if err := p.repoManager.MintRepository().UpdateMint(
		ctx, mint, func(m *domain.Mint) (*domain.Mint, error) {
			if !auth.Authorizes(m.MintAuthority) {
				return nil, domain.ErrMissingSignature
			}
			if err := m.Issue(amount); err != nil {
				return nil, err
			}
			return m, nil
		},
	); err != nil {
		return err
	}

	return p.repoManager.TokenAccountRepository().UpdateTokenAccount(
		ctx, destination, credit(amount),
	)
}

// CreateAssociatedAccountIdempotent makes sure the associated token account
// of owner for mint exists, creating it at the expense of payer if missing.
// It returns the address of the account.
func (p *Program) CreateAssociatedAccountIdempotent(
	ctx context.Context, payer, owner, mint identity.Identity,
	auth Authorization,
) (identity.Identity, error) {
	if _, err := p.repoManager.MintRepository().GetMint(ctx, mint); err != nil {
		return identity.Zero, err
	}

	account, err := domain.NewAssociatedTokenAccount(owner, mint)
	if err != nil {
		return identity.Zero, err
	}

	existing, err := p.repoManager.TokenAccountRepository().GetTokenAccount(
		ctx, account.Address,
	)
	if err == nil {
		if existing.Owner != owner || existing.Mint != mint {
			return identity.Zero, domain.ErrAccountAlreadyInUse
		}
		return existing.Address, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return identity.Zero, err
	}

	lamports, err := p.PayRent(ctx, payer, domain.TokenAccountSpace, auth)
	if err != nil {
		return identity.Zero, err
	}
	account.Lamports = lamports

	if err := p.repoManager.TokenAccountRepository().AddTokenAccount(
		ctx, account,
	); err != nil {
		return identity.Zero, err
	}

	log.WithFields(log.Fields{
		"account": account.Address,
		"owner":   owner,
		"mint":    mint,
	}).Debug("associated token account created")
	return account.Address, nil
}

// TransferChecked moves amount units from source to destination. Both
// accounts must hold the given mint, whose decimals must match the given
// ones, and authority must own the source and be authorized.
func (p *Program) TransferChecked(
	ctx context.Context,
	source, mint, destination, authority identity.Identity,
	amount uint64, decimals uint8, auth Authorization,
) error {
	repo := p.repoManager.TokenAccountRepository()

	m, err := p.repoManager.MintRepository().GetMint(ctx, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return domain.ErrDecimalsMismatch
	}

	from, err := repo.GetTokenAccount(ctx, source)
	if err != nil {
		return err
	}
	to, err := repo.GetTokenAccount(ctx, destination)
	if err != nil {
		return err
	}
	if from.Mint != mint || to.Mint != mint {
		return domain.ErrAssetTypeMismatch
	}
	if from.Owner != authority {
		return domain.ErrAuthorizationMismatch
	}
	if !auth.Authorizes(authority) {
		return domain.ErrMissingSignature
	}
	if from.Amount < amount {
		return domain.ErrInsufficientBalance
	}

	if source == destination {
		return nil
	}

	if err := repo.UpdateTokenAccount(ctx, source, debit(amount)); err != nil {
		return err
	}
	if err := repo.UpdateTokenAccount(ctx, destination, credit(amount)); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   source,
		"to":     destination,
		"mint":   mint,
		"amount": amount,
	}).Debug("tokens transferred")
	return nil
}

// CloseAccount deletes an empty token account and credits its rent deposit
// to destination. The owner of the account must be authorized.
func (p *Program) CloseAccount(
	ctx context.Context, account, destination, authority identity.Identity,
	auth Authorization,
) error {
	repo := p.repoManager.TokenAccountRepository()

	a, err := repo.GetTokenAccount(ctx, account)
	if err != nil {
		return err
	}
	if a.Owner != authority {
		return domain.ErrAuthorizationMismatch
	}
	if !auth.Authorizes(authority) {
		return domain.ErrMissingSignature
	}
	if !a.IsEmpty() {
		return domain.ErrNonEmptyAccountOnClose
	}

	if err := repo.DeleteTokenAccount(ctx, account); err != nil {
		return err
	}
	if err := p.CreditLamports(ctx, destination, a.Lamports); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"account":  account,
		"lamports": a.Lamports,
	}).Debug("token account closed")
	return nil
}

// GetTokenAccount returns the state of a token account.
func (p *Program) GetTokenAccount(
	ctx context.Context, address identity.Identity,
) (*domain.TokenAccount, error) {
	return p.repoManager.TokenAccountRepository().GetTokenAccount(ctx, address)
}

// GetMint returns the state of a mint.
func (p *Program) GetMint(
	ctx context.Context, address identity.Identity,
) (*domain.Mint, error) {
	return p.repoManager.MintRepository().GetMint(ctx, address)
}

// GetLamports returns the native balance of an identity.
func (p *Program) GetLamports(
	ctx context.Context, address identity.Identity,
) (uint64, error) {
	account, err := p.repoManager.SystemAccountRepository().GetSystemAccount(
		ctx, address,
	)
	if err != nil {
		return 0, err
	}
	return account.Lamports, nil
}

// CreditLamports credits lamports to the given identity, like those
// released by a closed account.
func (p *Program) CreditLamports(
	ctx context.Context, to identity.Identity, lamports uint64,
) error {
	return p.repoManager.SystemAccountRepository().UpdateSystemAccount(
		ctx, to, func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
			if err := a.Credit(lamports); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (p *Program) debitLamports(
	ctx context.Context, from identity.Identity, lamports uint64,
) error {
	return p.repoManager.SystemAccountRepository().UpdateSystemAccount(
		ctx, from, func(a *domain.SystemAccount) (*domain.SystemAccount, error) {
			if err := a.Debit(lamports); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func credit(amount uint64) func(*domain.TokenAccount) (*domain.TokenAccount, error) {
	return func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
		if err := a.Credit(amount); err != nil {
			return nil, err
		}
		return a, nil
	}
}

func debit(amount uint64) func(*domain.TokenAccount) (*domain.TokenAccount, error) {
	return func(a *domain.TokenAccount) (*domain.TokenAccount, error) {
		if err := a.Debit(amount); err != nil {
			return nil, err
		}
		return a, nil
	}
}
