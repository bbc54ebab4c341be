package escrow

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/identity"
	"github.com/tdex-network/tdex-escrow/pkg/stats"
)

const (
	operationMake   = "make"
	operationTake   = "take"
	operationRefund = "refund"

	readOnly = true
)

// Service runs the escrow instructions. Each of them is executed as a single
// atomic unit against the repo manager: either all its effects are
// committed or none is.
type Service struct {
	repoManager ports.RepoManager
	program     *token.Program
	programID   identity.Identity
	pubsub      ports.PubSub
	metrics     *stats.Metrics
}

// NewService returns a new escrow service for the given program ID. Both the
// pubsub service, notified of every committed instruction, and metrics are
// optional.
func NewService(
	repoManager ports.RepoManager, programID identity.Identity,
	pubsub ports.PubSub, metrics *stats.Metrics,
) (*Service, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if programID.IsZero() {
		return nil, ErrMissingProgramID
	}
	program, err := token.NewProgram(repoManager)
	if err != nil {
		return nil, err
	}
	return &Service{repoManager, program, programID, pubsub, metrics}, nil
}

// ProgramID returns the identity the escrow authorities are derived from.
func (s *Service) ProgramID() identity.Identity {
	return s.programID
}

// EscrowInfo is an open escrow together with the state of its vault.
type EscrowInfo struct {
	Escrow domain.Escrow
	Vault  domain.TokenAccount
}

// GetEscrow returns the escrow at the given address and its vault.
func (s *Service) GetEscrow(
	ctx context.Context, address identity.Identity,
) (*EscrowInfo, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			escrow, err := s.repoManager.EscrowRepository().GetEscrow(ctx, address)
			if err != nil {
				return nil, err
			}
			vaultAddr, err := domain.AssociatedTokenAddress(
				escrow.Address, escrow.MintA,
			)
			if err != nil {
				return nil, err
			}
			vault, err := s.program.GetTokenAccount(ctx, vaultAddr)
			if err != nil {
				return nil, err
			}
			return &EscrowInfo{*escrow, *vault}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*EscrowInfo), nil
}

// ListEscrows returns the open escrows of the given maker, or all of them if
// maker is the zero identity.
func (s *Service) ListEscrows(
	ctx context.Context, maker identity.Identity,
) ([]domain.Escrow, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			if maker.IsZero() {
				return s.repoManager.EscrowRepository().GetAllEscrows(ctx)
			}
			return s.repoManager.EscrowRepository().GetEscrowsByMaker(ctx, maker)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Escrow), nil
}

// ListSettlements returns the receipts where party is either maker or
// counterparty, or all of them if party is the zero identity.
func (s *Service) ListSettlements(
	ctx context.Context, party identity.Identity,
) ([]domain.Settlement, error) {
	res, err := s.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.SettlementRepository()
			if party.IsZero() {
				return repo.GetAllSettlements(ctx)
			}
			return repo.GetSettlementsByParty(ctx, party)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Settlement), nil
}

// loadVault returns the vault of the escrow after making sure it's the
// associated account of the escrow authority for mint A.
func (s *Service) loadVault(
	ctx context.Context, escrow *domain.Escrow, vaultAddr identity.Identity,
) (*domain.TokenAccount, error) {
	expected, err := domain.AssociatedTokenAddress(escrow.Address, escrow.MintA)
	if err != nil {
		return nil, err
	}
	if vaultAddr != expected {
		return nil, domain.ErrAuthorizationMismatch
	}

	vault, err := s.program.GetTokenAccount(ctx, vaultAddr)
	if err != nil {
		return nil, err
	}
	if vault.Mint != escrow.MintA {
		return nil, domain.ErrAssetTypeMismatch
	}
	if vault.Owner != escrow.Address {
		return nil, domain.ErrAuthorizationMismatch
	}
	return vault, nil
}

// closeEscrow deletes the escrow record and credits its rent deposit to the
// maker.
func (s *Service) closeEscrow(ctx context.Context, escrow *domain.Escrow) error {
	if err := s.repoManager.EscrowRepository().DeleteEscrow(
		ctx, escrow.Address,
	); err != nil {
		return err
	}
	return s.program.CreditLamports(ctx, escrow.Maker, escrow.Lamports)
}

// consumeSignature records the signature of the instruction being run. It
// fails if the same signed request was already committed.
func (s *Service) consumeSignature(ctx context.Context, signature []byte) error {
	return s.repoManager.SignatureRepository().AddSignature(ctx, signature)
}

func (s *Service) observe(operation string, released uint64, err error) {
	if err != nil {
		reason := failureReason(err)
		s.metrics.Failed(operation, reason)
		log.WithError(err).WithField("reason", reason).Debugf(
			"%s instruction rejected", operation,
		)
		return
	}
	s.metrics.Completed(operation, released)
}

func expectAddress(got identity.Identity, owner, mint identity.Identity) error {
	expected, err := domain.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return err
	}
	if got != expected {
		return domain.ErrAuthorizationMismatch
	}
	return nil
}
