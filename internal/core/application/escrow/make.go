package escrow

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

// Make opens a new escrow. The maker pays for the rent deposits of the
// escrow record and of its vault, and moves the deposit from its own
// associated account of mint A into the vault.
func (s *Service) Make(
	ctx context.Context, req *MakeRequest,
) (escrow *domain.Escrow, err error) {
	defer func() {
		if err == nil {
			log.WithFields(log.Fields{
				"escrow":  escrow.Address,
				"maker":   escrow.Maker,
				"deposit": req.Deposit,
				"receive": escrow.Receive,
			}).Info("escrow opened")
			s.publish(
				ctx, ports.TopicEscrowOpened,
				newEscrowOpenedEvent(escrow, req.Deposit),
			)
		}
		s.observe(operationMake, 0, err)
	}()

	if !wallet.Verify(req.Maker, req.Message(), req.Signature) {
		return nil, domain.ErrMissingSignature
	}
	if req.Deposit == 0 {
		return nil, domain.ErrInvalidAmount
	}

	escrow, err = domain.NewEscrow(
		s.programID, req.Maker, req.MintA, req.MintB, req.Seed, req.Receive,
	)
	if err != nil {
		return nil, err
	}
	if req.Escrow != escrow.Address {
		return nil, domain.ErrAuthorizationMismatch
	}
	if err := expectAddress(req.Vault, escrow.Address, req.MintA); err != nil {
		return nil, err
	}
	if err := expectAddress(req.MakerAtaA, req.Maker, req.MintA); err != nil {
		return nil, err
	}

	auth := token.SignedBy(req.Maker)

	if _, err = s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			if err := s.consumeSignature(ctx, req.Signature); err != nil {
				return nil, err
			}

			mintA, err := s.program.GetMint(ctx, req.MintA)
			if err != nil {
				return nil, err
			}
			if _, err := s.program.GetMint(ctx, req.MintB); err != nil {
				return nil, err
			}

			lamports, err := s.program.PayRent(
				ctx, req.Maker, domain.EscrowSpace, auth,
			)
			if err != nil {
				return nil, err
			}
			escrow.Lamports = lamports
			if err := s.repoManager.EscrowRepository().AddEscrow(
				ctx, escrow,
			); err != nil {
				return nil, err
			}

			if _, err := s.program.CreateAssociatedAccountIdempotent(
				ctx, req.Maker, escrow.Address, req.MintA, auth,
			); err != nil {
				return nil, err
			}

			return nil, s.program.TransferChecked(
				ctx, req.MakerAtaA, req.MintA, req.Vault, req.Maker,
				req.Deposit, mintA.Decimals, auth,
			)
		},
	); err != nil {
		return nil, err
	}

	return escrow, nil
}
