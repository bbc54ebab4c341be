package escrow

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

// Refund cancels an open escrow. The whole vault balance goes back to the
// maker's associated account of mint A, created on demand at the maker's
// expense, then the vault and the escrow record are closed.
func (s *Service) Refund(
	ctx context.Context, req *RefundRequest,
) (settlement *domain.Settlement, err error) {
	defer func() {
		var released uint64
		if err == nil {
			released = settlement.AmountReleased
			log.WithFields(log.Fields{
				"escrow":   settlement.Escrow,
				"maker":    settlement.Maker,
				"released": settlement.AmountReleased,
			}).Info("escrow refunded")
			s.publish(ctx, ports.TopicEscrowRefunded, newSettlementEvent(settlement))
		}
		s.observe(operationRefund, released, err)
	}()

	if !wallet.Verify(req.Maker, req.Message(), req.Signature) {
		return nil, domain.ErrMissingSignature
	}
	if err := expectAddress(req.MakerAtaA, req.Maker, req.MintA); err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return s.refund(ctx, req)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Settlement), nil
}

func (s *Service) refund(
	ctx context.Context, req *RefundRequest,
) (*domain.Settlement, error) {
	escrow, err := s.repoManager.EscrowRepository().GetEscrow(ctx, req.Escrow)
	if err != nil {
		return nil, err
	}
	if escrow.Maker != req.Maker {
		return nil, domain.ErrAuthorizationMismatch
	}
	if escrow.MintA != req.MintA {
		return nil, domain.ErrAssetTypeMismatch
	}
	if escrow.Seed != req.Seed {
		return nil, domain.ErrMissingSignature
	}
	if err := escrow.VerifyAuthority(s.programID); err != nil {
		return nil, err
	}
	if err := s.consumeSignature(ctx, req.Signature); err != nil {
		return nil, err
	}

	mintA, err := s.program.GetMint(ctx, escrow.MintA)
	if err != nil {
		return nil, err
	}
	vault, err := s.loadVault(ctx, escrow, req.Vault)
	if err != nil {
		return nil, err
	}

	escrowAuth := token.SignedWithSeeds(s.programID, escrow.SignerSeeds())

	if _, err := s.program.CreateAssociatedAccountIdempotent(
		ctx, req.Maker, req.Maker, escrow.MintA, token.SignedBy(req.Maker),
	); err != nil {
		return nil, err
	}

	if err := s.program.TransferChecked(
		ctx, vault.Address, escrow.MintA, req.MakerAtaA, escrow.Address,
		vault.Amount, mintA.Decimals, escrowAuth,
	); err != nil {
		return nil, err
	}
	if err := s.program.CloseAccount(
		ctx, vault.Address, escrow.Maker, escrow.Address, escrowAuth,
	); err != nil {
		return nil, err
	}
	if err := s.closeEscrow(ctx, escrow); err != nil {
		return nil, err
	}

	settlement := domain.NewSettlement(
		domain.SettlementTypeRefund, *escrow, req.Maker,
	)
	settlement.AmountReleased = vault.Amount
	settlement.RentReturned = vault.Lamports + escrow.Lamports
	if err := s.repoManager.SettlementRepository().AddSettlement(
		ctx, settlement,
	); err != nil {
		return nil, err
	}
	return settlement, nil
}
