package escrow

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/core/application/token"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/wallet"
)

// Take settles an escrow in a single atomic unit. The taker pays the receive
// amount of mint B to the maker, then the whole live balance of the vault is
// released to the taker, the vault is closed and so is the escrow record.
// The rent deposits of both go back to the maker, while the taker pays for
// the associated accounts created on demand.
//
// The taker's signature covers the seed and the receive amount of the
// escrow, and is accepted only once: an escrow reopened with the same seed
// can't be settled with a request signed for a previous one.
//
// No effect is committed if any step fails. Concurrent takes of the same
// escrow are serialized by the repo manager: the losers fail either with
// ErrEscrowNotFound or with the storage's conflict error, and are never
// retried.
func (s *Service) Take(
	ctx context.Context, req *TakeRequest,
) (settlement *domain.Settlement, err error) {
	defer func() {
		var released uint64
		if err == nil {
			released = settlement.AmountReleased
			log.WithFields(log.Fields{
				"escrow":   settlement.Escrow,
				"maker":    settlement.Maker,
				"taker":    settlement.Counterparty,
				"paid":     settlement.AmountPaid,
				"released": settlement.AmountReleased,
			}).Info("escrow taken")
			s.publish(ctx, ports.TopicEscrowTaken, newSettlementEvent(settlement))
		}
		s.observe(operationTake, released, err)
	}()

	if !wallet.Verify(req.Taker, req.Message(), req.Signature) {
		return nil, domain.ErrMissingSignature
	}
	if err := expectAddress(req.TakerAtaA, req.Taker, req.MintA); err != nil {
		return nil, err
	}
	if err := expectAddress(req.TakerAtaB, req.Taker, req.MintB); err != nil {
		return nil, err
	}
	if err := expectAddress(req.MakerAtaB, req.Maker, req.MintB); err != nil {
		return nil, err
	}

	res, err := s.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return s.take(ctx, req)
		},
	)
	if err != nil {
		return nil, err
	}
	return res.(*domain.Settlement), nil
}

func (s *Service) take(
	ctx context.Context, req *TakeRequest,
) (*domain.Settlement, error) {
	escrow, err := s.repoManager.EscrowRepository().GetEscrow(ctx, req.Escrow)
	if err != nil {
		return nil, err
	}
	if escrow.Maker != req.Maker {
		return nil, domain.ErrAuthorizationMismatch
	}
	if escrow.MintA != req.MintA || escrow.MintB != req.MintB {
		return nil, domain.ErrAssetTypeMismatch
	}
	// The signature only authorizes the terms it covers.
	if escrow.Seed != req.Seed || escrow.Receive != req.Receive {
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
	mintB, err := s.program.GetMint(ctx, escrow.MintB)
	if err != nil {
		return nil, err
	}

	vault, err := s.loadVault(ctx, escrow, req.Vault)
	if err != nil {
		return nil, err
	}

	takerAtaB, err := s.program.GetTokenAccount(ctx, req.TakerAtaB)
	if err != nil {
		return nil, err
	}
	if takerAtaB.Mint != escrow.MintB {
		return nil, domain.ErrAssetTypeMismatch
	}
	if takerAtaB.Owner != req.Taker {
		return nil, domain.ErrAuthorizationMismatch
	}
	if takerAtaB.Amount < escrow.Receive {
		return nil, domain.ErrInsufficientBalance
	}

	takerAuth := token.SignedBy(req.Taker)
	escrowAuth := token.SignedWithSeeds(s.programID, escrow.SignerSeeds())

	if _, err := s.program.CreateAssociatedAccountIdempotent(
		ctx, req.Taker, req.Taker, escrow.MintA, takerAuth,
	); err != nil {
		return nil, err
	}
	if _, err := s.program.CreateAssociatedAccountIdempotent(
		ctx, req.Taker, escrow.Maker, escrow.MintB, takerAuth,
	); err != nil {
		return nil, err
	}

	if err := s.program.TransferChecked(
		ctx, req.TakerAtaB, escrow.MintB, req.MakerAtaB, req.Taker,
		escrow.Receive, mintB.Decimals, takerAuth,
	); err != nil {
		return nil, err
	}

	// The whole live balance is released, including any amount deposited
	// into the vault after the escrow was opened.
	if err := s.program.TransferChecked(
		ctx, vault.Address, escrow.MintA, req.TakerAtaA, escrow.Address,
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
		domain.SettlementTypeTake, *escrow, req.Taker,
	)
	settlement.AmountPaid = escrow.Receive
	settlement.AmountReleased = vault.Amount
	settlement.RentReturned = vault.Lamports + escrow.Lamports
	if err := s.repoManager.SettlementRepository().AddSettlement(
		ctx, settlement,
	); err != nil {
		return nil, err
	}
	return settlement, nil
}
