package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"
)

// RepoManager holds all the in-memory repositories. Write transactions are
// serialized, read-only ones can run concurrently.
type RepoManager struct {
	escrowRepository        *escrowRepositoryImpl
	mintRepository          *mintRepositoryImpl
	tokenAccountRepository  *tokenAccountRepositoryImpl
	systemAccountRepository *systemAccountRepositoryImpl
	settlementRepository    *settlementRepositoryImpl
	signatureRepository     *signatureRepositoryImpl
	subscriptionRepository  *subscriptionRepositoryImpl

	unitOfWork *uow.UnitOfWork
	lock       *sync.RWMutex
}

// NewRepoManager returns a new RepoManager with empty repositories.
func NewRepoManager() ports.RepoManager {
	escrowRepo := newEscrowRepositoryImpl()
	mintRepo := newMintRepositoryImpl()
	tokenAccountRepo := newTokenAccountRepositoryImpl()
	systemAccountRepo := newSystemAccountRepositoryImpl()
	settlementRepo := newSettlementRepositoryImpl()
	signatureRepo := newSignatureRepositoryImpl()
	subscriptionRepo := newSubscriptionRepositoryImpl()

	return &RepoManager{
		escrowRepository:        escrowRepo,
		mintRepository:          mintRepo,
		tokenAccountRepository:  tokenAccountRepo,
		systemAccountRepository: systemAccountRepo,
		settlementRepository:    settlementRepo,
		signatureRepository:     signatureRepo,
		subscriptionRepository:  subscriptionRepo,
		unitOfWork: uow.NewUnitOfWork(
			escrowRepo.store,
			mintRepo.store,
			tokenAccountRepo.store,
			systemAccountRepo.store,
			settlementRepo.store,
			signatureRepo.store,
			subscriptionRepo.store,
		),
		lock: &sync.RWMutex{},
	}
}

func (r *RepoManager) EscrowRepository() domain.EscrowRepository {
	return r.escrowRepository
}

func (r *RepoManager) MintRepository() domain.MintRepository {
	return r.mintRepository
}

func (r *RepoManager) TokenAccountRepository() domain.TokenAccountRepository {
	return r.tokenAccountRepository
}

func (r *RepoManager) SystemAccountRepository() domain.SystemAccountRepository {
	return r.systemAccountRepository
}

func (r *RepoManager) SettlementRepository() domain.SettlementRepository {
	return r.settlementRepository
}

func (r *RepoManager) SignatureRepository() domain.SignatureRepository {
	return r.signatureRepository
}

func (r *RepoManager) SubscriptionRepository() domain.SubscriptionRepository {
	return r.subscriptionRepository
}

// RunTransaction runs the handler within a unit of work spanning all the
// repositories. A panicking handler makes the transaction fail with an error.
func (r *RepoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (result interface{}, err error) {
	if readOnly {
		r.lock.RLock()
		defer r.lock.RUnlock()

		defer func() {
			if rec := recover(); rec != nil {
				result, err = nil, fmt.Errorf("recovered: %v", rec)
			}
		}()
		return handler(context.WithValue(ctx, readOnlyKey{}, true))
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.unitOfWork.Run(ctx, func(ctx context.Context) error {
		res, err := handler(ctx)
		if err != nil {
			return err
		}
		result = res
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *RepoManager) Close() {}
