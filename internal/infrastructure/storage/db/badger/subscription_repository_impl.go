package dbbadger

import (
	"context"
	"errors"
	"sort"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type subscriptionRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSubscriptionRepositoryImpl returns a new badger subscription repository.
func NewSubscriptionRepositoryImpl(
	store *badgerhold.Store,
) domain.SubscriptionRepository {
	return &subscriptionRepositoryImpl{store}
}

func (r *subscriptionRepositoryImpl) AddSubscription(
	ctx context.Context, sub *domain.Subscription,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxInsert(tx, sub.ID, *sub)
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrAccountAlreadyInUse
		}
		return err
	})
}

func (r *subscriptionRepositoryImpl) GetSubscription(
	ctx context.Context, id string,
) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id, &sub)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepositoryImpl) GetSubscriptionsByTopic(
	ctx context.Context, topic string,
) ([]domain.Subscription, error) {
	var query *badgerhold.Query
	if topic != "" {
		query = badgerhold.Where("Topic").Eq(topic)
	}

	subs := make([]domain.Subscription, 0)
	if err := withTx(ctx, r.store, false, func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &subs, query)
	}); err != nil {
		return nil, err
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (r *subscriptionRepositoryImpl) DeleteSubscription(
	ctx context.Context, id string,
) error {
	return withTx(ctx, r.store, true, func(tx *badger.Txn) error {
		err := r.store.TxDelete(tx, id, domain.Subscription{})
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrSubscriptionNotFound
		}
		return err
	})
}
