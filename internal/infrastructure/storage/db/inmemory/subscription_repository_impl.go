package inmemory

import (
	"context"
	"errors"
	"sort"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

type subscriptionRepositoryImpl struct {
	store *table[string, domain.Subscription]
}

// NewSubscriptionRepositoryImpl returns a new empty subscription repository.
func NewSubscriptionRepositoryImpl() domain.SubscriptionRepository {
	return newSubscriptionRepositoryImpl()
}

func newSubscriptionRepositoryImpl() *subscriptionRepositoryImpl {
	return &subscriptionRepositoryImpl{newTable[string, domain.Subscription]()}
}

func (r *subscriptionRepositoryImpl) AddSubscription(
	ctx context.Context, sub *domain.Subscription,
) error {
	err := r.store.insert(ctx, sub.ID, *sub)
	if errors.Is(err, errKeyExists) {
		return domain.ErrAccountAlreadyInUse
	}
	return err
}

func (r *subscriptionRepositoryImpl) GetSubscription(
	ctx context.Context, id string,
) (*domain.Subscription, error) {
	sub, ok := r.store.get(ctx, id)
	if !ok {
		return nil, domain.ErrSubscriptionNotFound
	}
	return &sub, nil
}

func (r *subscriptionRepositoryImpl) GetSubscriptionsByTopic(
	ctx context.Context, topic string,
) ([]domain.Subscription, error) {
	subs := r.store.filter(ctx, func(s domain.Subscription) bool {
		return topic == "" || s.Topic == topic
	})
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

func (r *subscriptionRepositoryImpl) DeleteSubscription(
	ctx context.Context, id string,
) error {
	err := r.store.delete(ctx, id)
	if errors.Is(err, errKeyNotFound) {
		return domain.ErrSubscriptionNotFound
	}
	return err
}
