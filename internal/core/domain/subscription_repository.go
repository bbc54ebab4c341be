package domain

import "context"

// SubscriptionRepository is the abstraction for any kind of database intended
// to persist webhook subscriptions.
type SubscriptionRepository interface {
	// AddSubscription adds a new subscription to the repository.
	AddSubscription(ctx context.Context, sub *Subscription) error
	// GetSubscription returns the subscription with the given id.
	GetSubscription(ctx context.Context, id string) (*Subscription, error)
	// GetSubscriptionsByTopic returns the subscriptions for the given topic,
	// or all of them if topic is empty.
	GetSubscriptionsByTopic(ctx context.Context, topic string) ([]Subscription, error)
	// DeleteSubscription removes the subscription with the given id.
	DeleteSubscription(ctx context.Context, id string) error
}
