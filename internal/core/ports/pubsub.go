package ports

import (
	"context"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// AnyTopic subscribes to every event.
const AnyTopic = "*"

// Events published by the escrow service.
const (
	TopicEscrowOpened   = "ESCROW_OPENED"
	TopicEscrowTaken    = "ESCROW_TAKEN"
	TopicEscrowRefunded = "ESCROW_REFUNDED"
)

// Topics returns all the topics a client can subscribe to.
func Topics() []string {
	return []string{
		TopicEscrowOpened, TopicEscrowTaken, TopicEscrowRefunded, AnyTopic,
	}
}

// PubSub defines the methods of a webhook pubsub service.
type PubSub interface {
	// Subscribe adds a new subscription for the requested topic and returns
	// its id.
	Subscribe(ctx context.Context, topic, endpoint, secret string) (string, error)
	// Unsubscribe removes the subscription with the given id.
	Unsubscribe(ctx context.Context, id string) error
	// ListSubscriptionsForTopic returns the subscriptions notified for the
	// topic, including those for AnyTopic. An empty topic lists them all.
	ListSubscriptionsForTopic(
		ctx context.Context, topic string,
	) ([]domain.Subscription, error)
	// Publish sends the message to all the subscribers of the topic.
	Publish(ctx context.Context, topic, message string) error
}
