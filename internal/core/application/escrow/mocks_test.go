package escrow_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

// **** PubSub ****

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	args := m.Called(topic, endpoint, secret)
	return args.String(0), args.Error(1)
}

func (m *mockPubSub) Unsubscribe(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptionsForTopic(
	ctx context.Context, topic string,
) ([]domain.Subscription, error) {
	args := m.Called(topic)

	var res []domain.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]domain.Subscription)
	}
	return res, args.Error(1)
}

func (m *mockPubSub) Publish(ctx context.Context, topic, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}
