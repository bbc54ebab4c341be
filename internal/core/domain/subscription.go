package domain

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Subscription is an endpoint notified with a POST request whenever an event
// is published for its topic. If Secret is set, requests carry a bearer
// token signed with it.
type Subscription struct {
	ID       string
	Topic    string
	Endpoint string
	Secret   string
}

// NewSubscription returns a new subscription with a random ID.
func NewSubscription(topic, endpoint, secret string) (*Subscription, error) {
	if len(topic) <= 0 {
		return nil, ErrMissingTopic
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEndpoint, err)
	}
	return &Subscription{uuid.New().String(), topic, endpoint, secret}, nil
}

// IsSecured returns whether notifications are authenticated.
func (s Subscription) IsSecured() bool {
	return len(s.Secret) > 0
}
