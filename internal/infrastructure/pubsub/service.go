package pubsub

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	requestTimeout = 15 * time.Second
	// maxRequestsPerSecond caps the outgoing webhook requests.
	maxRequestsPerSecond = 50
	readOnly             = true
)

var (
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repo manager")
	// ErrUnknownTopic is returned when subscribing to a topic never published.
	ErrUnknownTopic = errors.New("topic is unknown")
)

type service struct {
	repoManager ports.RepoManager
	httpClient  *client
	cb          *gobreaker.CircuitBreaker
	limiter     ratelimit.Limiter
}

// NewService returns a webhook pubsub service whose subscriptions are
// persisted with the given repo manager.
func NewService(repoManager ports.RepoManager) (ports.PubSub, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}

	return &service{
		repoManager: repoManager,
		httpClient:  newHTTPClient(requestTimeout),
		cb:          circuitbreaker.NewCircuitBreaker("webhooks"),
		limiter:     ratelimit.New(maxRequestsPerSecond),
	}, nil
}

func (ws *service) Subscribe(
	ctx context.Context, topic, endpoint, secret string,
) (string, error) {
	if !isKnownTopic(topic) {
		return "", ErrUnknownTopic
	}
	sub, err := domain.NewSubscription(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	if _, err := ws.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return nil, ws.repoManager.SubscriptionRepository().
				AddSubscription(ctx, sub)
		},
	); err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (ws *service) Unsubscribe(ctx context.Context, id string) error {
	_, err := ws.repoManager.RunTransaction(
		ctx, !readOnly, func(ctx context.Context) (interface{}, error) {
			return nil, ws.repoManager.SubscriptionRepository().
				DeleteSubscription(ctx, id)
		},
	)
	return err
}

func (ws *service) ListSubscriptionsForTopic(
	ctx context.Context, topic string,
) ([]domain.Subscription, error) {
	res, err := ws.repoManager.RunTransaction(
		ctx, readOnly, func(ctx context.Context) (interface{}, error) {
			repo := ws.repoManager.SubscriptionRepository()
			subs, err := repo.GetSubscriptionsByTopic(ctx, topic)
			if err != nil {
				return nil, err
			}
			if topic == "" || topic == ports.AnyTopic {
				return subs, nil
			}

			subsForAnyTopic, err := repo.GetSubscriptionsByTopic(
				ctx, ports.AnyTopic,
			)
			if err != nil {
				return nil, err
			}
			return append(subs, subsForAnyTopic...), nil
		},
	)
	if err != nil {
		return nil, err
	}
	return res.([]domain.Subscription), nil
}

// Publish notifies all the subscribers of the topic concurrently. Requests
// are rate limited and go through a circuit breaker shared by all endpoints.
func (ws *service) Publish(ctx context.Context, topic, message string) error {
	subs, err := ws.ListSubscriptionsForTopic(ctx, topic)
	if err != nil {
		return err
	}

	eg := &errgroup.Group{}
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(ctx, sub, topic, message) })
	}
	return eg.Wait()
}

func (ws *service) doRequest(
	ctx context.Context, sub domain.Subscription, topic, payload string,
) error {
	ws.limiter.Take()

	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
			"X-Topic":      topic,
		}
		if sub.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
				Subject:  topic,
				IssuedAt: time.Now().Unix(),
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(ctx, sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"webhook %s replied with status %d: %s", sub.ID, status, resp,
			)
		}
		return nil, nil
	})

	return err
}

func isKnownTopic(topic string) bool {
	for _, t := range ports.Topics() {
		if t == topic {
			return true
		}
	}
	return false
}
