package circuitbreaker

import (
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// NewCircuitBreaker is a factory function returning a *gobreaker.CircuitBreaker
// that trips once the overall number of requests has exceeded the tweakable
// MaxNumOfFailingRequests cap and the failing ratio has met the FailingRatio.
// State changes are logged with the given name.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: name,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			l := log.WithField("breaker", name)
			if to == gobreaker.StateOpen {
				l.Warn("too many failing requests, stop allowing them")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				l.Info("checking whether requests succeed again")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				l.Info("requests succeed again, restart allowing them")
			}
		},
	})
}
