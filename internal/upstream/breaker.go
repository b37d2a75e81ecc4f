package upstream

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig trips the breaker after FailureThreshold consecutive failures
// and probes the service again after RecoveryTime. A zero threshold disables it.
type BreakerConfig struct {
	FailureThreshold uint32
	RecoveryTime     time.Duration
}

type breaker interface {
	Execute(fn func() error) error
}

type noopBreaker struct{}

func (noopBreaker) Execute(fn func() error) error {
	return fn()
}

type gobreakerWrapper struct {
	cb *gobreaker.CircuitBreaker
}

func (g *gobreakerWrapper) Execute(fn func() error) error {
	_, err := g.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

func newBreaker(service string, cfg BreakerConfig) breaker {
	if cfg.FailureThreshold == 0 {
		return noopBreaker{}
	}
	return &gobreakerWrapper{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Timeout:     cfg.RecoveryTime,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// only an unhealthy service counts; a 4xx is the caller's problem
		IsSuccessful: func(err error) bool {
			return !isServiceFailure(err)
		},
	})}
}

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		return true
	}
	var uerr *UpstreamError
	return errors.As(err, &uerr) && uerr.Status >= 500
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
