package contact

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
)

// BreakerSender fails fast once the wrapped provider has failed repeatedly,
// until the breaker timeout lets a probe through.
type BreakerSender struct {
	inner   Sender
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerSender wraps inner. Zero settings use the defaults.
func NewBreakerSender(inner Sender, maxFailures uint32, timeout time.Duration) *BreakerSender {
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	if timeout == 0 {
		timeout = defaultCBTimeout
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "mail:" + inner.Name(),
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return &BreakerSender{inner: inner, breaker: cb}
}

func (b *BreakerSender) Name() string { return b.inner.Name() }

func (b *BreakerSender) Send(ctx context.Context, sub Submission) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.inner.Send(ctx, sub)
	})
	return err
}

// State reports the breaker state, for the admin dashboard.
func (b *BreakerSender) State() string {
	return b.breaker.State().String()
}
