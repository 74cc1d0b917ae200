package contact

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jaeyunjks/portfolio/internal/store"
)

// Recorder keeps a log of submissions.
type Recorder interface {
	RecordMessage(ctx context.Context, m *store.Message) error
}

// ServiceConfig tunes delivery.
type ServiceConfig struct {
	Timeout       time.Duration
	RatePerMinute float64
	Burst         int
}

// Service sends submissions through a Sender, limiting each client address.
type Service struct {
	sender   Sender
	recorder Recorder
	cfg      ServiceConfig
	now      func() time.Time

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	lastSweep time.Time
}

// clientLimiter is one client's budget and when it was last used.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// sweepEvery is how often idle client budgets are dropped.
const sweepEvery = time.Minute

// NewService creates a service. recorder may be nil.
func NewService(sender Sender, recorder Recorder, cfg ServiceConfig) *Service {
	return &Service{
		sender:   sender,
		recorder: recorder,
		cfg:      cfg,
		now:      time.Now,
		limiters: make(map[string]*clientLimiter),
	}
}

// Sender returns the wrapped sender.
func (s *Service) Sender() Sender { return s.sender }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Submit delivers sub on behalf of client and records the outcome.
func (s *Service) Submit(ctx context.Context, client string, sub Submission) Result {
	res := Result{ID: uuid.NewString()}

	if !sub.Complete() {
		res.Err = ErrIncomplete
		return res
	}
	if !s.allow(client) {
		res.Err = ErrRateLimited
		return res
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := s.sender.Send(ctx, sub); err != nil {
		log.Printf("Error sending message via %s: %v", s.sender.Name(), err)
		res.Err = err
	} else {
		log.Printf("Message %s sent via %s from %s", res.ID, s.sender.Name(), sub.Email)
	}

	s.record(ctx, res, sub)
	return res
}

func (s *Service) record(ctx context.Context, res Result, sub Submission) {
	if s.recorder == nil {
		return
	}
	m := &store.Message{
		ID:      res.ID,
		Name:    sub.Name,
		Email:   sub.Email,
		Subject: sub.Subject,
		Body:    sub.Message,
		Status:  store.MessageSent,
	}
	if res.Err != nil {
		m.Status = store.MessageFailed
		m.Error = res.Err.Error()
	}
	// The delivery context may have expired; the record should still land.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.recorder.RecordMessage(rctx, m); err != nil {
		log.Printf("Error recording message %s: %v", res.ID, err)
	}
}

func (s *Service) allow(client string) bool {
	if s.cfg.RatePerMinute <= 0 {
		return true
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if now.Sub(s.lastSweep) >= sweepEvery {
		s.sweep(now)
	}
	c, ok := s.limiters[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(s.cfg.RatePerMinute/60.0), s.burst())}
		s.limiters[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (s *Service) burst() int {
	if s.cfg.Burst < 1 {
		return 1
	}
	return s.cfg.Burst
}

// sweep drops clients idle long enough for their bucket to be full again,
// so forgetting them changes nothing. Callers hold s.mu.
func (s *Service) sweep(now time.Time) {
	refill := time.Duration(float64(s.burst()) / (s.cfg.RatePerMinute / 60.0) * float64(time.Second))
	for ip, c := range s.limiters {
		if now.Sub(c.lastSeen) > refill {
			delete(s.limiters, ip)
		}
	}
	s.lastSweep = now
}

// tracked reports how many clients currently hold a budget.
func (s *Service) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}
