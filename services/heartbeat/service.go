// Package heartbeat logs a periodic liveness line with the kernel tick.
package heartbeat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"boardcode-go/rtos"
	"boardcode-go/services/config"
)

// Ticker is the millisecond tick source.
type Ticker interface {
	Tick() uint32
}

type Service struct {
	clock  Ticker
	period time.Duration
	hub    *rtos.Hub
	log    *zap.Logger
	beats  uint64
}

type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHub lets the service follow config.TopicApp updates.
func WithHub(h *rtos.Hub) Option { return func(s *Service) { s.hub = h } }

func New(clock Ticker, app config.App, opts ...Option) *Service {
	s := &Service{clock: clock, period: periodOf(app), log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func periodOf(a config.App) time.Duration {
	ms := a.HeartbeatPeriodMS
	if ms == 0 {
		ms = config.Defaults().HeartbeatPeriodMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Run beats until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	var updates <-chan rtos.Message
	if s.hub != nil {
		sub := s.hub.Subscribe(config.TopicApp)
		defer sub.Close()
		updates = sub.C()
	}

	tick := time.NewTicker(s.period)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			s.log.Info("heartbeat stopping", zap.Uint64("beats", s.beats))
			return ctx.Err()
		case <-tick.C:
			s.beats++
			s.log.Info("heartbeat", zap.Uint32("tick_ms", s.clock.Tick()), zap.Uint64("n", s.beats))
		case m := <-updates:
			a, ok := m.Payload.(config.App)
			if !ok {
				continue
			}
			if p := periodOf(a); p != s.period {
				s.period = p
				tick.Reset(p)
				s.log.Info("heartbeat period set", zap.Duration("period", p))
			}
		}
	}
}
