// Package monitor runs the background verification loop: one sweep per
// tick, one resulting dispatch pair per completed sweep, autosave after
// each. The loop owns all writes it causes, preserving the store's
// single-writer rule.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nrchamb/QBDTestTool/internal/session"
	"github.com/nrchamb/QBDTestTool/internal/state"
	"github.com/nrchamb/QBDTestTool/internal/verify"
)

const (
	MinInterval     = 5 * time.Second
	MaxInterval     = 5 * time.Minute
	DefaultInterval = 30 * time.Second
)

var ErrAlreadyRunning = errors.New("monitoring already running")

type Service struct {
	store    *state.Store
	detector *verify.Detector
	sessions *session.Manager

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewService(store *state.Store, detector *verify.Detector, sessions *session.Manager) *Service {
	return &Service{store: store, detector: detector, sessions: sessions}
}

// Start begins periodic verification. The interval is clamped to the
// supported range; zero means the default. The first sweep runs
// immediately.
func (s *Service) Start(interval time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyRunning
	}

	interval = clampInterval(interval)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	s.store.Dispatch(state.SetMonitoring{Active: true})
	slog.Info("monitoring started", "interval", interval)

	go s.run(ctx, interval, s.done)

	return nil
}

// Stop halts the loop and waits for any in-progress sweep to observe
// cancellation. Results from sweeps that completed remain in the store.
// The lock is held until the monitoring flag is cleared, so a
// concurrent Start cannot have its flag overwritten by a stale stop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel == nil {
		return
	}

	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil

	s.store.Dispatch(state.SetMonitoring{Active: false})
	slog.Info("monitoring stopped")
}

// Running reports whether the loop is active.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Service) run(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.sweep(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sweep runs one verification pass and applies exactly one result
// dispatch pair. A cancelled sweep's partial results are still applied:
// they were collected before cancellation and remain valid.
func (s *Service) sweep(ctx context.Context) {
	report := s.detector.VerifyAll(ctx, s.store.State())
	if report.Summary.TotalVerified == 0 && ctx.Err() != nil {
		return
	}

	s.store.Dispatch(state.SetVerificationResults{Results: report.Results()})
	s.store.Dispatch(state.UpdateLastSync{At: time.Now()})

	if err := s.sessions.Save(s.store.State()); err != nil {
		slog.Error("failed to autosave session after sweep", "error", err)
	}
}

func clampInterval(interval time.Duration) time.Duration {
	switch {
	case interval <= 0:
		return DefaultInterval
	case interval < MinInterval:
		return MinInterval
	case interval > MaxInterval:
		return MaxInterval
	default:
		return interval
	}
}
