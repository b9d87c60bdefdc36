package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/vult/internal/auth/domain"
	"github.com/allisson/vult/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics
// instrumentation on the operations that hit the KDF.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(session SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    session,
		metrics: m,
	}
}

func (s *sessionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "auth", operation, status)
	s.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

func (s *sessionUseCaseWithMetrics) Initialize(ctx context.Context, pin string) error {
	start := time.Now()
	err := s.next.Initialize(ctx, pin)
	s.record(ctx, "session_initialize", start, err)
	return err
}

func (s *sessionUseCaseWithMetrics) Unlock(ctx context.Context, pin string) error {
	start := time.Now()
	err := s.next.Unlock(ctx, pin)
	s.record(ctx, "session_unlock", start, err)
	return err
}

func (s *sessionUseCaseWithMetrics) ChangePIN(ctx context.Context, oldPIN, newPIN string, rekey RekeyFunc) error {
	start := time.Now()
	err := s.next.ChangePIN(ctx, oldPIN, newPIN, rekey)
	s.record(ctx, "session_change_pin", start, err)
	return err
}

func (s *sessionUseCaseWithMetrics) Lock() {
	s.next.Lock()
}

func (s *sessionUseCaseWithMetrics) MasterKey() ([]byte, error) {
	return s.next.MasterKey()
}

func (s *sessionUseCaseWithMetrics) UpdateActivity() {
	s.next.UpdateActivity()
}

func (s *sessionUseCaseWithMetrics) SessionState() authDomain.SessionState {
	return s.next.SessionState()
}

func (s *sessionUseCaseWithMetrics) IsInitialized(ctx context.Context) (bool, error) {
	return s.next.IsInitialized(ctx)
}

func (s *sessionUseCaseWithMetrics) Run(ctx context.Context) error {
	return s.next.Run(ctx)
}
