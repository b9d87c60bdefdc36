package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/vult/internal/auth/domain"
)

// recordingMetrics captures recorded operations for assertions.
type recordingMetrics struct {
	operations []string
	statuses   []string
	durations  int
}

func (r *recordingMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	r.operations = append(r.operations, operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string) {
	r.durations++
}

func TestSessionUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("kdf operations are instrumented", func(t *testing.T) {
		inner, _ := newTestSession(t, defaultSessionConfig())
		recorder := &recordingMetrics{}
		session := NewSessionUseCaseWithMetrics(inner, recorder)

		require.NoError(t, session.Initialize(ctx, "123456"))
		session.Lock()
		require.NoError(t, session.Unlock(ctx, "123456"))
		require.NoError(t, session.ChangePIN(ctx, "123456", "654321", nil))

		assert.Equal(t, []string{"session_initialize", "session_unlock", "session_change_pin"}, recorder.operations)
		assert.Equal(t, []string{"success", "success", "success"}, recorder.statuses)
		assert.Equal(t, len(recorder.operations), recorder.durations)
	})

	t.Run("failures record error status", func(t *testing.T) {
		inner, _ := newTestSession(t, defaultSessionConfig())
		recorder := &recordingMetrics{}
		session := NewSessionUseCaseWithMetrics(inner, recorder)

		assert.ErrorIs(t, session.Unlock(ctx, "123456"), authDomain.ErrNotInitialized)
		assert.Equal(t, []string{"session_unlock"}, recorder.operations)
		assert.Equal(t, []string{"error"}, recorder.statuses)
	})

	t.Run("passthrough operations are not instrumented", func(t *testing.T) {
		inner, _ := newTestSession(t, defaultSessionConfig())
		recorder := &recordingMetrics{}
		session := NewSessionUseCaseWithMetrics(inner, recorder)

		session.Lock()
		session.UpdateActivity()
		assert.Equal(t, authDomain.StateUninitialized, session.SessionState())
		_, err := session.MasterKey()
		assert.ErrorIs(t, err, authDomain.ErrLocked)

		assert.Empty(t, recorder.operations)
	})
}
