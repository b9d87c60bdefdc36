package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/vult/internal/auth/domain"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
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

func TestSecretRegistryWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("successful operations record success", func(t *testing.T) {
		f := newFixture(t)
		recorder := &recordingMetrics{}
		registry := NewSecretRegistryWithMetrics(f.registry, recorder)

		created, err := registry.Create(ctx, createInput("github", "api-token", "hunter2"))
		require.NoError(t, err)
		_, err = registry.Get(ctx, "github", "api-token")
		require.NoError(t, err)
		_, err = registry.GetByID(ctx, created.ID)
		require.NoError(t, err)
		_, err = registry.List(ctx)
		require.NoError(t, err)
		_, err = registry.Search(ctx, "git")
		require.NoError(t, err)
		_, err = registry.Count(ctx)
		require.NoError(t, err)
		_, err = registry.ReencryptAll(ctx)
		require.NoError(t, err)
		_, err = registry.Update(ctx, created.ID, &secretsDomain.UpdateSecretInput{Description: strPtr("x")})
		require.NoError(t, err)
		_, err = registry.Delete(ctx, created.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"secret_create", "secret_get", "secret_get_by_id", "secret_list",
			"secret_search", "secret_count", "secret_reencrypt_all",
			"secret_update", "secret_delete",
		}, recorder.operations)
		for _, status := range recorder.statuses {
			assert.Equal(t, "success", status)
		}
		assert.Equal(t, len(recorder.operations), recorder.durations)
	})

	t.Run("failed operations record error", func(t *testing.T) {
		f := newFixture(t)
		recorder := &recordingMetrics{}
		registry := NewSecretRegistryWithMetrics(f.registry, recorder)
		f.session.Lock()

		_, err := registry.Get(ctx, "github", "missing")
		assert.ErrorIs(t, err, authDomain.ErrLocked)
		_, err = registry.Delete(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, authDomain.ErrLocked)

		assert.Equal(t, []string{"secret_get", "secret_delete"}, recorder.operations)
		assert.Equal(t, []string{"error", "error"}, recorder.statuses)
	})

	t.Run("rekey is instrumented", func(t *testing.T) {
		f := newFixture(t)
		recorder := &recordingMetrics{}
		registry := NewSecretRegistryWithMetrics(f.registry, recorder)

		require.NoError(t, f.session.ChangePIN(ctx, testPIN, "654321", registry.Rekey))
		assert.Equal(t, []string{"secret_rekey"}, recorder.operations)
	})
}
