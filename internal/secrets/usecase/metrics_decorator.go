package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vult/internal/metrics"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
)

// secretRegistryWithMetrics decorates SecretRegistry with metrics instrumentation.
type secretRegistryWithMetrics struct {
	next    SecretRegistry
	metrics metrics.BusinessMetrics
}

// NewSecretRegistryWithMetrics wraps a SecretRegistry with metrics recording.
func NewSecretRegistryWithMetrics(registry SecretRegistry, m metrics.BusinessMetrics) SecretRegistry {
	return &secretRegistryWithMetrics{
		next:    registry,
		metrics: m,
	}
}

func (s *secretRegistryWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

func (s *secretRegistryWithMetrics) Create(ctx context.Context, input *secretsDomain.CreateSecretInput) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

func (s *secretRegistryWithMetrics) Get(ctx context.Context, appName, keyName string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, appName, keyName)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

func (s *secretRegistryWithMetrics) GetByID(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetByID(ctx, secretID)
	s.record(ctx, "secret_get_by_id", start, err)
	return secret, err
}

func (s *secretRegistryWithMetrics) List(ctx context.Context) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.List(ctx)
	s.record(ctx, "secret_list", start, err)
	return secrets, err
}

func (s *secretRegistryWithMetrics) Search(ctx context.Context, q string) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	secrets, err := s.next.Search(ctx, q)
	s.record(ctx, "secret_search", start, err)
	return secrets, err
}

func (s *secretRegistryWithMetrics) Update(ctx context.Context, secretID uuid.UUID, input *secretsDomain.UpdateSecretInput) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Update(ctx, secretID, input)
	s.record(ctx, "secret_update", start, err)
	return secret, err
}

func (s *secretRegistryWithMetrics) Delete(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Delete(ctx, secretID)
	s.record(ctx, "secret_delete", start, err)
	return secret, err
}

func (s *secretRegistryWithMetrics) Count(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := s.next.Count(ctx)
	s.record(ctx, "secret_count", start, err)
	return count, err
}

func (s *secretRegistryWithMetrics) ReencryptAll(ctx context.Context) (int, error) {
	start := time.Now()
	upgraded, err := s.next.ReencryptAll(ctx)
	s.record(ctx, "secret_reencrypt_all", start, err)
	return upgraded, err
}

func (s *secretRegistryWithMetrics) Rekey(ctx context.Context, oldKey, newKey []byte) error {
	start := time.Now()
	err := s.next.Rekey(ctx, oldKey, newKey)
	s.record(ctx, "secret_rekey", start, err)
	return err
}
