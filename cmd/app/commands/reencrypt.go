package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunReencrypt upgrades secrets still on the legacy master-key-only scheme to
// per-secret derived keys. Already-upgraded secrets are left untouched, so
// the command is safe to run repeatedly.
func RunReencrypt(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	upgraded, err := registry.ReencryptAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt secrets: %w", err)
	}

	fmt.Fprintf(io.Writer, "Re-encrypted %d secret(s).\n", upgraded)
	logger.Info("secrets re-encrypted", slog.Int("upgraded", upgraded))

	return nil
}
