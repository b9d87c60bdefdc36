package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunList prints the metadata of every stored secret. Values are never
// decrypted by a listing.
func RunList(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	format string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	secrets, err := registry.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list secrets: %w", err)
	}

	if err := printSecretList(io.Writer, secrets, format); err != nil {
		return err
	}

	logger.Info("secrets listed", slog.Int("count", len(secrets)))

	return nil
}
