package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunDelete removes a secret from the vault and prints the metadata of the
// deleted entry.
func RunDelete(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	id string,
	format string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	secretID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid secret id: %w", err)
	}

	secret, err := registry.Delete(ctx, secretID)
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	if err := printSecret(io.Writer, secret, format, false); err != nil {
		return err
	}

	logger.Info("secret deleted",
		slog.String("secret_id", secret.ID.String()),
		slog.String("key_name", secret.KeyName),
	)

	return nil
}
