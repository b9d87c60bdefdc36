package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunUpdate modifies fields of an existing secret. Nil fields in input are
// left unchanged; changing the app name, key name, or value re-encrypts the
// secret under its new identity.
func RunUpdate(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	id string,
	input *secretsDomain.UpdateSecretInput,
	format string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	secretID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid secret id: %w", err)
	}

	secret, err := registry.Update(ctx, secretID, input)
	if err != nil {
		return fmt.Errorf("failed to update secret: %w", err)
	}

	if err := printSecret(io.Writer, secret, format, false); err != nil {
		return err
	}

	logger.Info("secret updated", slog.String("secret_id", secret.ID.String()))

	return nil
}
