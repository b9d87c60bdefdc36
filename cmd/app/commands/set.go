package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunSet stores a new secret in the vault. The value is read from the flag
// when provided, otherwise the user is prompted for it.
//
// Requirements: the vault must be initialized; the PIN unlocks it for this
// invocation.
func RunSet(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	appName string,
	keyName string,
	value string,
	apiURL string,
	description string,
	format string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	value, err := readValue(io, value)
	if err != nil {
		return err
	}

	secret, err := registry.Create(ctx, &secretsDomain.CreateSecretInput{
		AppName:     appName,
		KeyName:     keyName,
		Value:       value,
		APIURL:      apiURL,
		Description: description,
	})
	if err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}

	if err := printSecret(io.Writer, secret, format, false); err != nil {
		return err
	}

	logger.Info("secret created",
		slog.String("secret_id", secret.ID.String()),
		slog.String("key_name", keyName),
	)

	return nil
}
