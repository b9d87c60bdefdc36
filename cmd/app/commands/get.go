package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	cryptoDomain "github.com/allisson/vult/internal/crypto/domain"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunGet retrieves and decrypts a secret, looked up by (app, key) name or by
// ID when one is given. With valueOnly, just the plaintext is written, which
// makes the command usable in shell pipelines.
func RunGet(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	appName string,
	keyName string,
	id string,
	format string,
	valueOnly bool,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	var secret *secretsDomain.Secret
	var err error

	if id != "" {
		secretID, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return fmt.Errorf("invalid secret id: %w", parseErr)
		}
		secret, err = registry.GetByID(ctx, secretID)
	} else {
		secret, err = registry.Get(ctx, appName, keyName)
	}
	if err != nil {
		return fmt.Errorf("failed to get secret: %w", err)
	}
	defer cryptoDomain.Zero(secret.Plaintext)

	if valueOnly {
		fmt.Fprintln(io.Writer, string(secret.Plaintext))
		return nil
	}

	if err := printSecret(io.Writer, secret, format, true); err != nil {
		return err
	}

	logger.Info("secret retrieved", slog.String("secret_id", secret.ID.String()))

	return nil
}
