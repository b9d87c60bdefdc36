package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunSearch prints the metadata of secrets whose app name, key name, or
// description matches the query, case-insensitively.
func RunSearch(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	pin string,
	query string,
	format string,
) error {
	if err := unlockSession(ctx, session, io, pin); err != nil {
		return fmt.Errorf("failed to unlock vault: %w", err)
	}

	secrets, err := registry.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search secrets: %w", err)
	}

	if err := printSecretList(io.Writer, secrets, format); err != nil {
		return err
	}

	logger.Info("secrets searched",
		slog.String("query", query),
		slog.Int("count", len(secrets)),
	)

	return nil
}
