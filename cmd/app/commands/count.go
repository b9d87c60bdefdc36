package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunCount prints the number of secrets stored in the vault.
func RunCount(
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

	count, err := registry.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count secrets: %w", err)
	}

	if format == "json" {
		return outputJSON(io.Writer, map[string]int64{"count": count})
	}
	fmt.Fprintf(io.Writer, "%d\n", count)

	logger.Info("secrets counted", slog.Int64("count", count))

	return nil
}
