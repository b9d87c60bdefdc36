package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
)

// RunStatus reports whether the vault is initialized and where it lives.
// Never asks for a PIN.
func RunStatus(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	logger *slog.Logger,
	io IOTuple,
	dbPath string,
	format string,
) error {
	initialized, err := session.IsInitialized(ctx)
	if err != nil {
		return fmt.Errorf("failed to read vault status: %w", err)
	}

	if format == "json" {
		return outputJSON(io.Writer, map[string]any{
			"initialized": initialized,
			"path":        dbPath,
		})
	}

	fmt.Fprintf(io.Writer, "Vault:       %s\n", dbPath)
	if initialized {
		fmt.Fprintln(io.Writer, "Initialized: yes")
	} else {
		fmt.Fprintln(io.Writer, "Initialized: no (run 'vult init')")
	}

	logger.Debug("status reported", slog.Bool("initialized", initialized))

	return nil
}
