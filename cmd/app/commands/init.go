package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
)

// RunInit initializes a new vault with a PIN. Prompts for the PIN and a
// confirmation when no PIN was provided via flag or environment, and leaves
// the vault unlocked on success.
//
// Fails if the vault was already initialized.
func RunInit(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	logger *slog.Logger,
	io IOTuple,
	pin string,
) error {
	prompted := pin == ""

	pin, err := readPIN(io, pin, "Choose a PIN")
	if err != nil {
		return err
	}

	// Only ask for confirmation when the PIN was typed in.
	if prompted {
		confirm, err := readPIN(io, "", "Confirm PIN")
		if err != nil {
			return err
		}
		if pin != confirm {
			return fmt.Errorf("pins do not match")
		}
	}

	if err := session.Initialize(ctx, pin); err != nil {
		return fmt.Errorf("failed to initialize vault: %w", err)
	}

	fmt.Fprintln(io.Writer, "Vault initialized.")
	logger.Info("vault initialized")

	return nil
}
