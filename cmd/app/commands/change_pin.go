package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// RunChangePIN replaces the vault PIN. All stored secrets are re-encrypted
// under the new master key in the same transaction as the PIN change, so a
// failure leaves the vault fully usable with the old PIN.
func RunChangePIN(
	ctx context.Context,
	session authUsecase.SessionUseCase,
	registry secretsUsecase.SecretRegistry,
	logger *slog.Logger,
	io IOTuple,
	oldPIN string,
	newPIN string,
) error {
	oldPIN, err := readPIN(io, oldPIN, "Current PIN")
	if err != nil {
		return err
	}

	prompted := newPIN == ""
	newPIN, err = readPIN(io, newPIN, "New PIN")
	if err != nil {
		return err
	}
	if prompted {
		confirm, err := readPIN(io, "", "Confirm new PIN")
		if err != nil {
			return err
		}
		if newPIN != confirm {
			return fmt.Errorf("pins do not match")
		}
	}

	if err := session.ChangePIN(ctx, oldPIN, newPIN, registry.Rekey); err != nil {
		return fmt.Errorf("failed to change pin: %w", err)
	}

	fmt.Fprintln(io.Writer, "PIN changed. All secrets re-encrypted under the new key.")
	logger.Info("pin changed")

	return nil
}
