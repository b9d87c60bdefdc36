// Package main provides the entry point for the vult CLI.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	apperrors "github.com/allisson/vult/internal/errors"
)

var version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:     "vult",
		Usage:    "Local PIN-protected secret vault",
		Version:  version,
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(exitCode(err))
	}
}

// exitCode maps the domain error classes to distinct exit codes so scripts
// can tell a wrong PIN from a missing secret.
func exitCode(err error) int {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		return 2
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		return 3
	case apperrors.Is(err, apperrors.ErrNotFound):
		return 4
	case apperrors.Is(err, apperrors.ErrConflict):
		return 5
	case apperrors.Is(err, apperrors.ErrFailedPrecondition):
		return 6
	default:
		return 1
	}
}
