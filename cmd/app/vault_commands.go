package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vult/cmd/app/commands"
	"github.com/allisson/vult/internal/app"
	"github.com/allisson/vult/internal/config"
)

func getVaultCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "init",
			Usage: "Initialize a new vault with a PIN",
			Flags: []cli.Flag{
				pinFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				session, err := container.Session()
				if err != nil {
					return err
				}

				return commands.RunInit(
					ctx,
					session,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
				)
			},
		},
		{
			Name:  "change-pin",
			Usage: "Change the vault PIN and re-encrypt all secrets",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "old-pin",
					Value: "",
					Usage: "Current vault PIN (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:  "new-pin",
					Value: "",
					Usage: "New vault PIN (omit to be prompted)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				session, err := container.Session()
				if err != nil {
					return err
				}
				registry, err := container.SecretRegistry()
				if err != nil {
					return err
				}

				return commands.RunChangePIN(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("old-pin"),
					cmd.String("new-pin"),
				)
			},
		},
		{
			Name:  "reencrypt",
			Usage: "Upgrade legacy secrets to per-secret encryption keys",
			Flags: []cli.Flag{
				pinFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				session, err := container.Session()
				if err != nil {
					return err
				}
				registry, err := container.SecretRegistry()
				if err != nil {
					return err
				}

				return commands.RunReencrypt(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
				)
			},
		},
		{
			Name:  "status",
			Usage: "Show whether the vault is initialized",
			Flags: []cli.Flag{
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				session, err := container.Session()
				if err != nil {
					return err
				}

				return commands.RunStatus(
					ctx,
					session,
					container.Logger(),
					commands.DefaultIO(),
					cfg.DBPath,
					cmd.String("format"),
				)
			},
		},
	}
}
