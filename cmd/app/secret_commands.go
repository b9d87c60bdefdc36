package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/vult/cmd/app/commands"
	"github.com/allisson/vult/internal/app"
	"github.com/allisson/vult/internal/config"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set",
			Usage: "Store a new secret in the vault",
			Flags: []cli.Flag{
				pinFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:    "app",
					Aliases: []string{"a"},
					Value:   "",
					Usage:   "Application name the secret belongs to",
				},
				&cli.StringFlag{
					Name:     "key",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Unique key name for the secret",
				},
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Value:   "",
					Usage:   "Secret value (omit to be prompted)",
				},
				&cli.StringFlag{
					Name:  "url",
					Value: "",
					Usage: "API URL associated with the secret",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Value:   "",
					Usage:   "Free-form description",
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

				return commands.RunSet(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("app"),
					cmd.String("key"),
					cmd.String("value"),
					cmd.String("url"),
					cmd.String("description"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "get",
			Usage: "Retrieve and decrypt a secret",
			Flags: []cli.Flag{
				pinFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:    "app",
					Aliases: []string{"a"},
					Value:   "",
					Usage:   "Application name the secret belongs to",
				},
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Value:   "",
					Usage:   "Key name of the secret",
				},
				&cli.StringFlag{
					Name:    "id",
					Aliases: []string{"i"},
					Value:   "",
					Usage:   "Secret ID (UUID), takes precedence over --app/--key",
				},
				&cli.BoolFlag{
					Name:    "value-only",
					Aliases: []string{"q"},
					Value:   false,
					Usage:   "Print only the plaintext value",
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

				return commands.RunGet(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("app"),
					cmd.String("key"),
					cmd.String("id"),
					cmd.String("format"),
					cmd.Bool("value-only"),
				)
			},
		},
		{
			Name:  "list",
			Usage: "List all secrets (metadata only, values stay encrypted)",
			Flags: []cli.Flag{
				pinFlag(),
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
				registry, err := container.SecretRegistry()
				if err != nil {
					return err
				}

				return commands.RunList(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "search",
			Usage: "Search secrets by app name, key name, or description",
			Flags: []cli.Flag{
				pinFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:     "query",
					Aliases:  []string{"q"},
					Required: true,
					Usage:    "Case-insensitive substring to search for",
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

				return commands.RunSearch(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("query"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "update",
			Usage: "Update fields of an existing secret",
			Flags: []cli.Flag{
				pinFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Secret ID (UUID)",
				},
				&cli.StringFlag{
					Name:    "app",
					Aliases: []string{"a"},
					Usage:   "New application name",
				},
				&cli.StringFlag{
					Name:    "key",
					Aliases: []string{"k"},
					Usage:   "New key name",
				},
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "New secret value",
				},
				&cli.StringFlag{
					Name:  "url",
					Usage: "New API URL",
				},
				&cli.StringFlag{
					Name:    "description",
					Aliases: []string{"d"},
					Usage:   "New description",
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

				// Only flags the user actually set become updates.
				input := &secretsDomain.UpdateSecretInput{}
				if cmd.IsSet("app") {
					value := cmd.String("app")
					input.AppName = &value
				}
				if cmd.IsSet("key") {
					value := cmd.String("key")
					input.KeyName = &value
				}
				if cmd.IsSet("value") {
					value := cmd.String("value")
					input.Value = &value
				}
				if cmd.IsSet("url") {
					value := cmd.String("url")
					input.APIURL = &value
				}
				if cmd.IsSet("description") {
					value := cmd.String("description")
					input.Description = &value
				}

				return commands.RunUpdate(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("id"),
					input,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "delete",
			Usage: "Delete a secret from the vault",
			Flags: []cli.Flag{
				pinFlag(),
				formatFlag(),
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Secret ID (UUID)",
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

				return commands.RunDelete(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "count",
			Usage: "Count the secrets stored in the vault",
			Flags: []cli.Flag{
				pinFlag(),
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
				registry, err := container.SecretRegistry()
				if err != nil {
					return err
				}

				return commands.RunCount(
					ctx,
					session,
					registry,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("pin"),
					cmd.String("format"),
				)
			},
		},
	}
}
