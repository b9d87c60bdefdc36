package main

import (
	"os"

	"github.com/urfave/cli/v3"
)

func getCommands() []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getVaultCommands()...)
	cmds = append(cmds, getSecretCommands()...)
	return cmds
}

// pinFlag is shared by every command that needs to unlock the vault. The PIN
// can come from the flag, the VULT_PIN environment variable, or an
// interactive prompt when both are empty.
func pinFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "pin",
		Aliases: []string{"p"},
		Value:   os.Getenv("VULT_PIN"),
		Usage:   "Vault PIN (defaults to VULT_PIN, omit both to be prompted)",
	}
}

func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}
