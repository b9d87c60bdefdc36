// Package commands contains CLI command implementations for the vault.
//
// Every function takes its use cases and an IOTuple explicitly so tests can
// drive them without a real terminal or vault file.
package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// readPIN returns the PIN from the flag/environment value, or prompts for it.
func readPIN(io IOTuple, pin, prompt string) (string, error) {
	if pin != "" {
		return pin, nil
	}
	fmt.Fprintf(io.Writer, "%s: ", prompt)
	reader := bufio.NewReader(io.Reader)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read pin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readValue returns the secret value from the flag, or prompts for it.
func readValue(io IOTuple, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(io.Writer, "Value: ")
	reader := bufio.NewReader(io.Reader)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read value: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// unlockSession reads the PIN and unlocks the vault session.
func unlockSession(ctx context.Context, session authUsecase.SessionUseCase, io IOTuple, pin string) error {
	pin, err := readPIN(io, pin, "PIN")
	if err != nil {
		return err
	}
	return session.Unlock(ctx, pin)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// secretView is the JSON/text projection of a secret. The plaintext value is
// included only when the command decrypted it on purpose.
type secretView struct {
	ID          string `json:"id"`
	AppName     string `json:"app_name,omitempty"`
	KeyName     string `json:"key_name"`
	APIURL      string `json:"api_url,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Value       string `json:"value,omitempty"`
}

func newSecretView(secret *secretsDomain.Secret, includeValue bool) secretView {
	view := secretView{
		ID:          secret.ID.String(),
		AppName:     secret.AppName,
		KeyName:     secret.KeyName,
		APIURL:      secret.APIURL,
		Description: secret.Description,
		CreatedAt:   secret.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   secret.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if includeValue {
		view.Value = string(secret.Plaintext)
	}
	return view
}

// printSecret writes a secret in the requested format.
func printSecret(w io.Writer, secret *secretsDomain.Secret, format string, includeValue bool) error {
	view := newSecretView(secret, includeValue)
	if format == "json" {
		return outputJSON(w, view)
	}

	fmt.Fprintf(w, "ID:          %s\n", view.ID)
	if view.AppName != "" {
		fmt.Fprintf(w, "App:         %s\n", view.AppName)
	}
	fmt.Fprintf(w, "Key:         %s\n", view.KeyName)
	if view.APIURL != "" {
		fmt.Fprintf(w, "URL:         %s\n", view.APIURL)
	}
	if view.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", view.Description)
	}
	fmt.Fprintf(w, "Created:     %s\n", view.CreatedAt)
	fmt.Fprintf(w, "Updated:     %s\n", view.UpdatedAt)
	if includeValue {
		fmt.Fprintf(w, "Value:       %s\n", view.Value)
	}
	return nil
}

// printSecretList writes secret metadata in the requested format.
func printSecretList(w io.Writer, secrets []*secretsDomain.Secret, format string) error {
	if format == "json" {
		views := make([]secretView, 0, len(secrets))
		for _, secret := range secrets {
			views = append(views, newSecretView(secret, false))
		}
		return outputJSON(w, views)
	}

	if len(secrets) == 0 {
		fmt.Fprintln(w, "No secrets found.")
		return nil
	}
	for _, secret := range secrets {
		name := secret.KeyName
		if secret.AppName != "" {
			name = secret.AppName + "/" + secret.KeyName
		}
		fmt.Fprintf(w, "%-40s %s\n", name, secret.ID)
	}
	return nil
}
