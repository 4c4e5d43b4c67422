package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/otherjamesbrown/meetflow/credentials"
)

// credentialStore is the subset of credentials.Store the auth commands use.
type credentialStore interface {
	Set(name, value string) error
	Delete(name string) error
	Status() map[string]string
}

// AuthCommandDeps holds the dependencies for the auth commands.
type AuthCommandDeps struct {
	Store credentialStore

	// ReadSecret prompts for a secret value. The default reads without echo
	// when stdin is a terminal.
	ReadSecret func(prompt string) (string, error)
}

// DefaultAuthDeps returns the production dependencies.
func DefaultAuthDeps() *AuthCommandDeps {
	return &AuthCommandDeps{
		Store:      credentials.NewStore(),
		ReadSecret: readSecret,
	}
}

// readSecret reads a secret from stdin, hiding input on a real terminal.
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	if term.IsTerminal(int(syscall.Stdin)) {
		data, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	// Piped input, e.g. in scripts.
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return strings.TrimSpace(line), nil
}

var credentialNames = []string{credentials.AnthropicAPIKey, credentials.NotionToken}

func validCredentialName(name string) error {
	for _, n := range credentialNames {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("unknown credential %q (expected one of: %s)",
		name, strings.Join(credentialNames, ", "))
}

// NewAuthCommand creates the auth command group.
func NewAuthCommand(deps *AuthCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultAuthDeps()
	}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage API credentials in the system keyring",
	}

	cmd.AddCommand(
		newAuthSetCommand(deps),
		newAuthStatusCommand(deps),
		newAuthDeleteCommand(deps),
	)
	return cmd
}

func newAuthSetCommand(deps *AuthCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <credential>",
		Short: "Store a credential in the system keyring",
		Long: fmt.Sprintf(`Store a credential in the system keyring. The value is prompted for and
never echoed.

Credentials: %s

Examples:
  meetflow auth set %s
  meetflow auth set %s`,
			strings.Join(credentialNames, ", "),
			credentials.AnthropicAPIKey, credentials.NotionToken),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validCredentialName(name); err != nil {
				return err
			}

			value, err := deps.ReadSecret(fmt.Sprintf("Enter %s: ", name))
			if err != nil {
				return err
			}
			if err := deps.Store.Set(name, value); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", name)
			return nil
		},
	}
}

func newAuthStatusCommand(deps *AuthCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where each credential resolves from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := deps.Store.Status()
			out := cmd.OutOrStdout()
			for _, name := range credentialNames {
				fmt.Fprintf(out, "%-20s %s\n", name, status[name])
			}
			return nil
		},
	}
}

func newAuthDeleteCommand(deps *AuthCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <credential>",
		Short: "Remove a credential from the system keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := validCredentialName(name); err != nil {
				return err
			}
			if err := deps.Store.Delete(name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", name)
			return nil
		},
	}
}
