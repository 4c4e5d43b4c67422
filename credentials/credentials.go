// Package credentials provides secure API credential storage for the
// meetflow CLI using the system keyring:
// - macOS: Keychain
// - Windows: Credential Manager
// - Linux: Secret Service (libsecret)
//
// For CI and headless environments the MEETFLOW_ANTHROPIC_API_KEY and
// MEETFLOW_NOTION_TOKEN environment variables take priority over the
// keyring.
package credentials

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// keyringService namespaces meetflow entries in the system keyring.
const keyringService = "meetflow-cli"

// Credential names.
const (
	// AnthropicAPIKey is the generation API credential.
	AnthropicAPIKey = "anthropic_api_key"
	// NotionToken is the publishing API credential.
	NotionToken = "notion_token"
)

// Environment variable overrides per credential.
var envOverrides = map[string]string{
	AnthropicAPIKey: "MEETFLOW_ANTHROPIC_API_KEY",
	NotionToken:     "MEETFLOW_NOTION_TOKEN",
}

// ErrNoCredential is returned when a credential is neither in the
// environment nor in the keyring.
var ErrNoCredential = errors.New("no credential stored")

// Store manages credential storage operations.
type Store struct {
	service string
}

// NewStore creates a credential store backed by the system keyring.
func NewStore() *Store {
	return &Store{service: keyringService}
}

// Get returns a credential, preferring the environment override.
func (s *Store) Get(name string) (string, error) {
	if env := envOverrides[name]; env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}

	v, err := keyring.Get(s.service, name)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", name, ErrNoCredential)
		}
		return "", fmt.Errorf("reading %s from keyring: %w", name, err)
	}
	return v, nil
}

// Set stores a credential in the system keyring.
func (s *Store) Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("credential %s must not be empty", name)
	}
	if err := keyring.Set(s.service, name, value); err != nil {
		return fmt.Errorf("storing %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a credential from the system keyring. Deleting an absent
// credential is not an error.
func (s *Store) Delete(name string) error {
	err := keyring.Delete(s.service, name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting %s from keyring: %w", name, err)
	}
	return nil
}

// Status reports where each known credential would be resolved from:
// "environment", "keyring", or "missing".
func (s *Store) Status() map[string]string {
	status := make(map[string]string, len(envOverrides))
	for name, env := range envOverrides {
		switch {
		case os.Getenv(env) != "":
			status[name] = "environment"
		default:
			if _, err := keyring.Get(s.service, name); err == nil {
				status[name] = "keyring"
			} else {
				status[name] = "missing"
			}
		}
	}
	return status
}
