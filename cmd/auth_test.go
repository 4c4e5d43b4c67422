package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/meetflow/credentials"
)

type fakeCredentialStore struct {
	values map[string]string
}

func (f *fakeCredentialStore) Set(name, value string) error {
	if value == "" {
		return fmt.Errorf("credential %s must not be empty", name)
	}
	f.values[name] = value
	return nil
}

func (f *fakeCredentialStore) Delete(name string) error {
	delete(f.values, name)
	return nil
}

func (f *fakeCredentialStore) Status() map[string]string {
	status := map[string]string{
		credentials.AnthropicAPIKey: "missing",
		credentials.NotionToken:     "missing",
	}
	for name := range f.values {
		status[name] = "keyring"
	}
	return status
}

func runAuth(t *testing.T, deps *AuthCommandDeps, args ...string) (string, error) {
	t.Helper()
	cmd := NewAuthCommand(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func testAuthDeps(secret string) (*AuthCommandDeps, *fakeCredentialStore) {
	store := &fakeCredentialStore{values: map[string]string{}}
	deps := &AuthCommandDeps{
		Store:      store,
		ReadSecret: func(prompt string) (string, error) { return secret, nil },
	}
	return deps, store
}

func TestAuthSet(t *testing.T) {
	deps, store := testAuthDeps("sk-ant-test")

	out, err := runAuth(t, deps, "set", credentials.AnthropicAPIKey)
	require.NoError(t, err)
	assert.Contains(t, out, "stored anthropic_api_key")
	assert.Equal(t, "sk-ant-test", store.values[credentials.AnthropicAPIKey])
}

func TestAuthSet_UnknownCredential(t *testing.T) {
	deps, _ := testAuthDeps("value")

	_, err := runAuth(t, deps, "set", "github_token")
	assert.ErrorContains(t, err, "unknown credential")
}

func TestAuthSet_EmptySecretRejected(t *testing.T) {
	deps, _ := testAuthDeps("")

	_, err := runAuth(t, deps, "set", credentials.NotionToken)
	assert.Error(t, err)
}

func TestAuthStatus(t *testing.T) {
	deps, store := testAuthDeps("")
	store.values[credentials.NotionToken] = "secret"

	out, err := runAuth(t, deps, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "anthropic_api_key")
	assert.Contains(t, out, "missing")
	assert.Contains(t, out, "notion_token")
	assert.Contains(t, out, "keyring")
}

func TestAuthDelete(t *testing.T) {
	deps, store := testAuthDeps("")
	store.values[credentials.AnthropicAPIKey] = "secret"

	out, err := runAuth(t, deps, "delete", credentials.AnthropicAPIKey)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted anthropic_api_key")
	assert.NotContains(t, store.values, credentials.AnthropicAPIKey)
}
