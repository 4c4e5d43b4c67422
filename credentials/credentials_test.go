package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func newMockStore(t *testing.T) *Store {
	t.Helper()
	keyring.MockInit()
	return NewStore()
}

func TestStore_SetGetDelete(t *testing.T) {
	s := newMockStore(t)

	require.NoError(t, s.Set(AnthropicAPIKey, "sk-ant-test"))

	got, err := s.Get(AnthropicAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", got)

	require.NoError(t, s.Delete(AnthropicAPIKey))

	_, err = s.Get(AnthropicAPIKey)
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	s := newMockStore(t)
	assert.NoError(t, s.Delete(NotionToken))
}

func TestStore_EnvOverrideWins(t *testing.T) {
	s := newMockStore(t)
	require.NoError(t, s.Set(NotionToken, "keyring-token"))
	t.Setenv("MEETFLOW_NOTION_TOKEN", "env-token")

	got, err := s.Get(NotionToken)
	require.NoError(t, err)
	assert.Equal(t, "env-token", got)
}

func TestStore_SetEmptyRejected(t *testing.T) {
	s := newMockStore(t)
	assert.Error(t, s.Set(AnthropicAPIKey, ""))
}

func TestStore_Status(t *testing.T) {
	s := newMockStore(t)
	require.NoError(t, s.Set(AnthropicAPIKey, "sk-ant-test"))
	t.Setenv("MEETFLOW_NOTION_TOKEN", "env-token")

	status := s.Status()
	assert.Equal(t, "keyring", status[AnthropicAPIKey])
	assert.Equal(t, "environment", status[NotionToken])
}
