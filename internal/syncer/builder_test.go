package syncer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_RejectsInvalidBucketBeforeClientConstruction(t *testing.T) {
	b := NewBuilder(AuthFlow{Mode: AuthNone})
	_, err := b.Build(context.Background(), "bad/bucket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid symbol")
}

func TestBuilder_MissingCredentialsFileIsAnError(t *testing.T) {
	b := NewBuilder(AuthFlow{
		Mode:            AuthServiceAccountKey,
		CredentialsFile: filepath.Join(t.TempDir(), "does-not-exist.json"),
	})
	_, err := b.Build(context.Background(), "test-bucket", "agent1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read credentials file")
}

func TestBuilder_MalformedCredentialsFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	b := NewBuilder(AuthFlow{Mode: AuthUserSecret, CredentialsFile: path})
	_, err := b.Build(context.Background(), "test-bucket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse credentials file")
}

func TestBuilder_IncompleteCredentialsFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_key_id":"AK"}`), 0600))

	b := NewBuilder(AuthFlow{Mode: AuthServiceAccountKey, CredentialsFile: path})
	_, err := b.Build(context.Background(), "test-bucket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access_key_id or secret_access_key")
}

func TestBuilder_UnknownAuthMode(t *testing.T) {
	b := NewBuilder(AuthFlow{Mode: "oauth-dance"})
	_, err := b.Build(context.Background(), "test-bucket", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown auth mode")
}

func TestLoadCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"access_key_id": "AKIAEXAMPLE",
		"secret_access_key": "secret",
		"session_token": "token"
	}`), 0600))

	creds, err := loadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "token", creds.SessionToken)
}
