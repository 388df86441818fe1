package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-logr/logr"
)

// AuthMode selects how the backend client authenticates.
type AuthMode string

const (
	// AuthNone is anonymous access, good for reads against public buckets.
	AuthNone AuthMode = "none"
	// AuthServiceAccountKey reads long-lived credentials from a key file.
	AuthServiceAccountKey AuthMode = "service-account-key"
	// AuthUserSecret reads short-lived user credentials from a secret file.
	AuthUserSecret AuthMode = "user-secret"
)

// AuthFlow is the opaque auth configuration handed to the builder. For
// the file-backed modes, CredentialsFile points at a JSON key file.
type AuthFlow struct {
	Mode            AuthMode
	CredentialsFile string
}

// credentialsFile is the JSON shape of service-account key and user
// secret files.
type credentialsFile struct {
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	SessionToken    string `json:"session_token,omitempty"`
}

// loadCredentials reads and parses a credentials file. A missing or
// malformed file is a returned error, never a panic: misconfiguration
// must be recoverable by the calling process.
func loadCredentials(path string) (credentialsFile, error) {
	var creds credentialsFile
	data, err := os.ReadFile(path)
	if err != nil {
		return creds, fmt.Errorf("read credentials file: %w", err)
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return creds, fmt.Errorf("parse credentials file %q: %w", path, err)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return creds, fmt.Errorf("credentials file %q missing access_key_id or secret_access_key", path)
	}
	return creds, nil
}

// Builder constructs backend-bound syncers from an auth flow and target
// endpoint settings.
type Builder struct {
	Auth      AuthFlow
	Region    string
	Endpoint  string
	PathStyle bool
	Scheme    string       // announcement location scheme; empty means DefaultScheme
	Retry     *RetryConfig // nil disables transport retries
	Logger    logr.Logger
}

// NewBuilder returns a builder for the given auth flow with no retries
// and a discarded logger.
func NewBuilder(auth AuthFlow) *Builder {
	return &Builder{Auth: auth, Logger: logr.Discard()}
}

// Build validates the store identity and returns a ready syncer bound to
// an S3-compatible backend. The bucket is validated before any client is
// constructed, so no network work happens for an invalid identity.
func (b *Builder) Build(ctx context.Context, bucket, folder string) (*StoreSyncer, error) {
	if err := ValidateBucketName(bucket); err != nil {
		return nil, err
	}

	cfg := S3Config{
		Bucket:    bucket,
		Region:    b.Region,
		Endpoint:  b.Endpoint,
		PathStyle: b.PathStyle,
	}
	switch b.Auth.Mode {
	case AuthNone, "":
		cfg.Anonymous = true
	case AuthServiceAccountKey, AuthUserSecret:
		creds, err := loadCredentials(b.Auth.CredentialsFile)
		if err != nil {
			return nil, err
		}
		cfg.AccessKey = creds.AccessKeyID
		cfg.SecretKey = creds.SecretAccessKey
		cfg.SessionToken = creds.SessionToken
	default:
		return nil, fmt.Errorf("unknown auth mode %q", b.Auth.Mode)
	}

	store, err := NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build storage client: %w", err)
	}

	var backend ObjectStore = store
	if b.Retry != nil {
		backend = NewRetryableStore(backend, *b.Retry)
	}

	id := StoreIdentity{Bucket: bucket, Folder: folder, Scheme: b.Scheme}
	return NewStoreSyncer(backend, id, b.Logger)
}
