// Package config loads checkpoint-store config from YAML. Env overrides
// take precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend selects the object-storage backend a store runs on.
const (
	BackendS3    = "s3"
	BackendLocal = "local"
)

// Config holds resolved settings for one checkpoint store.
type Config struct {
	Backend string `yaml:"backend"`
	Bucket  string `yaml:"bucket"`
	Folder  string `yaml:"folder"`
	Scheme  string `yaml:"scheme"`

	// S3 backend settings.
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	AuthMode        string `yaml:"auth_mode"`
	CredentialsFile string `yaml:"credentials_file"`
	Retry           bool   `yaml:"retry"`

	// Local backend settings.
	LocalRoot string `yaml:"local_root"`
}

// Load reads config from path, or from XDG_CONFIG_HOME/cpsync/config.yaml
// when path is empty. A missing file uses defaults. Env overrides:
// CPSYNC_BACKEND, CPSYNC_BUCKET, CPSYNC_FOLDER, CPSYNC_REGION,
// CPSYNC_ENDPOINT, CPSYNC_AUTH_MODE, CPSYNC_CREDENTIALS_FILE,
// CPSYNC_LOCAL_ROOT.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(xdgConfigHome(), "cpsync", "config.yaml")
	}

	c := &Config{
		Backend:  BackendS3,
		Region:   "us-east-1",
		AuthMode: "none",
		Retry:    true,
	}

	b, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// Env overrides
	if v := os.Getenv("CPSYNC_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("CPSYNC_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("CPSYNC_FOLDER"); v != "" {
		c.Folder = v
	}
	if v := os.Getenv("CPSYNC_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("CPSYNC_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("CPSYNC_AUTH_MODE"); v != "" {
		c.AuthMode = v
	}
	if v := os.Getenv("CPSYNC_CREDENTIALS_FILE"); v != "" {
		c.CredentialsFile = v
	}
	if v := os.Getenv("CPSYNC_LOCAL_ROOT"); v != "" {
		c.LocalRoot = v
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("s3 backend requires a bucket")
		}
	case BackendLocal:
		if c.LocalRoot == "" {
			return fmt.Errorf("local backend requires local_root")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if strings.Contains(c.Bucket, "/") {
		return fmt.Errorf("bucket name %q has an invalid symbol '/'", c.Bucket)
	}
	return nil
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
