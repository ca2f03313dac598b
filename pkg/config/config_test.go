package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "jwt_secret_key: s3cret\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, DefaultJWTAlgorithm, cfg.JWTAlgorithm)
	assert.Equal(t, DefaultProductDraftKey, cfg.ProductDraftKey)
	assert.Equal(t, DefaultResolverSessionTTL, cfg.ResolverSessionTTL)
	assert.Equal(t, DefaultAuthRateBurst, cfg.AuthRateBurst)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoadReadsFile(t *testing.T) {
	path := writeConfig(t, `
jwt_secret_key: s3cret
db_path: /tmp/shop.sqlite3
api_port: 9000
log_format: console
resolver_session_ttl: 5m
cors_origins:
  - http://localhost:3000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shop.sqlite3", cfg.DBPath)
	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, 5*time.Minute, cfg.ResolverSessionTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWTSecretKey: "s3cret",
			DBPath:       ":memory:",
			APIPort:      8340,
			LogFormat:    "json",
			JWTAlgorithm: "HS256",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.JWTSecretKey = "" }, "jwt_secret_key is required"},
		{"missing db path", func(c *Config) { c.DBPath = "" }, "db_path is required"},
		{"bad algorithm", func(c *Config) { c.JWTAlgorithm = "RS256" }, "jwt_algorithm"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad port", func(c *Config) { c.APIPort = 0 }, "api_port"},
		{"negative session ttl", func(c *Config) { c.ResolverSessionTTL = -time.Second }, "resolver_session_ttl"},
		{"half ssl", func(c *Config) { c.SSLCert = "/tmp/cert.pem" }, "both ssl_cert and ssl_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
