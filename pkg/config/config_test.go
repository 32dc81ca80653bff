package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JOT_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HS256", cfg.SigningAlgorithm)
	assert.Equal(t, 3600, cfg.TokenTTLSeconds)
	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "default", cfg.Source("algorithm"))
	assert.Equal(t, "default", cfg.Source("port"))
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOT_CONFIG_PATH", dir)

	content := `
algorithm: HS512
key: file-secret
issuer: jot.example
audience:
  - maxine
  - katie
token_ttl: 600
port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "HS512", cfg.SigningAlgorithm)
	assert.Equal(t, "file-secret", cfg.Key)
	assert.Equal(t, "jot.example", cfg.Issuer)
	assert.Equal(t, []string{"maxine", "katie"}, cfg.Audience)
	assert.Equal(t, 600, cfg.TokenTTLSeconds)
	assert.Equal(t, 9090, cfg.Port)

	assert.Equal(t, "file", cfg.Source("algorithm"))
	assert.Equal(t, "file", cfg.Source("issuer"))
	assert.Equal(t, "default", cfg.Source("leeway"))
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOT_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("port: 9090\n"), 0o600))

	t.Setenv("JOT_PORT", "7070")
	t.Setenv("JOT_ALGORITHM", "HS384")
	t.Setenv("JOT_AUDIENCE", "maxine, katie")
	t.Setenv("JOT_LEEWAY", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "HS384", cfg.SigningAlgorithm)
	assert.Equal(t, []string{"maxine", "katie"}, cfg.Audience)
	assert.Equal(t, 30, cfg.Leeway)

	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, "environment", cfg.Source("algorithm"))
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOT_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("algorithm: [oops\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestKeyBytes(t *testing.T) {
	t.Run("inline key", func(t *testing.T) {
		cfg := newDefault()
		cfg.Key = "secret"

		key, err := cfg.KeyBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte("secret"), key)
	})

	t.Run("key file wins and trailing newline is stripped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jot.key")
		require.NoError(t, os.WriteFile(path, []byte("file-secret\n"), 0o600))

		cfg := newDefault()
		cfg.Key = "inline"
		cfg.KeyFile = path

		key, err := cfg.KeyBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte("file-secret"), key)
	})

	t.Run("missing key file", func(t *testing.T) {
		cfg := newDefault()
		cfg.KeyFile = filepath.Join(t.TempDir(), "nope")

		_, err := cfg.KeyBytes()
		assert.ErrorContains(t, err, "failed to read key file")
	})

	t.Run("no key configured", func(t *testing.T) {
		cfg := newDefault()
		_, err := cfg.KeyBytes()
		assert.ErrorContains(t, err, "no signing key configured")
	})

	t.Run("none needs no key", func(t *testing.T) {
		cfg := newDefault()
		cfg.SigningAlgorithm = "none"

		key, err := cfg.KeyBytes()
		require.NoError(t, err)
		assert.Nil(t, key)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*JotConfig)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(c *JotConfig) {}},
		{name: "unknown algorithm", mutate: func(c *JotConfig) { c.SigningAlgorithm = "RS256" }, wantErr: "invalid algorithm"},
		{name: "key and key_file together", mutate: func(c *JotConfig) { c.Key = "a"; c.KeyFile = "b" }, wantErr: "mutually exclusive"},
		{name: "negative leeway", mutate: func(c *JotConfig) { c.Leeway = -1 }, wantErr: "invalid leeway"},
		{name: "zero ttl", mutate: func(c *JotConfig) { c.TokenTTLSeconds = 0 }, wantErr: "invalid token_ttl"},
		{name: "port out of range", mutate: func(c *JotConfig) { c.Port = 70000 }, wantErr: "invalid port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDurations(t *testing.T) {
	cfg := newDefault()
	cfg.Leeway = 30
	cfg.TokenTTLSeconds = 600

	assert.Equal(t, 30*time.Second, cfg.LeewayDuration())
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestFormatText(t *testing.T) {
	cfg := newDefault()
	cfg.Key = "super-secret"

	out := cfg.FormatText()
	assert.Contains(t, out, "algorithm")
	assert.Contains(t, out, "(redacted)")
	assert.NotContains(t, out, "super-secret")
}

func TestFormatJSON(t *testing.T) {
	cfg := newDefault()

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"attributes"`)
	assert.Contains(t, out, `"algorithm"`)
}
