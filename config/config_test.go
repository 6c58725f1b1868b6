package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orchesto/flowstore/config"
)

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestResolveSecret(t *testing.T) {
	t.Run("should return empty string for empty input", func(t *testing.T) {
		t.Parallel()

		// given
		raw := ""

		// when
		result := config.ResolveSecret(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should return inline value unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "app-password-123"

		// when
		result := config.ResolveSecret(raw)

		// then
		assert.Equal(t, "app-password-123", result)
	})

	t.Run("should expand environment variable reference", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_SECRET_RESOLVE", "my-secret-value")
		raw := "${TEST_SECRET_RESOLVE}"

		// when
		result := config.ResolveSecret(raw)

		// then
		assert.Equal(t, "my-secret-value", result)
	})

	t.Run("should return empty for unset env var", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "${DEFINITELY_NOT_SET_VAR_12345}"

		// when
		result := config.ResolveSecret(raw)

		// then
		assert.Empty(t, result)
	})

	t.Run("should read secret from file when path exists", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		secretFile := filepath.Join(tmpDir, "password.key")
		err := os.WriteFile(secretFile, []byte("  file-based-secret  \n"), 0o600)
		require.NoError(t, err)

		// when
		result := config.ResolveSecret(secretFile)

		// then
		assert.Equal(t, "file-based-secret", result)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("should fail when storage kind is empty", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := &config.Config{
			Storage: config.StorageConfig{Repo: "team/repo1"},
		}

		// when
		err := config.Validate(cfg)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.kind is required")
	})

	t.Run("should fail when storage repo is empty", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := &config.Config{
			Storage: config.StorageConfig{Kind: "bitbucket"},
		}

		// when
		err := config.Validate(cfg)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.repo is required")
	})

	t.Run("should accept a minimal valid config", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := &config.Config{
			Storage: config.StorageConfig{Kind: "bitbucket", Repo: "team/repo1"},
		}

		// when
		err := config.Validate(cfg)

		// then
		require.NoError(t, err)
	})
}

//nolint:tparallel // some subtests use t.Setenv which is incompatible with t.Parallel on parent
func TestLoad(t *testing.T) {
	t.Run("should load a full config and resolve credentials", func(t *testing.T) {
		// NOTE: cannot use t.Parallel() with t.Setenv()

		// given
		t.Setenv("TEST_BB_PASSWORD", "resolved-pass")
		content := `
storage:
  kind: bitbucket
  repo: team/repo1
  path: flows/f.py
  host: https://bb.internal
  branch: main
credentials:
  user: alex
  password: ${TEST_BB_PASSWORD}
`
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "flowstore.yaml")
		err := os.WriteFile(cfgPath, []byte(content), 0o600)
		require.NoError(t, err)

		// when
		cfg, err := config.Load(cfgPath)

		// then
		require.NoError(t, err)
		assert.Equal(t, "bitbucket", cfg.Storage.Kind)
		assert.Equal(t, "team/repo1", cfg.Storage.Repo)
		assert.Equal(t, "flows/f.py", cfg.Storage.Path)
		assert.Equal(t, "https://bb.internal", cfg.Storage.Host)
		assert.Equal(t, "main", cfg.Storage.Branch)
		assert.Equal(t, "alex", cfg.Credentials.User)
		assert.Equal(t, "resolved-pass", cfg.Credentials.Password)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("should fail for invalid yaml", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "flowstore.yaml")
		err := os.WriteFile(cfgPath, []byte("storage: [broken"), 0o600)
		require.NoError(t, err)

		// when
		_, err = config.Load(cfgPath)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("should fail validation for a config without a repo", func(t *testing.T) {
		t.Parallel()

		// given
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "flowstore.yaml")
		err := os.WriteFile(cfgPath, []byte("storage:\n  kind: bitbucket\n"), 0o600)
		require.NoError(t, err)

		// when
		_, err = config.Load(cfgPath)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.repo is required")
	})
}
