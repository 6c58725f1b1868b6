package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level deployment configuration for flowstore.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// StorageConfig describes where flow source files live.
type StorageConfig struct {
	Kind   string `yaml:"kind"`   // "bitbucket"
	Repo   string `yaml:"repo"`   // "<workspace>/<repo_slug>" (cloud) or "<project_key>/repos/<repo_slug>" (server)
	Path   string `yaml:"path"`   // Default file path flows resolve to
	Host   string `yaml:"host"`   // Bitbucket Server base URL; empty selects cloud
	Branch string `yaml:"branch"` // Defaults to "master"
}

// CredentialsConfig holds the basic-auth pair. Values may be inline,
// ${ENV_VAR} references, or paths to secret files. Leave both empty to fall
// back to the BITBUCKET_USER/BITBUCKET_PASSWORD environment keys.
type CredentialsConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables and resolving secret file paths in credential values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.Credentials.User = resolveSecret(cfg.Credentials.User)
	cfg.Credentials.Password = resolveSecret(cfg.Credentials.Password)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".flowstore.yaml",
		".flowstore.yml",
		"flowstore.yaml",
		"flowstore.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveSecret expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the value from the
// file.
func resolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if cfg.Storage.Kind == "" {
		return errors.New("storage.kind is required")
	}
	if cfg.Storage.Repo == "" {
		return errors.New("storage.repo is required")
	}
	return nil
}
