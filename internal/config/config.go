package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"orbnaments/internal/domain"
)

const (
	DefaultVaultPath = "~/Documents/vault"
	// FileName is the optional per-vault settings file, read from the vault root
	FileName  = "orbnaments.yaml"
	EnvPrefix = "ORBNAMENTS"
)

// VaultPath returns the vault path from ORBNAMENTS_VAULT env var,
// falling back to DefaultVaultPath.
func VaultPath() string {
	if env := os.Getenv(EnvPrefix + "_VAULT"); env != "" {
		return env
	}
	return DefaultVaultPath
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Settings holds the maintenance settings for one vault
type Settings struct {
	ConflictMarker    string           `yaml:"conflict_marker" envconfig:"CONFLICT_MARKER"`
	TargetNote        string           `yaml:"target_note" envconfig:"TARGET_NOTE"`
	DestinationFolder string           `yaml:"destination_folder" envconfig:"DESTINATION_FOLDER"`
	TrashMode         domain.TrashMode `yaml:"trash_mode" envconfig:"TRASH_MODE"`
	LogLevel          string           `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		ConflictMarker:    domain.SyncConflictMarker,
		TargetNote:        "expenses",
		DestinationFolder: "Finanzas",
		TrashMode:         domain.TrashLocal,
		LogLevel:          "info",
	}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	if s.ConflictMarker == "" {
		return fmt.Errorf("conflict marker cannot be empty")
	}
	if strings.TrimSpace(s.TargetNote) == "" {
		return fmt.Errorf("target note cannot be empty")
	}
	if strings.TrimSpace(s.DestinationFolder) == "" {
		return fmt.Errorf("destination folder cannot be empty")
	}
	if domain.EscapesVault(s.DestinationFolder) || domain.IsRootPath(domain.NormalizePath(s.DestinationFolder)) {
		return fmt.Errorf("destination folder must be a folder inside the vault, got: %s", s.DestinationFolder)
	}
	if !s.TrashMode.Valid() {
		return fmt.Errorf("invalid trash mode: %s (must be one of: local, delete)", s.TrashMode)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", s.LogLevel)
	}
	return nil
}

// Load builds the settings for a vault: defaults, then the vault's
// orbnaments.yaml if present, then ORBNAMENTS_* environment variables.
func Load(vaultPath string) (*Settings, error) {
	s := Defaults()

	data, err := os.ReadFile(filepath.Join(vaultPath, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// LoadEnvFile loads variables from a .env file without overriding ones already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
