// Package config holds the block archive configuration: where the archive
// lives, which network its blocks belong to, and how chatty the tools are.
// The on-disk format is a plain "key = value" file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the block archive configuration.
type Config struct {
	// ArchiveDir is the root directory of the block archive.
	ArchiveDir string
	// Network is the chain the archive holds: "mainnet", "testnet" or "regtest".
	Network string
	// LogLevel is the logging verbosity: "debug", "info", "warn" or "error".
	LogLevel string
	// GenesisHash optionally overrides the network's well-known genesis
	// hash, hex encoded. Leave empty to use the network default.
	GenesisHash string
}

// DefaultConfig returns the configuration defaults: a mainnet archive under
// the user's home directory with info-level logging.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		ArchiveDir: filepath.Join(home, ".blockarchive", "mainnet"),
		Network:    "mainnet",
		LogLevel:   "info",
	}
}

// LoadConfig reads a configuration file. Blank lines and lines starting with
// '#' are ignored; unknown keys are ignored for forward compatibility.
// Unset keys retain their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, ErrConfigNotFound
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "archivedir":
			cfg.ArchiveDir = value
		case "network":
			cfg.Network = value
		case "loglevel":
			cfg.LogLevel = value
		case "genesishash":
			cfg.GenesisHash = value
		default:
			// Unknown keys are ignored so older binaries can read newer files.
		}
	}
	return cfg, nil
}

// SaveConfig writes the configuration to path, creating parent directories
// as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "archivedir = %s\n", cfg.ArchiveDir)
	fmt.Fprintf(&b, "network = %s\n", cfg.Network)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	if cfg.GenesisHash != "" {
		fmt.Fprintf(&b, "genesishash = %s\n", cfg.GenesisHash)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
