package config

import (
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.ArchiveDir == "" {
		return ErrEmptyArchiveDir
	}

	if cfg.Network != "mainnet" && cfg.Network != "testnet" && cfg.Network != "regtest" {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.GenesisHash != "" {
		if _, err := chainhash.NewHashFromHex(cfg.GenesisHash); err != nil || len(cfg.GenesisHash) != chainhash.MaxHashStringSize {
			return ErrInvalidGenesisHash
		}
	}

	return nil
}
