package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"regtest\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyArchiveDir indicates the archive directory path is empty.
	ErrEmptyArchiveDir = errors.New("config: archive directory must not be empty")

	// ErrInvalidGenesisHash indicates the genesis hash override is not a
	// valid 64-character hex hash.
	ErrInvalidGenesisHash = errors.New("config: invalid genesis hash")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
