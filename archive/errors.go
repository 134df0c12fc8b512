package archive

import "errors"

var (
	// ErrBlockNotFound indicates no entry exists for the requested hash.
	ErrBlockNotFound = errors.New("archive: block not found")

	// ErrDecode indicates stored or streamed bytes do not parse as a block.
	ErrDecode = errors.New("archive: block decode failed")

	// ErrIOFailure indicates a filesystem or database read/write error.
	ErrIOFailure = errors.New("archive: I/O failure")

	// ErrInvalidRootDir indicates the archive root directory path is invalid.
	ErrInvalidRootDir = errors.New("archive: invalid root directory")

	// ErrArchiveLocked indicates another process holds the archive root.
	ErrArchiveLocked = errors.New("archive: root directory locked by another process")
)
