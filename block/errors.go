package block

import "errors"

var (
	// ErrShortHeader indicates the input does not hold a full 80-byte header.
	ErrShortHeader = errors.New("block: input shorter than block header")

	// ErrBadVarInt indicates a malformed compact-size integer.
	ErrBadVarInt = errors.New("block: malformed varint")

	// ErrBadTransaction indicates a transaction in the block failed to decode.
	ErrBadTransaction = errors.New("block: transaction decode failed")
)
