package block

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadVarInt reads a Bitcoin compact-size integer from r.
//
// Encoding: values below 0xfd are a single byte; 0xfd, 0xfe and 0xff prefix
// a little-endian uint16, uint32 and uint64 respectively.
func ReadVarInt(r io.Reader) (uint64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBadVarInt, err)
	}

	switch b[0] {
	case 0xfd:
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadVarInt, err)
		}
		return uint64(v), nil
	case 0xfe:
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadVarInt, err)
		}
		return uint64(v), nil
	case 0xff:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrBadVarInt, err)
		}
		return v, nil
	default:
		return uint64(b[0]), nil
	}
}

// AppendVarInt appends the compact-size encoding of v to buf.
func AppendVarInt(buf []byte, v uint64) []byte {
	switch {
	case v < 0xfd:
		return append(buf, byte(v))
	case v <= 0xffff:
		buf = append(buf, 0xfd)
		return binary.LittleEndian.AppendUint16(buf, uint16(v))
	case v <= 0xffffffff:
		buf = append(buf, 0xfe)
		return binary.LittleEndian.AppendUint32(buf, uint32(v))
	default:
		buf = append(buf, 0xff)
		return binary.LittleEndian.AppendUint64(buf, v)
	}
}
