// Package block supplies the thin decoding layer between the archive and the
// BSV wire format: the 80-byte block header and a streaming reader for the
// transactions that follow it. Hashing and transaction parsing are delegated
// to the go-sdk (chainhash, transaction).
package block

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

const (
	// HeaderSize is the size of a serialized block header in bytes.
	HeaderSize = 80
)

// Header represents a block header (80 bytes serialized).
type Header struct {
	Version    int32          // 4 bytes, little-endian
	PrevBlock  chainhash.Hash // 32 bytes
	MerkleRoot chainhash.Hash // 32 bytes
	Timestamp  uint32         // 4 bytes, little-endian (Unix timestamp)
	Bits       uint32         // 4 bytes, little-endian (compact target)
	Nonce      uint32         // 4 bytes, little-endian
}

// Serialize returns the 80-byte wire form of the header.
//
// Layout: version(4) | prevBlock(32) | merkleRoot(32) | timestamp(4) | bits(4) | nonce(4)
func (h *Header) Serialize() []byte {
	buf := make([]byte, HeaderSize)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[68:72], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)

	return buf
}

// Hash returns the double-SHA256 of the serialized header. This is the
// block's identity and the archive's content address for it.
func (h *Header) Hash() chainhash.Hash {
	return chainhash.DoubleHashH(h.Serialize())
}

// String returns the hex encoding of the serialized header.
func (h *Header) String() string {
	return hex.EncodeToString(h.Serialize())
}

// decodeHeaderBytes deserializes exactly 80 bytes into a Header.
func decodeHeaderBytes(data []byte) (*Header, error) {
	if len(data) != HeaderSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrShortHeader, HeaderSize, len(data))
	}

	h := &Header{
		Version:   int32(binary.LittleEndian.Uint32(data[0:4])),
		Timestamp: binary.LittleEndian.Uint32(data[68:72]),
		Bits:      binary.LittleEndian.Uint32(data[72:76]),
		Nonce:     binary.LittleEndian.Uint32(data[76:80]),
	}
	copy(h.PrevBlock[:], data[4:36])
	copy(h.MerkleRoot[:], data[36:68])

	return h, nil
}

// DecodeHeader reads and deserializes an 80-byte header from r.
// A reader holding fewer than 80 bytes yields ErrShortHeader.
func DecodeHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrShortHeader, err)
	}
	return decodeHeaderBytes(buf)
}
