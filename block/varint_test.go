package block

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		value   uint64
		encoded int
	}{
		{"zero", 0, 1},
		{"below prefix", 0xfc, 1},
		{"uint16 boundary", 0xfd, 3},
		{"uint16 max", 0xffff, 3},
		{"uint32 boundary", 0x10000, 5},
		{"uint32 max", 0xffffffff, 5},
		{"uint64", 0x100000000, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := AppendVarInt(nil, tt.value)
			require.Len(t, enc, tt.encoded)

			got, err := ReadVarInt(bytes.NewReader(enc))
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	_, err := ReadVarInt(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrBadVarInt)

	// prefix present but payload missing
	_, err = ReadVarInt(bytes.NewReader([]byte{0xfd, 0x01}))
	assert.ErrorIs(t, err, ErrBadVarInt)
}
