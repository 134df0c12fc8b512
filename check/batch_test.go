package check

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danconnolly/bsv-blockarchive/archive"
)

// populateArchive stores n consistent single-transaction blocks and returns
// the archive root plus the stored hashes in store order.
func populateArchive(t *testing.T, n int) (*archive.FileArchive, string, []chainhash.Hash) {
	t.Helper()
	root := t.TempDir()
	arch, err := archive.NewFileArchive(root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = arch.Close() })

	hashes := make([]chainhash.Hash, 0, n)
	for i := 0; i < n; i++ {
		h, err := arch.StoreBlock(context.Background(), bytes.NewReader(makeConsistentBlock(t, nil, byte(i+1))))
		require.NoError(t, err)
		hashes = append(hashes, *h)
	}
	return arch, root, hashes
}

// tamper flips a transaction byte of a stored block in place, bypassing the
// archive so the path key still matches the (unchanged) header.
func tamper(t *testing.T, root string, hash chainhash.Hash) {
	t.Helper()
	path := archive.PathForHash(root, &hash)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[tamperOffset] ^= 0x01
	require.NoError(t, os.WriteFile(path, raw, 0600))
}

// --- Blocks tests ---

func TestBlocksAllConsistent(t *testing.T) {
	arch, _, _ := populateArchive(t, 5)

	res, err := Blocks(context.Background(), arch)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Checked)
	assert.Equal(t, 0, res.Failed())
	assert.Len(t, res.Results, 5)
}

func TestBlocksReportsTampered(t *testing.T) {
	const n, k = 6, 2
	arch, root, hashes := populateArchive(t, n)
	tampered := map[chainhash.Hash]bool{hashes[1]: true, hashes[4]: true}
	for h := range tampered {
		tamper(t, root, h)
	}

	res, err := Blocks(context.Background(), arch)
	require.NoError(t, err)
	assert.Equal(t, n, res.Checked)
	assert.Equal(t, k, res.Mismatched)
	assert.Equal(t, 0, res.Errored)
	assert.Equal(t, k, res.Failed())

	for _, r := range res.Results {
		if tampered[r.Block] {
			assert.False(t, r.OK, "tampered block %s must fail", r.Block)
			assert.NoError(t, r.Err, "a mismatch is a verdict, not an error")
		} else {
			assert.True(t, r.OK, "untampered block %s must pass", r.Block)
		}
	}
}

func TestBlocksDistinguishesReadErrors(t *testing.T) {
	arch, root, hashes := populateArchive(t, 4)

	// Truncate one entry below header size: a decode error, not a mismatch.
	path := archive.PathForHash(root, &hashes[0])
	require.NoError(t, os.WriteFile(path, make([]byte, 40), 0600))

	res, err := Blocks(context.Background(), arch)
	require.NoError(t, err, "one corrupt block must not abort the batch")
	assert.Equal(t, 4, res.Checked)
	assert.Equal(t, 0, res.Mismatched)
	assert.Equal(t, 1, res.Errored)
	assert.Equal(t, 1, res.Failed())
}

func TestBlocksParallel(t *testing.T) {
	arch, root, hashes := populateArchive(t, 8)
	tamper(t, root, hashes[3])

	res, err := Blocks(context.Background(), arch, Workers(4))
	require.NoError(t, err)
	assert.Equal(t, 8, res.Checked)
	assert.Equal(t, 1, res.Mismatched)
	assert.Equal(t, 0, res.Errored)
}

func TestBlocksEmptyArchive(t *testing.T) {
	arch, _, _ := populateArchive(t, 0)

	res, err := Blocks(context.Background(), arch)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Checked)
	assert.Equal(t, 0, res.Failed())
}
