package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeBlocks stores n distinct blocks and returns their hashes.
func storeBlocks(t *testing.T, arch BlockArchive, n int) map[chainhash.Hash]struct{} {
	t.Helper()
	hashes := make(map[chainhash.Hash]struct{}, n)
	for i := 0; i < n; i++ {
		h, err := arch.StoreBlock(context.Background(), bytes.NewReader(makeBlock(nil, byte(i+1))))
		require.NoError(t, err)
		hashes[*h] = struct{}{}
	}
	require.Len(t, hashes, n)
	return hashes
}

// drain reads the stream to exhaustion.
func drain(t *testing.T, stream *HashStream) map[chainhash.Hash]struct{} {
	t.Helper()
	got := make(map[chainhash.Hash]struct{})
	for {
		h, err := stream.Next(context.Background())
		if err == io.EOF {
			return got
		}
		require.NoError(t, err)
		got[*h] = struct{}{}
	}
}

// --- BlockList tests ---

func TestBlockListEnumeratesAll(t *testing.T) {
	arch := newTestArchive(t)
	want := storeBlocks(t, arch, 10)

	stream, err := arch.BlockList(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, want, drain(t, stream))
}

func TestBlockListEmptyArchive(t *testing.T) {
	arch := newTestArchive(t)

	stream, err := arch.BlockList(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	assert.Empty(t, drain(t, stream))
}

func TestBlockListSkipsForeignFiles(t *testing.T) {
	arch := newTestArchive(t)
	want := storeBlocks(t, arch, 3)

	// A stray non-hash file must be skipped, not kill the enumeration.
	require.NoError(t, os.MkdirAll(filepath.Join(arch.root, "zz"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(arch.root, "zz", "README.txt"), []byte("x"), 0600))

	stream, err := arch.BlockList(context.Background())
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, want, drain(t, stream))
}

func TestBlockListRestartable(t *testing.T) {
	arch := newTestArchive(t)
	want := storeBlocks(t, arch, 5)

	for i := 0; i < 2; i++ {
		stream, err := arch.BlockList(context.Background())
		require.NoError(t, err)
		got := drain(t, stream)
		require.NoError(t, stream.Close())
		assert.Equal(t, want, got)
	}
}

// --- Cancellation tests ---

func TestBlockListCloseCancelsWalker(t *testing.T) {
	// A buffer of one forces the walker to block on send, so it can only
	// finish via cancellation.
	arch := newTestArchive(t, WithListBuffer(1))
	storeBlocks(t, arch, 8)

	stream, err := arch.BlockList(context.Background())
	require.NoError(t, err)

	_, err = stream.Next(context.Background())
	require.NoError(t, err)

	// Close must cancel the walker and wait for it to finish.
	require.NoError(t, stream.Close())

	select {
	case <-stream.Done():
	default:
		t.Fatal("walker still running after Close")
	}
}

func TestBlockListCloseIdempotent(t *testing.T) {
	arch := newTestArchive(t)
	storeBlocks(t, arch, 2)

	stream, err := arch.BlockList(context.Background())
	require.NoError(t, err)
	drain(t, stream)

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
}

func TestNextHonorsContext(t *testing.T) {
	// Producer that never sends: Next can only return via the caller's ctx.
	stream := NewHashStream(context.Background(), 1, func(ctx context.Context, out chan<- *chainhash.Hash) error {
		<-ctx.Done()
		return ctx.Err()
	})
	defer stream.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := stream.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHashStreamTerminalError(t *testing.T) {
	boom := errors.New("walk failed")
	h := chainhash.DoubleHashH([]byte("x"))

	stream := NewHashStream(context.Background(), 4, func(ctx context.Context, out chan<- *chainhash.Hash) error {
		out <- &h
		return boom
	})
	defer stream.Close()

	got, err := stream.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, h, *got)

	// The failure is observable, not a silent end of stream.
	_, err = stream.Next(context.Background())
	assert.ErrorIs(t, err, boom)
}
