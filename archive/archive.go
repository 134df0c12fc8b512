// Package archive provides durable storage for archival block data. A block
// archive stores complete blocks (a header plus the transactions required to
// validate it), addressed solely by block hash. The archive knows very little
// about block structure: only enough to derive the content address from the
// header of an incoming stream.
package archive

import (
	"context"
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/Danconnolly/bsv-blockarchive/block"
)

// BlockArchive is the capability set every archive backend must expose.
// All operations may block on I/O and honor cancellation via ctx.
type BlockArchive interface {
	// BlockExists reports whether an entry is present for hash. It does not
	// read the entry.
	BlockExists(ctx context.Context, hash *chainhash.Hash) (bool, error)

	// BlockSize returns the byte length of the stored entry.
	// Returns ErrBlockNotFound if the hash is absent.
	BlockSize(ctx context.Context, hash *chainhash.Hash) (int64, error)

	// BlockHeader decodes and returns only the header portion of the entry,
	// without reading the transaction payload.
	// Returns ErrBlockNotFound if the hash is absent.
	BlockHeader(ctx context.Context, hash *chainhash.Hash) (*block.Header, error)

	// GetBlock returns a reader positioned at the start of the entry,
	// suitable for incremental decoding of header and transactions.
	// The caller must close it. Returns ErrBlockNotFound if the hash is absent.
	GetBlock(ctx context.Context, hash *chainhash.Hash) (io.ReadCloser, error)

	// StoreBlock consumes a stream holding a fully-formed block and persists
	// it. The storage key is derived from the block's own header, never
	// supplied by the caller, and is returned for convenience. Re-storing an
	// existing hash succeeds without corrupting the existing entry.
	StoreBlock(ctx context.Context, r io.Reader) (*chainhash.Hash, error)

	// BlockList enumerates every hash currently in the archive, in an
	// unspecified order. The stream must be closed if it is abandoned before
	// exhaustion. Enumerating concurrently with stores is not safe.
	BlockList(ctx context.Context) (*HashStream, error)
}

// options holds backend-independent tunables.
type options struct {
	listBuffer int
}

// Option configures an archive backend.
type Option func(*options)

// WithListBuffer sets the capacity of the channel used by BlockList.
// The default is sized so enumeration of a realistic archive (millions of
// entries) never stalls the walker on a slow consumer.
func WithListBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.listBuffer = n
		}
	}
}

// defaultListBuffer holds every hash of a full mainnet or testnet archive.
const defaultListBuffer = 2_000_000

func defaultOptions() options {
	return options{listBuffer: defaultListBuffer}
}
