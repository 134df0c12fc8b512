package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"go.etcd.io/bbolt"

	"github.com/Danconnolly/bsv-blockarchive/block"
)

var bucketBlocks = []byte("blocks")

// BoltArchive implements BlockArchive over a single bbolt database file,
// with block bytes keyed by block hash. It trades the file backend's
// streamed reads for single-file administration; small archives and test
// rigs are its natural home.
type BoltArchive struct {
	db   *bbolt.DB
	opts options
}

// Compile-time interface check.
var _ BlockArchive = (*BoltArchive)(nil)

// OpenBoltArchive opens or creates the bbolt-backed archive at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltArchive(dbPath string, opts ...Option) (*BoltArchive, error) {
	if dbPath == "" {
		return nil, ErrInvalidRootDir
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt db: %w", ErrIOFailure, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlocks)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create bucket: %w", ErrIOFailure, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &BoltArchive{db: db, opts: o}, nil
}

// Close closes the underlying database.
func (a *BoltArchive) Close() error { return a.db.Close() }

// BlockExists reports whether an entry is present for hash.
func (a *BoltArchive) BlockExists(ctx context.Context, hash *chainhash.Hash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var found bool
	err := a.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketBlocks).Get(hash[:]) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return found, nil
}

// BlockSize returns the byte length of the stored entry.
func (a *BoltArchive) BlockSize(ctx context.Context, hash *chainhash.Hash) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var size int64 = -1
	err := a.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketBlocks).Get(hash[:]); data != nil {
			size = int64(len(data))
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if size < 0 {
		return 0, ErrBlockNotFound
	}
	return size, nil
}

// BlockHeader decodes the header prefix of the stored entry.
func (a *BoltArchive) BlockHeader(ctx context.Context, hash *chainhash.Hash) (*block.Header, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var hdr *block.Header
	err := a.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get(hash[:])
		if data == nil {
			return ErrBlockNotFound
		}
		h, err := block.DecodeHeader(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
		hdr = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hdr, nil
}

// GetBlock returns a reader over a copy of the stored entry. bbolt's mmap
// pages are only valid inside the transaction, so the value is copied out.
func (a *BoltArchive) GetBlock(ctx context.Context, hash *chainhash.Hash) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf []byte
	err := a.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get(hash[:])
		if data == nil {
			return ErrBlockNotFound
		}
		buf = make([]byte, len(data))
		copy(buf, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(buf)), nil
}

// StoreBlock persists an incoming block stream under its header-derived hash.
func (a *BoltArchive) StoreBlock(ctx context.Context, r io.Reader) (*chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, err := block.DecodeHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	hash := h.Hash()

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	data := append(h.Serialize(), rest...)

	err = a.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBlocks).Put(hash[:], data)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return &hash, nil
}

// BlockList streams every stored hash from a read transaction.
func (a *BoltArchive) BlockList(ctx context.Context) (*HashStream, error) {
	return NewHashStream(ctx, a.opts.listBuffer, func(ctx context.Context, out chan<- *chainhash.Hash) error {
		return a.db.View(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketBlocks).ForEach(func(k, _ []byte) error {
				h, err := chainhash.NewHash(k)
				if err != nil {
					return fmt.Errorf("%w: bad key in blocks bucket: %w", ErrDecode, err)
				}
				select {
				case out <- h:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}), nil
}
