package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	log "github.com/sirupsen/logrus"

	"github.com/Danconnolly/bsv-blockarchive/block"
)

// lockFileName is the flock target inside the archive root.
const lockFileName = ".lock"

// FileArchive implements BlockArchive over a local directory tree.
//
// Blocks are stored in a directory structure based on the block hash: the
// first level is the last two characters of the canonical hex text, the
// second level is the next-to-last two, and the block is stored in a file
// named after the full hash.
//
// Example: root/31/c5/00000000000000000124a294b9e1e65224f0636ffd4dadac777bed5e709dc531.bin
//
// Sharding by trailing characters keeps the per-directory fan-out bounded
// even though block hashes are far from uniform in their leading characters.
// The root directory is exclusively owned: an flock is held for the lifetime
// of the archive and released by Close.
type FileArchive struct {
	root string
	opts options
	lock *os.File
}

// Compile-time interface check.
var _ BlockArchive = (*FileArchive)(nil)

// NewFileArchive opens (creating if necessary) a file-based block archive
// rooted at root and takes an exclusive lock on it.
func NewFileArchive(root string, opts ...Option) (*FileArchive, error) {
	if root == "" {
		return nil, ErrInvalidRootDir
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	lock, err := tryLock(filepath.Join(root, lockFileName))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArchiveLocked, err)
	}

	return &FileArchive{root: root, opts: o, lock: lock}, nil
}

// Close releases the archive's lock on its root directory.
func (a *FileArchive) Close() error {
	releaseLock(a.lock)
	a.lock = nil
	return nil
}

// PathForHash returns the storage path for a block hash under root.
// It is a pure function of the hash's canonical hex text s:
// root/s[62:64]/s[60:62]/s.bin
func PathForHash(root string, hash *chainhash.Hash) string {
	s := hash.String()
	return filepath.Join(root, s[62:64], s[60:62], s+".bin")
}

// path returns the storage path for hash in this archive.
func (a *FileArchive) path(hash *chainhash.Hash) string {
	return PathForHash(a.root, hash)
}

// BlockExists reports whether a block file exists for hash.
func (a *FileArchive) BlockExists(ctx context.Context, hash *chainhash.Hash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(a.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return true, nil
}

// BlockSize returns the size in bytes of the stored block.
func (a *FileArchive) BlockSize(ctx context.Context, hash *chainhash.Hash) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	info, err := os.Stat(a.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrBlockNotFound
		}
		return 0, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return info.Size(), nil
}

// BlockHeader reads and decodes the fixed-size header prefix of the stored
// block without reading the transaction payload.
func (a *FileArchive) BlockHeader(ctx context.Context, hash *chainhash.Hash) (*block.Header, error) {
	f, err := a.GetBlock(ctx, hash)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	h, err := block.DecodeHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return h, nil
}

// GetBlock opens the stored block for streamed reading.
func (a *FileArchive) GetBlock(ctx context.Context, hash *chainhash.Hash) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(a.path(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlockNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return f, nil
}

// StoreBlock persists an incoming block stream. The header is decoded from
// the stream to derive the storage path, then header and remaining payload
// are written to a temporary file and renamed into place, so readers never
// observe a partially-written entry. Re-storing an existing hash replaces
// the entry atomically with identical content.
func (a *FileArchive) StoreBlock(ctx context.Context, r io.Reader) (*chainhash.Hash, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, err := block.DecodeHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	hash := h.Hash()

	path := a.path(&hash)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	// Write to a uniquely-named temp file in the target directory and rename
	// into place. Rename within one directory is atomic, so concurrent
	// stores of the same hash cannot expose a torn file.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+hash.String()+".tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(h.Serialize()); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return &hash, nil
}

// BlockList starts a background walk of the archive tree and returns a
// stream of every block hash found. The walk is iterative (explicit stack)
// so archive depth never bounds it, and stops promptly when the stream is
// closed.
func (a *FileArchive) BlockList(ctx context.Context) (*HashStream, error) {
	if _, err := os.Stat(a.root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return NewHashStream(ctx, a.opts.listBuffer, func(ctx context.Context, out chan<- *chainhash.Hash) error {
		return walkArchive(ctx, a.root, out)
	}), nil
}

// walkArchive performs a depth-first traversal of the shard tree, sending the
// hash of every block file on out. A directory read failure terminates the
// walk with an error; a file name that is not a block hash is skipped with a
// warning so one stray file cannot hide the rest of the archive.
func walkArchive(ctx context.Context, root string, out chan<- *chainhash.Hash) error {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIOFailure, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				stack = append(stack, filepath.Join(dir, name))
				continue
			}
			if strings.HasPrefix(name, ".") {
				// lock and in-flight temp files
				continue
			}
			h, err := hashFromFileName(name)
			if err != nil {
				log.WithFields(log.Fields{
					"dir":  dir,
					"name": name,
				}).Warn("skipping non-block file in archive")
				continue
			}
			select {
			case out <- h:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// hashFromFileName decodes a block hash from a file name stem.
func hashFromFileName(name string) (*chainhash.Hash, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if len(stem) != chainhash.MaxHashStringSize {
		return nil, fmt.Errorf("%w: file name %q is not a block hash", ErrDecode, name)
	}
	h, err := chainhash.NewHashFromHex(stem)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return h, nil
}
