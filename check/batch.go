package check

import (
	"context"
	"io"
	"sync"

	"github.com/bsv-blockchain/go-sdk/chainhash"
	"golang.org/x/sync/errgroup"

	"github.com/Danconnolly/bsv-blockarchive/archive"
	"github.com/Danconnolly/bsv-blockarchive/block"
)

// BlockResult is the verification outcome for one block in a batch run.
// Exactly one of three states holds: verified (OK true), merkle mismatch
// (OK false, Err nil), or read/decode failure (Err non-nil).
type BlockResult struct {
	Block chainhash.Hash
	OK    bool
	Err   error
}

// BatchResult aggregates an archive-wide consistency check.
type BatchResult struct {
	// Checked is the total number of blocks examined.
	Checked int
	// Mismatched counts blocks whose recomputed merkle root differs from
	// the header.
	Mismatched int
	// Errored counts blocks that could not be read or decoded.
	Errored int
	// Results holds the per-block outcomes, in no particular order.
	Results []BlockResult
}

// Failed returns the total number of blocks that did not verify, counting
// merkle mismatches and read failures alike.
func (r *BatchResult) Failed() int {
	return r.Mismatched + r.Errored
}

// BatchOption configures a batch verification run.
type BatchOption func(*batchOptions)

type batchOptions struct {
	workers int
}

// Workers sets the number of blocks verified concurrently. Verification of
// distinct blocks is independent, so fan-out is bounded only by available
// I/O concurrency. The default is 1 (sequential).
func Workers(n int) BatchOption {
	return func(o *batchOptions) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Blocks runs single-block verification over every entry in the archive and
// reports aggregate counts. A corrupt block never stops verification of the
// rest of the archive: per-block failures are converted into results. Only
// an enumeration failure aborts the run.
func Blocks(ctx context.Context, arch archive.BlockArchive, opts ...BatchOption) (*BatchResult, error) {
	o := batchOptions{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}

	stream, err := arch.BlockList(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	res := &BatchResult{}
	var mu sync.Mutex

	// The group bounds concurrency; worker closures never return errors, so
	// one bad block cannot cancel the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for {
		h, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = g.Wait()
			return nil, err
		}

		g.Go(func() error {
			ok, err := one(gctx, arch, h)
			mu.Lock()
			defer mu.Unlock()
			res.Checked++
			switch {
			case err != nil:
				res.Errored++
			case !ok:
				res.Mismatched++
			}
			res.Results = append(res.Results, BlockResult{Block: *h, OK: ok && err == nil, Err: err})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// one retrieves and verifies a single block.
func one(ctx context.Context, arch archive.BlockArchive, hash *chainhash.Hash) (bool, error) {
	rc, err := arch.GetBlock(ctx, hash)
	if err != nil {
		return false, err
	}
	defer rc.Close()

	br, err := block.NewReader(rc)
	if err != nil {
		return false, err
	}
	return Block(br)
}
