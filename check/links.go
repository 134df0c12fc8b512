package check

import (
	"context"
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/Danconnolly/bsv-blockarchive/archive"
)

// Orphan identifies a block whose declared parent is absent from the archive.
type Orphan struct {
	Block  chainhash.Hash
	Parent chainhash.Hash
}

// BlockFailure records a per-block error encountered during an archive-wide
// operation. Such failures are collected, never allowed to abort the run.
type BlockFailure struct {
	Block chainhash.Hash
	Err   error
}

// LinkResult is the outcome of an archive-wide parent-link verification.
type LinkResult struct {
	// Checked is the number of blocks whose parent link was examined.
	Checked int
	// Orphans lists every block whose parent is missing from the archive,
	// excluding the genesis block.
	Orphans []Orphan
	// Failures lists blocks whose header could not be read.
	Failures []BlockFailure
}

// Links verifies that every block's declared parent is present in the
// archive. The genesis hash, supplied by the caller, is exempt: the root of
// the chain has no parent by definition.
//
// Enumeration order is unspecified, so a block's parent may simply not have
// been visited yet when the block is examined. The check therefore runs in
// two passes: the first streams the enumeration, growing a set of all seen
// hashes and deferring blocks whose parent is not yet in it; the second
// re-checks the deferred blocks against the now-complete set. Anything still
// unresolved is a genuinely missing parent.
func Links(ctx context.Context, arch archive.BlockArchive, genesis *chainhash.Hash) (*LinkResult, error) {
	stream, err := arch.BlockList(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	res := &LinkResult{}
	seen := make(map[chainhash.Hash]struct{})
	var deferred []Orphan

	for {
		h, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		seen[*h] = struct{}{}
		res.Checked++

		if genesis != nil && *h == *genesis {
			continue
		}

		hdr, err := arch.BlockHeader(ctx, h)
		if err != nil {
			res.Failures = append(res.Failures, BlockFailure{Block: *h, Err: err})
			continue
		}
		if _, ok := seen[hdr.PrevBlock]; !ok {
			deferred = append(deferred, Orphan{Block: *h, Parent: hdr.PrevBlock})
		}
	}

	for _, d := range deferred {
		if _, ok := seen[d.Parent]; !ok {
			res.Orphans = append(res.Orphans, d)
		}
	}
	return res, nil
}
