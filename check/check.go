// Package check verifies the structural consistency of archived blocks.
//
// Consistency checking is not block validation: no consensus rule (scripts,
// proof-of-work, timestamps) is evaluated. A block is consistent when its
// stored bytes reconstruct into a header plus transactions whose hashes fold
// into the header's declared merkle root, and an archive is linked when every
// block's declared parent (other than the genesis block) is itself present.
package check

import "errors"

var (
	// ErrNoTransactions indicates a block's transaction stream was empty.
	// An empty stream cannot vacuously pass verification.
	ErrNoTransactions = errors.New("check: block has no transactions")
)
