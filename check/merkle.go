package check

import (
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"

	"github.com/Danconnolly/bsv-blockarchive/block"
)

// MerkleRoot folds an ordered sequence of transaction hashes into its merkle
// root. Pairs are processed in sequence order, a trailing unpaired hash is
// paired with itself, and each pair reduces to double-SHA256 of the 64-byte
// concatenation, repeated until a single hash remains.
func MerkleRoot(hashes []chainhash.Hash) (chainhash.Hash, error) {
	if len(hashes) == 0 {
		return chainhash.Hash{}, ErrNoTransactions
	}

	level := make([]chainhash.Hash, len(hashes))
	copy(level, hashes)

	var buf [chainhash.HashSize * 2]byte
	for len(level) > 1 {
		next := level[:0:0]
		for i := 0; i < len(level); i += 2 {
			left := level[i]
			right := left // duplicate-last rule for an odd count
			if i+1 < len(level) {
				right = level[i+1]
			}
			copy(buf[:chainhash.HashSize], left[:])
			copy(buf[chainhash.HashSize:], right[:])
			next = append(next, chainhash.DoubleHashH(buf[:]))
		}
		level = next
	}
	return level[0], nil
}

// Block verifies a single decoded block: the transaction stream is fully
// drained, each transaction hashed, and the merkle root recomputed and
// compared against the header. The bool is a verdict: a mismatched root is
// (false, nil), not an error. A transaction read failure is a hard error.
func Block(br *block.Reader) (bool, error) {
	var hashes []chainhash.Hash
	for {
		tx, err := br.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}
		hashes = append(hashes, *tx.TxID())
	}

	root, err := MerkleRoot(hashes)
	if err != nil {
		return false, err
	}
	return root == br.Header().MerkleRoot, nil
}
