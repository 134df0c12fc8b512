package block

import (
	"fmt"
	"io"

	"github.com/bsv-blockchain/go-sdk/transaction"
)

// Reader decodes a full block incrementally from an underlying byte stream:
// the header and transaction count are decoded up front, transactions are
// decoded one at a time as the caller pulls them. The underlying stream is
// never rewound, so a block larger than memory can be processed.
type Reader struct {
	header  *Header
	txCount uint64
	read    uint64
	r       io.Reader
}

// NewReader decodes the header and transaction count from r and returns a
// Reader positioned at the first transaction.
func NewReader(r io.Reader) (*Reader, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("transaction count: %w", err)
	}
	return &Reader{header: h, txCount: n, r: r}, nil
}

// Header returns the decoded block header.
func (br *Reader) Header() *Header {
	return br.header
}

// TxCount returns the transaction count declared by the block.
func (br *Reader) TxCount() uint64 {
	return br.txCount
}

// Next decodes and returns the next transaction in block order.
// It returns io.EOF once the declared transaction count has been consumed.
func (br *Reader) Next() (*transaction.Transaction, error) {
	if br.read >= br.txCount {
		return nil, io.EOF
	}
	tx := &transaction.Transaction{}
	if _, err := tx.ReadFrom(br.r); err != nil {
		return nil, fmt.Errorf("%w: transaction %d: %w", ErrBadTransaction, br.read, err)
	}
	br.read++
	return tx, nil
}

// Assemble serializes a header and raw encoded transactions into the archive
// entry form: header | varint(count) | transactions.
func Assemble(h *Header, rawTxs [][]byte) []byte {
	buf := h.Serialize()
	buf = AppendVarInt(buf, uint64(len(rawTxs)))
	for _, tx := range rawTxs {
		buf = append(buf, tx...)
	}
	return buf
}
