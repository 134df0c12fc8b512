package archive

import (
	"context"
	"errors"
	"io"

	"github.com/bsv-blockchain/go-sdk/chainhash"
)

// HashStream is the receiving end of an archive enumeration. Hashes are
// produced by a background goroutine and buffered in a bounded channel; the
// stream owns the goroutine's cancellation and must be closed if abandoned
// before exhaustion, so the walker never outlives its consumer.
type HashStream struct {
	ch     chan *chainhash.Hash
	cancel context.CancelFunc
	done   chan struct{}

	// err is written by the producer before ch is closed and read by the
	// consumer only after ch is drained, so no further synchronization is
	// needed.
	err error
}

// NewHashStream starts produce in a background goroutine and returns the
// stream wrapping its output channel. Backend implementations use this to
// satisfy BlockList. produce must stop promptly when its context is
// cancelled; a context.Canceled return is treated as clean shutdown, any
// other error becomes the stream's terminal error.
func NewHashStream(ctx context.Context, buffer int, produce func(context.Context, chan<- *chainhash.Hash) error) *HashStream {
	ctx, cancel := context.WithCancel(ctx)
	s := &HashStream{
		ch:     make(chan *chainhash.Hash, buffer),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		err := produce(ctx, s.ch)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.err = err
		}
		close(s.ch)
		close(s.done)
	}()
	return s
}

// Next returns the next hash in the enumeration. It returns io.EOF once the
// archive has been fully enumerated, or the walker's terminal error if the
// enumeration failed partway.
func (s *HashStream) Next(ctx context.Context) (*chainhash.Hash, error) {
	select {
	case h, ok := <-s.ch:
		if !ok {
			if s.err != nil {
				return nil, s.err
			}
			return nil, io.EOF
		}
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close cancels the background walker and waits for it to finish. It is safe
// to call after exhaustion and more than once.
func (s *HashStream) Close() error {
	s.cancel()
	<-s.done
	return nil
}

// Done is closed when the background walker has finished, whether by
// exhaustion, failure, or cancellation.
func (s *HashStream) Done() <-chan struct{} {
	return s.done
}
