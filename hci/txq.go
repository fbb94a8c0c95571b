package hci

import "github.com/pkg/errors"

// ErrTxQueueFull is returned when the outbound FIFO is at capacity.
// Entries are never retried; callers must not assume delivery.
var ErrTxQueueFull = errors.New("hci: tx queue full")

// txQueue is the bounded FIFO of outbound packets, drained one at a
// time by the transmit loop, gated by the controller ready signal.
type txQueue struct {
	ch chan []byte
}

func newTxQueue() *txQueue {
	return &txQueue{ch: make(chan []byte, txQueueSize)}
}

// Enqueue copies p onto the queue.
func (q *txQueue) Enqueue(p []byte) error {
	pp := make([]byte, len(p))
	copy(pp, p)

	select {
	case q.ch <- pp:
		return nil
	default:
		logger.Warn("hci: txq full!")
		return ErrTxQueueFull
	}
}

// EnqueueWait queues a synthetic delay marker. The drain loop sleeps
// for ms milliseconds when it pops one, without consuming the send
// credit.
func (q *txQueue) EnqueueWait(ms uint8) error {
	return q.Enqueue([]byte{txqWaitMarker, ms})
}

// readyGate is the single-credit flow-control gate in front of the
// transport's send path. Multiple Set calls coalesce into one credit.
type readyGate struct {
	ch chan struct{}
}

func newReadyGate() *readyGate {
	return &readyGate{ch: make(chan struct{}, 1)}
}

// Set arms the gate.
func (g *readyGate) Set() {
	select {
	case g.ch <- struct{}{}:
	default:
	}
}
