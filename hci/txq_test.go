package hci

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

type fakeSkt struct {
	mu     sync.Mutex
	writes []time.Time
}

func (s *fakeSkt) Read(b []byte) (int, error) { return 0, nil }

func (s *fakeSkt) Write(b []byte) (int, error) {
	s.mu.Lock()
	s.writes = append(s.writes, time.Now())
	s.mu.Unlock()
	return len(b), nil
}

func (s *fakeSkt) Close() error { return nil }

func TestTxQueueCopiesEntries(t *testing.T) {
	q := newTxQueue()

	p := []byte{pktTypeCommand, 0x03, 0x0C, 0x00}
	if err := q.Enqueue(p); err != nil {
		t.Fatal(err)
	}
	p[1] = 0xFF // caller reuses its buffer

	got := <-q.ch
	if !bytes.Equal(got, []byte{pktTypeCommand, 0x03, 0x0C, 0x00}) {
		t.Fatalf("queued entry aliased caller buffer: % X", got)
	}
}

func TestTxQueueFull(t *testing.T) {
	q := newTxQueue()

	for i := 0; i < txQueueSize; i++ {
		if err := q.Enqueue([]byte{pktTypeACLData, byte(i)}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}

	if err := q.Enqueue([]byte{pktTypeACLData, 0xFF}); err != ErrTxQueueFull {
		t.Fatalf("expected ErrTxQueueFull, got %v", err)
	}

	// the overflow entry is discarded, not queued
	if len(q.ch) != txQueueSize {
		t.Fatalf("queue length %d after overflow", len(q.ch))
	}
}

func TestTxQueueWaitMarker(t *testing.T) {
	q := newTxQueue()

	if err := q.EnqueueWait(50); err != nil {
		t.Fatal(err)
	}

	got := <-q.ch
	if len(got) != 2 || got[0] != txqWaitMarker || got[1] != 50 {
		t.Fatalf("bad wait marker: % X", got)
	}
}

func TestTxDrainWaitMarker(t *testing.T) {
	skt := &fakeSkt{}
	h := &Host{
		skt:  skt,
		txq:  newTxQueue(),
		gate: newReadyGate(),
		done: make(chan bool),
	}
	defer close(h.done)

	if err := h.QueueWait(50); err != nil {
		t.Fatal(err)
	}
	pkt := []byte{pktTypeACLData, 0x0B, 0x00, 0x01, 0x00, 0xAA}
	if err := h.txq.Enqueue(pkt); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	h.gate.Set()
	go h.txDrainLoop()

	deadline := time.After(time.Second)
	for {
		skt.mu.Lock()
		n := len(skt.writes)
		skt.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("packet never sent")
		case <-time.After(time.Millisecond):
		}
	}

	skt.mu.Lock()
	sent := skt.writes[0]
	skt.mu.Unlock()
	if d := sent.Sub(start); d < 50*time.Millisecond {
		t.Fatalf("packet sent %v after start, want >= 50ms", d)
	}
}

func TestReadyGateCoalesces(t *testing.T) {
	g := newReadyGate()

	g.Set()
	g.Set()
	g.Set()

	select {
	case <-g.ch:
	default:
		t.Fatal("gate not armed after Set")
	}

	select {
	case <-g.ch:
		t.Fatal("multiple Set calls granted more than one credit")
	default:
	}
}
