package hci

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/Alkhymia/BlueRetro/adapter"
)

type recordBridge struct {
	calls   int
	last    adapter.Data
	changed bool
}

func (r *recordBridge) Bridge(d *adapter.Data) {
	r.calls++
	r.last = *d
}

func (r *recordBridge) BridgeFeedback(fb []byte, d *adapter.Data) bool {
	return r.changed
}

func bridgeHost(rb *recordBridge) (*Host, *Dev) {
	h := &Host{devs: newDevTable(), bridge: rb}
	d := h.devs.AllocateNew()
	d.SetFlag(devFlagFound)
	d.Type = adapter.TypePS4
	return h, d
}

func TestBridgeSwallowsFirstReport(t *testing.T) {
	rb := &recordBridge{}
	h, d := bridgeHost(rb)

	h.Bridge(d, 0x11, []byte{0x01, 0x02})
	if rb.calls != 0 {
		t.Fatalf("first report of a fresh session must be swallowed, got %d calls", rb.calls)
	}

	h.Bridge(d, 0x11, []byte{0x03, 0x04})
	if rb.calls != 1 {
		t.Fatalf("second report must translate, got %d calls", rb.calls)
	}
	if rb.last.ReportID != 0x11 || rb.last.DevType != adapter.TypePS4 {
		t.Fatalf("bad translated data: id 0x%02X type %d", rb.last.ReportID, rb.last.DevType)
	}
	if !bytes.Equal(rb.last.Input[:2], []byte{0x03, 0x04}) {
		t.Fatalf("input not copied: % X", rb.last.Input[:2])
	}
}

func TestBridgeInitFlagSkipsSwallow(t *testing.T) {
	rb := &recordBridge{}
	h, d := bridgeHost(rb)

	h.devs.Data(d.ID()).SetFlag(adapter.FlagInit)

	h.Bridge(d, 0x11, []byte{0xAA})
	if rb.calls != 1 {
		t.Fatalf("initialized session must translate immediately, got %d calls", rb.calls)
	}
}

func TestBridgeUnknownGenericReport(t *testing.T) {
	rb := &recordBridge{}
	h, d := bridgeHost(rb)
	d.Type = adapter.TypeHIDGeneric

	ad := h.devs.Data(d.ID())
	ad.Reports[0] = adapter.Report{ID: 0x01, Len: 4}
	ad.SetFlag(adapter.FlagInit)

	h.Bridge(d, 0x7F, []byte{0x01})
	if rb.calls != 0 {
		t.Fatalf("unknown report id must be dropped, got %d calls", rb.calls)
	}
	if ad.ReportCnt != 0 {
		t.Fatalf("dropped report counted: %d", ad.ReportCnt)
	}
}

func TestBridgeGenericReportClamp(t *testing.T) {
	rb := &recordBridge{}
	h, d := bridgeHost(rb)
	d.Type = adapter.TypeHIDGeneric

	ad := h.devs.Data(d.ID())
	ad.Reports[0] = adapter.Report{ID: 0x01, Len: 4}
	ad.SetFlag(adapter.FlagInit)

	h.Bridge(d, 0x01, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if rb.calls != 1 {
		t.Fatalf("expected translation, got %d calls", rb.calls)
	}
	if !bytes.Equal(rb.last.Input[:5], []byte{1, 2, 3, 4, 0}) {
		t.Fatalf("input not clamped to descriptor length: % X", rb.last.Input[:5])
	}
	if rb.last.ReportType != 0 {
		t.Fatalf("report type index %d, want 0", rb.last.ReportType)
	}
}

func TestBridgeConfigSessionDropped(t *testing.T) {
	rb := &recordBridge{}
	h := &Host{devs: newDevTable(), bridge: rb, cfg: &Dev{id: -1}}

	// the config session owns no data slot, a routed report must not panic
	h.Bridge(h.cfg, 0x01, []byte{0xAA})
	if rb.calls != 0 {
		t.Fatalf("config session report translated: %d calls", rb.calls)
	}
}

// fbRecorder is safe to share with the feedback goroutine.
type fbRecorder struct {
	mu  sync.Mutex
	fbs [][]byte
}

func (r *fbRecorder) Bridge(d *adapter.Data) {}

func (r *fbRecorder) BridgeFeedback(fb []byte, d *adapter.Data) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]byte, len(fb))
	copy(cp, fb)
	r.fbs = append(r.fbs, cp)
	return true
}

func TestFeedbackAutoOff(t *testing.T) {
	rb := &fbRecorder{}
	src := make(chan []byte, 1)
	h := &Host{
		devs:      newDevTable(),
		bridge:    rb,
		txq:       newTxQueue(),
		feedback:  src,
		fbAutoOff: 20 * time.Millisecond,
		fbOff:     make(chan int, devMax),
		done:      make(chan bool),
	}
	defer close(h.done)

	d := h.devs.AllocateNew()
	d.SetFlag(devFlagFound)
	d.Type = adapter.TypePS4
	d.IntrChan = Channel{SCID: 0x0060, DCID: 0x0041}

	go h.feedbackLoop()

	src <- []byte{byte(d.ID()), 1}

	select {
	case <-h.txq.ch:
	case <-time.After(time.Second):
		t.Fatal("rumble-on report never queued")
	}

	// without a refresh the loop synthesizes an off state
	select {
	case <-h.txq.ch:
	case <-time.After(time.Second):
		t.Fatal("auto-off report never queued")
	}

	select {
	case <-h.txq.ch:
		t.Fatal("unexpected extra output after the off state")
	case <-time.After(60 * time.Millisecond):
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()
	if n := len(rb.fbs); n != 2 {
		t.Fatalf("feedback translations %d, want 2", n)
	}
	if rb.fbs[1][0] != byte(d.ID()) || rb.fbs[1][1] != 0 {
		t.Fatalf("synthesized blob % X, want session %d state 0", rb.fbs[1], d.ID())
	}
}
