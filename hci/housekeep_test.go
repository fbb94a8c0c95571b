package hci

import (
	"testing"

	"github.com/Alkhymia/BlueRetro/adapter"
)

type recordHID struct {
	inits []int
}

func (r *recordHID) HandleHID(d *Dev, frame []byte) {}

func (r *recordHID) HIDInit(d *Dev) {
	r.inits = append(r.inits, d.ID())
}

type fixedParser struct {
	t adapter.DevType
}

func (p fixedParser) Parse(data *adapter.Data) adapter.DevType {
	return p.t
}

func TestHousekeepTriggersHIDInit(t *testing.T) {
	hid := &recordHID{}
	h := &Host{devs: newDevTable(), hid: hid, sdpParse: fixedParser{t: adapter.TypePS4}}

	d := h.devs.AllocateNew()
	d.SetFlag(devFlagFound)
	d.IntrChan = Channel{SCID: 0x0060, DCID: 0x0041}
	d.MarkHIDIntrReady()
	d.MarkSDPPending()

	h.housekeep()

	if len(hid.inits) != 1 || hid.inits[0] != d.ID() {
		t.Fatalf("HIDInit calls %v, want one for dev %d", hid.inits, d.ID())
	}
	if d.Type != adapter.TypePS4 || h.devs.Data(d.ID()).DevType != adapter.TypePS4 {
		t.Fatalf("resolved type not applied: session %d, data %d", d.Type, h.devs.Data(d.ID()).DevType)
	}
	if d.TestFlag(devFlagSDPData) {
		t.Fatal("pending flag survived the pass")
	}

	// next tick is a no-op without fresh records
	h.housekeep()
	if len(hid.inits) != 1 {
		t.Fatalf("HIDInit re-fired: %v", hid.inits)
	}
}

func TestHousekeepWithoutIntrChannel(t *testing.T) {
	hid := &recordHID{}
	h := &Host{devs: newDevTable(), hid: hid, sdpParse: fixedParser{t: adapter.TypeXB1}}

	d := h.devs.AllocateNew()
	d.SetFlag(devFlagFound)
	d.MarkSDPPending()

	h.housekeep()

	if d.Type != adapter.TypeXB1 {
		t.Fatalf("type %d, want TypeXB1", d.Type)
	}
	if len(hid.inits) != 0 {
		t.Fatalf("HIDInit fired before the interrupt channel is ready: %v", hid.inits)
	}
}

func TestHousekeepDisconnectSwitchInhibit(t *testing.T) {
	h := &Host{
		devs:        newDevTable(),
		txq:         newTxQueue(),
		disconnPoll: func() bool { return true },
	}

	for i := 0; i < 2; i++ {
		d := h.devs.AllocateNew()
		d.ACLHandle = uint16(0x0B + i)
		d.SetFlag(devFlagFound)
	}

	h.housekeep()
	if n := len(h.txq.ch); n != 2 {
		t.Fatalf("%d disconnects queued, want 2", n)
	}

	// the switch stays pressed but the inhibit blocks a re-trigger
	h.housekeep()
	if n := len(h.txq.ch); n != 2 {
		t.Fatalf("%d disconnects queued after inhibited tick, want 2", n)
	}
}
