package hci

import (
	blueretro "github.com/Alkhymia/BlueRetro"
	"github.com/Alkhymia/BlueRetro/adapter"
)

// Channel is one negotiated L2CAP channel: our id and the remote's.
type Channel struct {
	SCID uint16
	DCID uint16
}

// Dev is one device session slot. Slots are never relocated while
// active; the index is the stable identity used by the housekeeping
// loop, the router and the feedback path.
type Dev struct {
	id    int
	flags uint32

	ACLHandle    uint16
	RemoteBDAddr [6]byte
	Type         adapter.DevType

	SigChan   Channel
	SDPTxChan Channel
	SDPRxChan Channel
	CtrlChan  Channel
	IntrChan  Channel

	PageScanRepetitionMode uint8
	ClockOffset            uint16
}

// ID returns the slot index.
func (d *Dev) ID() int {
	return d.id
}

// Addr returns the remote address in display form.
func (d *Dev) Addr() blueretro.Addr {
	return blueretro.NewWireAddr(d.RemoteBDAddr)
}

// MarkSDPPending flags the session for the housekeeping SDP pass.
// Exported for SDP handler implementations living outside this package.
func (d *Dev) MarkSDPPending() {
	d.SetFlag(devFlagSDPData)
}

// MarkHIDIntrReady records that the HID interrupt channel is open.
// Signaling handlers call it once IntrChan is negotiated; housekeeping
// triggers HID init only for sessions marked ready.
func (d *Dev) MarkHIDIntrReady() {
	d.SetFlag(devFlagHIDIntrReady)
}

// SetFlag atomically sets a session flag bit.
func (d *Dev) SetFlag(n uint32) {
	setBit(&d.flags, n)
}

// ClearFlag atomically clears a session flag bit.
func (d *Dev) ClearFlag(n uint32) {
	clearBit(&d.flags, n)
}

// TestFlag atomically reads a session flag bit.
func (d *Dev) TestFlag(n uint32) bool {
	return testBit(&d.flags, n)
}

// DevTable is the fixed-capacity registry of peer sessions plus their
// generic-adapter data slots. All lookups are linear scans; the pool is
// small enough that O(N) is the simple, branch-predictable choice.
type DevTable struct {
	devs [devMax]Dev
	data [devMax]adapter.Data
}

func newDevTable() *DevTable {
	t := &DevTable{}
	for i := range t.devs {
		t.devs[i].id = i
		t.data[i].DevID = int32(i)
	}
	return t
}

// AllocateNew returns the first slot not marked found, or nil when the
// pool is exhausted. The caller marks the slot found once it claims it.
func (t *DevTable) AllocateNew() *Dev {
	for i := range t.devs {
		if !t.devs[i].TestFlag(devFlagFound) {
			return &t.devs[i]
		}
	}
	return nil
}

// FindActive returns the first active slot, or nil.
func (t *DevTable) FindActive() *Dev {
	for i := range t.devs {
		if t.devs[i].TestFlag(devFlagFound) {
			return &t.devs[i]
		}
	}
	return nil
}

// FindByAddr returns the active slot owning addr, or nil. A miss is an
// expected outcome for unknown peers.
func (t *DevTable) FindByAddr(addr [6]byte) *Dev {
	for i := range t.devs {
		if t.devs[i].TestFlag(devFlagFound) && t.devs[i].RemoteBDAddr == addr {
			return &t.devs[i]
		}
	}
	return nil
}

// FindByHandle returns the active slot owning the connection handle, or
// nil. The handle is masked to its connection bits first; the upper
// bits carry packet boundary flags.
func (t *DevTable) FindByHandle(handle uint16) *Dev {
	for i := range t.devs {
		if t.devs[i].TestFlag(devFlagFound) && aclHandle(handle) == t.devs[i].ACLHandle {
			return &t.devs[i]
		}
	}
	return nil
}

// Get returns the slot at index i, or nil when out of range. Used by
// the feedback path, which addresses sessions by embedded index.
func (t *DevTable) Get(i int) *Dev {
	if i < 0 || i >= devMax {
		return nil
	}
	return &t.devs[i]
}

// Data returns the generic-adapter data slot bound to session i, or
// nil when out of range. The config session (negative id) owns no data
// slot.
func (t *DevTable) Data(i int) *adapter.Data {
	if i < 0 || i >= devMax {
		return nil
	}
	return &t.data[i]
}

// Reset zeroes a session and its adapter buffer. Used both for a failed
// handshake and for a clean disconnect; the freed slot is immediately
// reusable by AllocateNew.
func (t *DevTable) Reset(d *Dev) {
	t.data[d.id].Reset()
	t.data[d.id].DevID = int32(d.id)
	id := d.id
	*d = Dev{id: id}
}

// ForEachActive runs fn for every slot currently marked found.
func (t *DevTable) ForEachActive(fn func(*Dev)) {
	for i := range t.devs {
		if t.devs[i].TestFlag(devFlagFound) {
			fn(&t.devs[i])
		}
	}
}
