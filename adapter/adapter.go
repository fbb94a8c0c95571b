package adapter

import (
	"bytes"
	"sync/atomic"
)

// DevType classifies a device once its SDP record has been parsed.
// A session starts out as TypeNone.
type DevType int32

const (
	TypeNone DevType = iota
	TypeHIDGeneric
	TypePS4
	TypeXB1
	TypeXB1Adaptive
	TypeSwitch
)

const (
	// MaxAxes is the number of axes carried by a generic frame.
	MaxAxes = 6
	// MaxReports is the per-device report table capacity.
	MaxReports = 8
	// InputBufSize holds one raw HID input report.
	InputBufSize = 128
	// OutputBufSize holds one translated feedback report.
	OutputBufSize = 64
)

// Axis indices into Ctrl.Axes.
const (
	AxisLX = iota
	AxisLY
	AxisRX
	AxisRY
	TrigL
	TrigR
)

// Generic pad button bit indices. The first 8 are the stick/trigger
// digital shadows, then dpad, face buttons, menu cluster, shoulder and
// joystick clicks. Device mapping tables are indexed by these values.
const (
	PadLXLeft = iota
	PadLXRight
	PadLYDown
	PadLYUp
	PadRXLeft
	PadRXRight
	PadRYDown
	PadRYUp
	PadLDLeft
	PadLDRight
	PadLDDown
	PadLDUp
	PadRDLeft
	PadRDRight
	PadRDDown
	PadRDUp
	PadBL // west
	PadBR // east
	PadBD // south
	PadBU // north
	PadMM // start/menu
	PadMS // select/view
	PadMT // home/guide
	PadMQ // capture
	PadLM
	PadLS
	PadLT
	PadLJ
	PadRM
	PadRS
	PadRT
	PadRJ
)

// GenericBtnsMask maps a generic button index to its frame bit.
var GenericBtnsMask = func() (m [32]uint32) {
	for i := range m {
		m[i] = 1 << uint(i)
	}
	return m
}()

// HatToLDBtns converts an 8-way HID hat value (0 = up, clockwise) to
// dpad bits. Out-of-range values land on the zero entries.
var HatToLDBtns = [16]uint32{
	bit(PadLDUp), bit(PadLDUp) | bit(PadLDRight), bit(PadLDRight), bit(PadLDDown) | bit(PadLDRight),
	bit(PadLDDown), bit(PadLDDown) | bit(PadLDLeft), bit(PadLDLeft), bit(PadLDUp) | bit(PadLDLeft),
}

func bit(n int) uint32 {
	return 1 << uint(n)
}

// Meta is the per-axis calibration metadata: neutral point, polarity
// and absolute range.
type Meta struct {
	SizeMin  int32
	SizeMax  int32
	Neutral  int32
	AbsMax   int32
	Polarity bool
}

// Axis is one axis value paired with its calibration metadata.
type Axis struct {
	Value int32
	Meta  *Meta
}

// Btns is one 32-bit word of the generic button bitmask.
type Btns struct {
	Value uint32
}

// Ctrl is the Generic Controller Frame: the device-agnostic normalized
// representation of a controller's state. Mask and Desc point at the
// producing device's static capability tables.
type Ctrl struct {
	Mask *[4]uint32
	Desc *[4]uint32
	Btns [4]Btns
	Axes [MaxAxes]Axis
}

// Report describes one HID report accepted from a device: its id and
// the expected payload length.
type Report struct {
	ID  uint8
	Len uint32
}

// Data flag bits.
const (
	// FlagInit is set once the first-report axis calibration has run.
	FlagInit = 0
)

// Data is the per-slot bridge buffer shared between the host core and
// the mapping tables. One instance exists per device session and is
// zeroed together with its session.
type Data struct {
	DevID      int32
	DevType    DevType
	Flags      uint32
	ReportID   uint8
	ReportType int32
	ReportCnt  uint32
	Reports    [MaxReports]Report
	AxesCal    [MaxAxes]int32
	Input      [InputBufSize]byte
	Output     [OutputBufSize]byte
}

// Reset zeroes the buffer for reuse by a new session.
func (d *Data) Reset() {
	*d = Data{}
}

// SetFlag atomically sets the given flag bit.
func (d *Data) SetFlag(n uint32) {
	setBit(&d.Flags, n)
}

// ClearFlag atomically clears the given flag bit.
func (d *Data) ClearFlag(n uint32) {
	clearBit(&d.Flags, n)
}

// TestFlag atomically reads the given flag bit.
func (d *Data) TestFlag(n uint32) bool {
	return testBit(&d.Flags, n)
}

// ReportLen resolves the expected payload length for a report id from
// the per-device report table. The second return is the table index.
func (d *Data) ReportLen(id uint8) (uint32, int32, bool) {
	for i, r := range d.Reports {
		if r.ID == id && r.Len != 0 {
			return r.Len, int32(i), true
		}
	}
	return 0, 0, false
}

func setBit(addr *uint32, n uint32) {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old|(1<<n)) {
			return
		}
	}
}

func clearBit(addr *uint32, n uint32) {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old&^(1<<n)) {
			return
		}
	}
}

func testBit(addr *uint32, n uint32) bool {
	return atomic.LoadUint32(addr)&(1<<n) != 0
}

// Bridge is the report translation capability: raw input bytes plus a
// device type in, generic frames out, and the inverse for feedback.
type Bridge interface {
	// Bridge translates the raw report in d.Input and delivers the
	// resulting generic frame downstream.
	Bridge(d *Data)
	// BridgeFeedback translates a wired-side feedback blob into the
	// device-specific d.Output. It reports whether the output changed
	// and needs to be transmitted.
	BridgeFeedback(fb []byte, d *Data) bool
}

// OutputLen returns the transmit length of a translated feedback
// report for the given device type.
func OutputLen(t DevType) int {
	switch t {
	case TypeXB1, TypeXB1Adaptive:
		return xb1OutputLen
	case TypePS4:
		return ps4OutputLen
	default:
		return 0
	}
}

// FrameSink consumes generic frames produced by the input path.
type FrameSink func(devID int32, c *Ctrl)

// TableBridge dispatches to the static per-device mapping tables.
type TableBridge struct {
	sink FrameSink
}

// NewTableBridge returns a Bridge backed by the in-tree mapping tables.
func NewTableBridge(sink FrameSink) *TableBridge {
	return &TableBridge{sink: sink}
}

// Bridge decodes d.Input according to d.DevType.
func (t *TableBridge) Bridge(d *Data) {
	var c Ctrl

	switch d.DevType {
	case TypeXB1, TypeXB1Adaptive:
		xb1ToGeneric(d, &c)
	case TypePS4:
		ps4ToGeneric(d, &c)
	default:
		return
	}

	if t.sink != nil {
		t.sink(d.DevID, &c)
	}
}

// BridgeFeedback encodes a feedback blob into d.Output. The blob's
// first byte is the session index, the second the feedback state.
func (t *TableBridge) BridgeFeedback(fb []byte, d *Data) bool {
	if len(fb) < 2 {
		return false
	}

	prev := d.Output

	switch d.DevType {
	case TypeXB1, TypeXB1Adaptive:
		xb1FbFromGeneric(fb[1] != 0, d)
	case TypePS4:
		ps4FbFromGeneric(fb[1] != 0, d)
	default:
		return false
	}

	return !bytes.Equal(prev[:], d.Output[:])
}
