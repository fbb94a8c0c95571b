package adapter

import "encoding/binary"

// Xbox One wireless controllers expose a dinput-style HID report over
// Bluetooth. Report 0x01 carries axes/hat/buttons, report 0x02 the
// guide button. The adaptive controller adds four extra buttons in a
// trailing byte.

// xinput button bits (report 0x01, regular controller).
const (
	xb1A = iota
	xb1B
	xb1X
	xb1Y
	xb1LB
	xb1RB
	xb1View
	xb1Menu
	xb1LJ
	xb1RJ
)

// dinput button bits (adaptive controller).
const (
	xb1DiA    = 0
	xb1DiB    = 1
	xb1DiX    = 3
	xb1DiY    = 4
	xb1DiLB   = 6
	xb1DiRB   = 7
	xb1DiMenu = 11
	xb1DiLJ   = 13
	xb1DiRJ   = 14
	xb1DiView = 16
)

// report 0x02.
const xb1Xbox = 0

// adaptive extra byte.
const (
	xb1AdaptiveX1 = iota
	xb1AdaptiveX2
	xb1AdaptiveX3
	xb1AdaptiveX4
)

// Report 0x01 wire layout offsets.
const (
	xb1OffAxes    = 0  // 6 x uint16 LE
	xb1OffHat     = 12 // uint8
	xb1OffButtons = 13 // uint32 LE, includes view on dinput
	xb1OffExtra   = 32 // adaptive extra buttons
)

var xb1AxesIdx = [MaxAxes]int{
	//  AxisLX, AxisLY, AxisRX, AxisRY, TrigL, TrigR
	0, 1, 2, 3, 4, 5,
}

var xb1AxesMeta = [MaxAxes]Meta{
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x0000, AbsMax: 0x3FF},
	{Neutral: 0x0000, AbsMax: 0x3FF},
}

var xb1Mask = [4]uint32{0xBB3F0FFF, 0x00000000, 0x00000000, 0x00000000}
var xb1Mask2 = [4]uint32{0x00400000, 0x00000000, 0x00000000, 0x00000000}
var xb1AdaptiveMask = [4]uint32{0xBB3FFFFF, 0x00000000, 0x00000000, 0x00000000}
var xb1Desc = [4]uint32{0x110000FF, 0x00000000, 0x00000000, 0x00000000}

var xb1BtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	bit(xb1X), bit(xb1B), bit(xb1A), bit(xb1Y),
	bit(xb1Menu), bit(xb1View), 0, 0,
	0, bit(xb1LB), 0, bit(xb1LJ),
	0, bit(xb1RB), 0, bit(xb1RJ),
}

var xb1DinputBtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	bit(xb1DiX), bit(xb1DiB), bit(xb1DiA), bit(xb1DiY),
	bit(xb1DiMenu), bit(xb1DiView), 0, 0,
	0, bit(xb1DiLB), 0, bit(xb1DiLJ),
	0, bit(xb1DiRB), 0, bit(xb1DiRJ),
}

var xb1AdaptiveBtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	bit(xb1AdaptiveX4), bit(xb1AdaptiveX3), bit(xb1AdaptiveX2), bit(xb1AdaptiveX1),
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
}

func xb1Axis(d *Data, i int) int32 {
	off := xb1OffAxes + 2*xb1AxesIdx[i]
	return int32(binary.LittleEndian.Uint16(d.Input[off : off+2]))
}

func xb1ToGeneric(d *Data, c *Ctrl) {
	c.Desc = &xb1Desc

	switch d.ReportID {
	case 0x01:
		var btnsMask *[32]uint32

		if d.DevType == TypeXB1Adaptive {
			c.Mask = &xb1AdaptiveMask
			btnsMask = &xb1DinputBtnsMask

			extra := uint32(d.Input[xb1OffExtra])
			for i, m := range xb1AdaptiveBtnsMask {
				if extra&m != 0 {
					c.Btns[0].Value |= GenericBtnsMask[i]
				}
			}
		} else {
			c.Mask = &xb1Mask
			btnsMask = &xb1BtnsMask
		}

		buttons := binary.LittleEndian.Uint32(d.Input[xb1OffButtons : xb1OffButtons+4])
		for i, m := range btnsMask {
			if buttons&m != 0 {
				c.Btns[0].Value |= GenericBtnsMask[i]
			}
		}

		// Convert hat to regular btns. Hat is 1-based, 0 is released.
		c.Btns[0].Value |= HatToLDBtns[(d.Input[xb1OffHat]-1)&0xF]

		if !d.TestFlag(FlagInit) {
			for i := 0; i < MaxAxes; i++ {
				d.AxesCal[i] = -(xb1Axis(d, i) - xb1AxesMeta[i].Neutral)
			}
			d.SetFlag(FlagInit)
		}

		for i := 0; i < MaxAxes; i++ {
			c.Axes[i].Meta = &xb1AxesMeta[i]
			c.Axes[i].Value = xb1Axis(d, i) - xb1AxesMeta[i].Neutral + d.AxesCal[i]
		}

	case 0x02:
		c.Mask = &xb1Mask2

		if d.Input[0]&(1<<xb1Xbox) != 0 {
			c.Btns[0].Value |= bit(PadMT)
		}
	}
}

// xb1Rumble is the 8-byte rumble record sent as output report 0x03.
type xb1Rumble struct {
	enable   uint8
	magLT    uint8
	magRT    uint8
	magL     uint8
	magR     uint8
	duration uint8
	delay    uint8
	cnt      uint8
}

var xb1RumbleOn = xb1Rumble{
	enable:   0x03,
	magL:     0x1e,
	magR:     0x1e,
	duration: 0xFF,
	cnt:      0x00,
}

var xb1RumbleOff = xb1Rumble{
	enable:   0x03,
	magL:     0x00,
	magR:     0x00,
	duration: 0xFF,
	cnt:      0xFF,
}

// xb1OutputLen is the report id plus the rumble record.
const xb1OutputLen = 9

func xb1FbFromGeneric(state bool, d *Data) {
	r := xb1RumbleOff
	if state {
		r = xb1RumbleOn
	}

	d.Output[0] = 0x03 // rumble output report id
	d.Output[1] = r.enable
	d.Output[2] = r.magLT
	d.Output[3] = r.magRT
	d.Output[4] = r.magL
	d.Output[5] = r.magR
	d.Output[6] = r.duration
	d.Output[7] = r.delay
	d.Output[8] = r.cnt
}
