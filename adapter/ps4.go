package adapter

// DS4 controllers report over Bluetooth with report 0x11; its payload
// embeds the USB-style input block at a 2-byte offset. Rumble/led
// feedback goes out as output report 0x11.

const ps4InputOff = 2

// USB-style input block offsets (relative to ps4InputOff).
const (
	ps4OffLX    = 0
	ps4OffLY    = 1
	ps4OffRX    = 2
	ps4OffRY    = 3
	ps4OffBtns0 = 4 // hat nibble + face buttons
	ps4OffBtns1 = 5
	ps4OffBtns2 = 6
	ps4OffTrigL = 7
	ps4OffTrigR = 8
)

// Btns0 high nibble.
const (
	ps4Square = 4 + iota
	ps4Cross
	ps4Circle
	ps4Triangle
)

// Btns1 bits.
const (
	ps4L1 = iota
	ps4R1
	ps4L2
	ps4R2
	ps4Share
	ps4Options
	ps4L3
	ps4R3
)

// Btns2 bits.
const (
	ps4PS = iota
	ps4TouchPad
)

var ps4AxesMeta = [MaxAxes]Meta{
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{SizeMin: 0, SizeMax: 255, Neutral: 0x00, AbsMax: 0xFF},
	{SizeMin: 0, SizeMax: 255, Neutral: 0x00, AbsMax: 0xFF},
}

var ps4AxesIdx = [MaxAxes]int{
	//  AxisLX, AxisLY, AxisRX, AxisRY, TrigL, TrigR
	ps4OffLX, ps4OffLY, ps4OffRX, ps4OffRY, ps4OffTrigL, ps4OffTrigR,
}

var ps4Mask = [4]uint32{0xBBFF0FFF, 0x00000000, 0x00000000, 0x00000000}
var ps4Desc = [4]uint32{0x110000FF, 0x00000000, 0x00000000, 0x00000000}

// DefaultPS4Reports is the report table installed for DS4 sessions.
var DefaultPS4Reports = [MaxReports]Report{
	{ID: 0x11, Len: 77},
	{ID: 0x01, Len: 9},
}

func ps4ToGeneric(d *Data, c *Ctrl) {
	if d.ReportID != 0x11 && d.ReportID != 0x01 {
		return
	}

	base := 0
	if d.ReportID == 0x11 {
		base = ps4InputOff
	}

	c.Mask = &ps4Mask
	c.Desc = &ps4Desc

	b0 := d.Input[base+ps4OffBtns0]
	b1 := d.Input[base+ps4OffBtns1]
	b2 := d.Input[base+ps4OffBtns2]

	c.Btns[0].Value |= HatToLDBtns[b0&0xF]

	face := [...]struct {
		src uint8
		dst int
	}{
		{ps4Square, PadBL},
		{ps4Cross, PadBD},
		{ps4Circle, PadBR},
		{ps4Triangle, PadBU},
	}
	for _, f := range face {
		if b0&(1<<f.src) != 0 {
			c.Btns[0].Value |= GenericBtnsMask[f.dst]
		}
	}

	misc := [...]struct {
		src uint8
		dst int
	}{
		{ps4L1, PadLS},
		{ps4R1, PadRS},
		{ps4L2, PadLT},
		{ps4R2, PadRT},
		{ps4Share, PadMS},
		{ps4Options, PadMM},
		{ps4L3, PadLJ},
		{ps4R3, PadRJ},
	}
	for _, m := range misc {
		if b1&(1<<m.src) != 0 {
			c.Btns[0].Value |= GenericBtnsMask[m.dst]
		}
	}

	if b2&(1<<ps4PS) != 0 {
		c.Btns[0].Value |= GenericBtnsMask[PadMT]
	}
	if b2&(1<<ps4TouchPad) != 0 {
		c.Btns[0].Value |= GenericBtnsMask[PadMQ]
	}

	if !d.TestFlag(FlagInit) {
		for i := 0; i < MaxAxes; i++ {
			d.AxesCal[i] = -(int32(d.Input[base+ps4AxesIdx[i]]) - ps4AxesMeta[i].Neutral)
		}
		d.SetFlag(FlagInit)
	}

	for i := 0; i < MaxAxes; i++ {
		c.Axes[i].Meta = &ps4AxesMeta[i]
		c.Axes[i].Value = int32(d.Input[base+ps4AxesIdx[i]]) - ps4AxesMeta[i].Neutral + d.AxesCal[i]
	}
}

// ps4OutputLen is the report id plus the rumble prefix.
const ps4OutputLen = 8

// ps4FbFromGeneric writes the rumble prefix of output report 0x11.
func ps4FbFromGeneric(state bool, d *Data) {
	var mag uint8
	if state {
		mag = 0xFF
	}

	d.Output[0] = 0x11 // output report id
	d.Output[1] = 0xC0 // HID + CRC, poll rate 0
	d.Output[2] = 0x20
	d.Output[3] = 0xF3 // enable rumble + led update
	d.Output[4] = 0x04
	d.Output[5] = 0x00
	d.Output[6] = mag // weak motor
	d.Output[7] = mag // strong motor
}
