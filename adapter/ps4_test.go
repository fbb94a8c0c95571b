package adapter

import "testing"

func ps4Data() *Data {
	d := &Data{DevType: TypePS4, ReportID: 0x11, Reports: DefaultPS4Reports}
	base := ps4InputOff
	d.Input[base+ps4OffLX] = 0x80
	d.Input[base+ps4OffLY] = 0x80
	d.Input[base+ps4OffRX] = 0x80
	d.Input[base+ps4OffRY] = 0x80
	d.Input[base+ps4OffBtns0] = 0x08 // hat released
	return d
}

func TestPS4Buttons(t *testing.T) {
	d := ps4Data()
	d.SetFlag(FlagInit)

	base := ps4InputOff
	d.Input[base+ps4OffBtns0] = 0x08 | 1<<ps4Cross
	d.Input[base+ps4OffBtns1] = 1<<ps4R1 | 1<<ps4Options
	d.Input[base+ps4OffBtns2] = 1 << ps4PS

	var c Ctrl
	ps4ToGeneric(d, &c)

	want := bit(PadBD) | bit(PadRS) | bit(PadMM) | bit(PadMT)
	if c.Btns[0].Value != want {
		t.Fatalf("buttons 0x%08X, want 0x%08X", c.Btns[0].Value, want)
	}
}

func TestPS4Hat(t *testing.T) {
	d := ps4Data()
	d.SetFlag(FlagInit)

	base := ps4InputOff
	d.Input[base+ps4OffBtns0] = 0x06 // left

	var c Ctrl
	ps4ToGeneric(d, &c)

	if c.Btns[0].Value != bit(PadLDLeft) {
		t.Fatalf("buttons 0x%08X, want dpad left", c.Btns[0].Value)
	}
}

func TestPS4Axes(t *testing.T) {
	d := ps4Data()
	d.SetFlag(FlagInit)

	base := ps4InputOff
	d.Input[base+ps4OffLX] = 0xFF
	d.Input[base+ps4OffTrigR] = 0x40

	var c Ctrl
	ps4ToGeneric(d, &c)

	if c.Axes[AxisLX].Value != 0x7F {
		t.Fatalf("lx %d, want %d", c.Axes[AxisLX].Value, 0x7F)
	}
	if c.Axes[TrigR].Value != 0x40 {
		t.Fatalf("rt %d, want %d", c.Axes[TrigR].Value, 0x40)
	}
	if c.Axes[AxisLY].Value != 0 {
		t.Fatalf("ly %d, want 0", c.Axes[AxisLY].Value)
	}
}

func TestPS4IgnoresUnknownReport(t *testing.T) {
	d := ps4Data()
	d.ReportID = 0x42

	var c Ctrl
	ps4ToGeneric(d, &c)

	if c.Mask != nil || c.Btns[0].Value != 0 {
		t.Fatal("unknown report id must be ignored")
	}
}

func TestPS4Feedback(t *testing.T) {
	b := NewTableBridge(nil)
	d := &Data{DevType: TypePS4}

	if !b.BridgeFeedback([]byte{0, 1}, d) {
		t.Fatal("rumble-on must report a changed output")
	}
	want := []byte{0x11, 0xC0, 0x20, 0xF3, 0x04, 0x00, 0xFF, 0xFF}
	for i, v := range want {
		if d.Output[i] != v {
			t.Fatalf("output[%d] = 0x%02X, want 0x%02X", i, d.Output[i], v)
		}
	}

	if !b.BridgeFeedback([]byte{0, 0}, d) {
		t.Fatal("rumble-off must report a changed output")
	}
	if d.Output[6] != 0 || d.Output[7] != 0 {
		t.Fatalf("motors still driven: % X", d.Output[:ps4OutputLen])
	}
}
