package h4

import (
	"bytes"
	"testing"
)

func TestFrameAssembleEvent(t *testing.T) {
	out := make(chan []byte, 4)
	f := newFrame(out)

	pkt := []byte{eventPacket, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	f.Assemble(pkt)

	select {
	case got := <-out:
		if !bytes.Equal(got, pkt) {
			t.Fatalf("frame mismatch:\ngot  % X\nwant % X", got, pkt)
		}
	default:
		t.Fatal("no frame assembled")
	}
}

func TestFrameAssembleChunked(t *testing.T) {
	out := make(chan []byte, 4)
	f := newFrame(out)

	pkt := []byte{aclPacket, 0x0B, 0x20, 0x08, 0x00, 0x04, 0x00, 0x41, 0x00, 0xA1, 0x11, 0x22, 0x33}
	f.Assemble(pkt[:3])
	f.Assemble(pkt[3:9])

	select {
	case <-out:
		t.Fatal("incomplete frame emitted")
	default:
	}

	f.Assemble(pkt[9:])

	select {
	case got := <-out:
		if !bytes.Equal(got, pkt) {
			t.Fatalf("frame mismatch:\ngot  % X\nwant % X", got, pkt)
		}
	default:
		t.Fatal("no frame assembled")
	}
}

func TestFrameAssembleBackToBack(t *testing.T) {
	out := make(chan []byte, 4)
	f := newFrame(out)

	a := []byte{eventPacket, 0x13, 0x05, 0x01, 0x0B, 0x00, 0x01, 0x00}
	b := []byte{eventPacket, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	f.Assemble(append(append([]byte{}, a...), b...))

	for i, want := range [][]byte{a, b} {
		select {
		case got := <-out:
			if !bytes.Equal(got, want) {
				t.Fatalf("frame %d mismatch:\ngot  % X\nwant % X", i, got, want)
			}
		default:
			t.Fatalf("frame %d not assembled", i)
		}
	}
}

func TestFrameSkipsLeadingGarbage(t *testing.T) {
	out := make(chan []byte, 4)
	f := newFrame(out)

	pkt := []byte{eventPacket, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	f.Assemble(append([]byte{0x00, 0xFF, 0x7E}, pkt...))

	select {
	case got := <-out:
		if !bytes.Equal(got, pkt) {
			t.Fatalf("frame mismatch:\ngot  % X\nwant % X", got, pkt)
		}
	default:
		t.Fatal("no frame assembled")
	}
}
