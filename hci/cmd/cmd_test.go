package cmd

import (
	"bytes"
	"testing"
)

func TestAcceptConnectionRequestMarshal(t *testing.T) {
	c := &AcceptConnectionRequest{
		BDADDR: [6]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66},
		Role:   0x00,
	}

	if c.OpCode() != 0x0409 {
		t.Fatalf("opcode 0x%04X, want 0x0409", c.OpCode())
	}

	b := make([]byte, c.Len())
	if err := c.Marshal(b); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x00}
	if !bytes.Equal(b, want) {
		t.Fatalf("marshal mismatch:\ngot  % X\nwant % X", b, want)
	}
}

func TestDisconnectMarshal(t *testing.T) {
	c := &Disconnect{ConnectionHandle: 0x0B, Reason: 0x13}

	if c.OpCode() != 0x0406 {
		t.Fatalf("opcode 0x%04X, want 0x0406", c.OpCode())
	}

	b := make([]byte, c.Len())
	if err := c.Marshal(b); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x0B, 0x00, 0x13}
	if !bytes.Equal(b, want) {
		t.Fatalf("marshal mismatch:\ngot  % X\nwant % X", b, want)
	}
}

func TestLinkKeyRequestReplyMarshal(t *testing.T) {
	c := &LinkKeyRequestReply{BDADDR: [6]byte{1, 2, 3, 4, 5, 6}}
	for i := range c.LinkKey {
		c.LinkKey[i] = byte(0xA0 + i)
	}

	b := make([]byte, c.Len())
	if err := c.Marshal(b); err != nil {
		t.Fatal(err)
	}
	if len(b) != 22 {
		t.Fatalf("length %d, want 22", len(b))
	}
	if b[6] != 0xA0 || b[21] != 0xAF {
		t.Fatalf("link key misplaced: % X", b)
	}
}

func TestReadBDADDRRPUnmarshal(t *testing.T) {
	rp := &ReadBDADDRRP{}
	if err := rp.Unmarshal([]byte{0x00, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11}); err != nil {
		t.Fatal(err)
	}
	if rp.Status != 0 {
		t.Fatalf("status 0x%02X", rp.Status)
	}
	if rp.BDADDR != [6]byte{0x66, 0x55, 0x44, 0x33, 0x22, 0x11} {
		t.Fatalf("bdaddr % X", rp.BDADDR)
	}
}
