package hci

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func aclPkt(handle uint16, flags uint8, payload []byte) []byte {
	b := make([]byte, aclHdrSize+len(payload))
	binary.LittleEndian.PutUint16(b[0:2], handle|uint16(flags)<<12)
	binary.LittleEndian.PutUint16(b[2:4], uint16(len(payload)))
	copy(b[4:], payload)
	return b
}

func l2capPayload(cid uint16, data []byte) []byte {
	p := make([]byte, l2capHdrSize+len(data))
	binary.LittleEndian.PutUint16(p[0:2], uint16(len(data)))
	binary.LittleEndian.PutUint16(p[2:4], cid)
	copy(p[4:], data)
	return p
}

func TestReassemblerSinglePacket(t *testing.T) {
	r := &reassembler{}

	data := []byte{0xA1, 0x01, 0x02, 0x03}
	pkt := aclPkt(0x000B, aclFlagStart, l2capPayload(0x0041, data))

	frame := r.process(pkt)
	if frame == nil {
		t.Fatal("expected complete frame, got nil")
	}
	if !bytes.Equal(frame, pkt) {
		t.Fatalf("frame mismatch:\ngot  % X\nwant % X", frame, pkt)
	}
}

func TestReassemblerFragmented(t *testing.T) {
	r := &reassembler{}

	data := make([]byte, 12)
	for i := range data {
		data[i] = byte(i + 1)
	}

	first := aclPkt(0x000B, aclFlagStart, l2capPayload(0x0041, data)[:l2capHdrSize+4])
	// declared l2cap length covers all 12 bytes
	binary.LittleEndian.PutUint16(first[4:6], 12)

	if frame := r.process(first); frame != nil {
		t.Fatalf("expected nil on partial frame, got % X", frame)
	}

	cont := aclPkt(0x000B, aclFlagCont, data[4:])
	frame := r.process(cont)
	if frame == nil {
		t.Fatal("expected reassembled frame, got nil")
	}
	if len(frame) != aclHdrSize+l2capHdrSize+12 {
		t.Fatalf("frame length %d, want %d", len(frame), aclHdrSize+l2capHdrSize+12)
	}
	if !bytes.Equal(frame[aclHdrSize+l2capHdrSize:], data) {
		t.Fatalf("payload mismatch: % X", frame[aclHdrSize+l2capHdrSize:])
	}
	if r.active {
		t.Fatal("reassembler must return to idle after dispatch")
	}
}

func TestReassemblerContinuationWithoutStart(t *testing.T) {
	r := &reassembler{}

	cont := aclPkt(0x000B, aclFlagCont, []byte{0xDE, 0xAD})
	if frame := r.process(cont); frame != nil {
		t.Fatalf("expected orphan continuation to be dropped, got % X", frame)
	}
	if r.active {
		t.Fatal("reassembler must stay inactive after orphan continuation")
	}
}

func TestReassemblerStartDuringReassembly(t *testing.T) {
	r := &reassembler{}

	stale := aclPkt(0x000B, aclFlagStart, l2capPayload(0x0041, []byte{1, 2}))
	binary.LittleEndian.PutUint16(stale[4:6], 100) // more to come
	if frame := r.process(stale); frame != nil {
		t.Fatalf("expected nil on partial frame, got % X", frame)
	}

	// a new start drops the partial frame and takes over
	data := []byte{0xA1, 0x11, 0x22}
	fresh := aclPkt(0x000B, aclFlagStart, l2capPayload(0x0041, data))
	frame := r.process(fresh)
	if !bytes.Equal(frame, fresh) {
		t.Fatalf("expected fresh frame, got % X", frame)
	}
	if r.active {
		t.Fatal("partial frame must be dropped by the new start")
	}

	// the stale frame's continuation is now an orphan
	if frame := r.process(aclPkt(0x000B, aclFlagCont, []byte{3, 4})); frame != nil {
		t.Fatalf("expected stale continuation to be dropped, got % X", frame)
	}
}

func TestReassemblerOversizeFrame(t *testing.T) {
	r := &reassembler{}

	huge := aclPkt(0x000B, aclFlagStart, l2capPayload(0x0041, []byte{1}))
	binary.LittleEndian.PutUint16(huge[4:6], uint16(fragBufSize))

	if frame := r.process(huge); frame != nil {
		t.Fatalf("expected oversize frame to be dropped, got % X", frame)
	}
	if r.active {
		t.Fatal("reassembler must not activate on oversize frame")
	}
}
