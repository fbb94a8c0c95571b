package h4

import (
	"fmt"
	"time"
)

// H4 packet indicator bytes.
const (
	commandPacket = 0x01
	aclPacket     = 0x02
	eventPacket   = 0x04
)

// frame reassembles H4 frames from arbitrary serial read chunks. A
// stalled partial frame is abandoned after frameTimeout.
type frame struct {
	b       []byte
	timeout time.Time
	out     chan []byte
	pktType byte
}

const frameTimeout = time.Millisecond * 500

func newFrame(c chan []byte) *frame {
	return &frame{
		b:   make([]byte, 0, 1024),
		out: c,
	}
}

func (f *frame) Assemble(b []byte) {
	switch {
	case len(b) == 0:
		// nothing to look at
		return

	case !f.timeout.IsZero() && time.Now().After(f.timeout):
		// timed out, drop the partial frame
		fallthrough
	case f.b == nil:
		f.reset()

	default:
		// ok
	}

	if len(f.b) == 0 {
		if err := f.waitStart(b); err != nil {
			return
		}
	} else {
		bb := make([]byte, len(b))
		copy(bb, b)
		f.b = append(f.b, bb...)
	}

	rf, err := f.frame()
	if err != nil {
		return
	}
	out := make([]byte, len(rf))
	copy(out, rf)
	f.out <- out

	// shift any bytes belonging to the next frame
	if len(f.b) > len(rf) {
		rem := make([]byte, len(f.b[len(rf):]))
		copy(rem, f.b[len(rf):])
		f.reset()
		f.Assemble(rem)
	} else {
		f.reset()
	}
}

func (f *frame) reset() {
	f.b = make([]byte, 0, 1024)
	f.timeout = time.Time{}
}

func (f *frame) waitStart(b []byte) error {
	// find the start byte
	var i int
	var v byte
	var ok bool
	for i, v = range b {
		switch v {
		case eventPacket:
			f.pktType = eventPacket
		case aclPacket:
			f.pktType = aclPacket
		default:
			continue
		}

		ok = true
		f.timeout = time.Now().Add(frameTimeout)
		break
	}

	if !ok {
		return fmt.Errorf("couldnt find start byte")
	}

	bb := make([]byte, len(b[i:]))
	copy(bb, b[i:])
	f.b = append(f.b, bb...)
	return nil
}

func (f *frame) dataLength() (int, error) {
	switch f.pktType {
	case aclPacket:
		return f.aclLength()
	case eventPacket:
		return f.eventLength()
	default:
		return 0, fmt.Errorf("invalid packet type %v", f.pktType)
	}
}

// event frame: type byte, event code, parameter length
func (f *frame) eventLength() (int, error) {
	if len(f.b) < 3 {
		return 0, fmt.Errorf("not enough bytes")
	}

	return int(f.b[2]) + 3, nil
}

// acl frame: type byte, handle+flags (2), data length (2)
func (f *frame) aclLength() (int, error) {
	if len(f.b) < 5 {
		return 0, fmt.Errorf("not enough bytes")
	}

	l := int(f.b[3]) | (int(f.b[4]) << 8)
	return l + 5, nil
}

func (f *frame) frame() ([]byte, error) {
	tl, err := f.dataLength()
	if err != nil {
		return nil, err
	}

	if len(f.b) < tl {
		return nil, fmt.Errorf("not enough bytes")
	}
	return f.b[:tl], nil
}
