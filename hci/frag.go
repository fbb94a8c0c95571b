package hci

import "encoding/binary"

// reassembler stitches multi-fragment L2CAP payloads delivered over
// several ACL packets into one logical frame. Only one fragmented
// frame may be in flight at a time; L2CAP does not interleave
// fragments of different frames on one HCI transport. Only the receive
// context touches this state.
type reassembler struct {
	buf    [fragBufSize]byte
	offset int
	size   int
	active bool
}

// process inspects one ACL packet (H4 indicator already stripped) and
// returns the complete logical frame once available. It returns nil
// while reassembly is in progress or when the packet violates the
// fragmentation protocol, in which case the packet is dropped and
// logged.
func (r *reassembler) process(b []byte) []byte {
	if len(b) < aclHdrSize {
		logger.Warnf("frag: runt acl packet, %d bytes", len(b))
		return nil
	}

	handle := binary.LittleEndian.Uint16(b[0:2])

	switch aclFlags(handle) {
	case aclFlagCont:
		if !r.active {
			logger.Warn("frag: continuation without start, dropping")
			return nil
		}

		payload := b[aclHdrSize:]
		if r.offset+len(payload) > len(r.buf) {
			logger.Warnf("frag: frame overflows buffer, dropping. offset: %d len: %d", r.offset, len(payload))
			r.active = false
			return nil
		}

		copy(r.buf[r.offset:], payload)
		r.offset += len(payload)
		if r.offset < r.size {
			logger.Debugf("frag: waiting for next fragment. offset: %d size: %d", r.offset, r.size)
			return nil
		}

		logger.Debugf("frag: processing reassembled frame. offset: %d size: %d", r.offset, r.size)
		r.active = false
		return r.buf[:r.size]

	case aclFlagStart:
		if len(b) < aclHdrSize+l2capHdrSize {
			logger.Warnf("frag: start without l2cap header, %d bytes", len(b))
			return nil
		}

		if r.active {
			logger.Warn("frag: start while reassembling, dropping partial frame")
			r.active = false
		}

		size := int(binary.LittleEndian.Uint16(b[4:6])) + aclHdrSize + l2capHdrSize
		if size <= len(b) {
			// whole frame fits in one packet
			return b
		}
		if size > len(r.buf) {
			logger.Warnf("frag: declared frame size %d exceeds buffer, dropping", size)
			r.active = false
			return nil
		}

		copy(r.buf[:], b)
		r.offset = len(b)
		r.size = size
		r.active = true
		logger.Debug("frag: detected fragmented frame start")
		return nil

	default:
		logger.Warnf("frag: unsupported acl flags 0x%X", aclFlags(handle))
		return nil
	}
}
