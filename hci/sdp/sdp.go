// Package sdp classifies device sessions from SDP attribute responses.
// It accumulates ServiceAttribute/ServiceSearchAttribute response
// payloads per session and extracts the PnP vendor/product identifiers
// to resolve a device type for the mapping tables.
package sdp

import (
	"encoding/binary"
	"sync"

	blueretro "github.com/Alkhymia/BlueRetro"
	"github.com/Alkhymia/BlueRetro/adapter"
	"github.com/Alkhymia/BlueRetro/hci"
)

var logger = blueretro.GetLogger()

// SDP PDU ids carrying attribute lists.
const (
	pduServiceAttributeRsp       = 0x05
	pduServiceSearchAttributeRsp = 0x07
)

// PDU header: id(1) + transaction(2) + length(2).
const pduHdrSize = 5

// aclHdrSize+l2capHdrSize, the router hands over whole logical frames.
const frameHdrSize = 8

// recordBufSize bounds the per-session record accumulator.
const recordBufSize = 2048

// PnP Information attribute ids.
const (
	attrVendorID  = 0x0201
	attrProductID = 0x0202
)

// Data element prefix of a uint16 value.
const deUint16 = 0x09

// Classifier implements both the SDP channel handler and the parser
// run by the housekeeping loop. Records accumulate in HandleSDP on the
// receive context; Parse reads them from the housekeeping context.
type Classifier struct {
	mu   sync.Mutex
	bufs map[int32][]byte
}

// NewClassifier ...
func NewClassifier() *Classifier {
	return &Classifier{bufs: map[int32][]byte{}}
}

// HandleSDP appends the attribute bytes of one response PDU to the
// session's record buffer. Once the response carries no continuation
// state the session is marked for the housekeeping parse.
func (c *Classifier) HandleSDP(d *hci.Dev, frame []byte) {
	if len(frame) < frameHdrSize+pduHdrSize {
		return
	}
	pdu := frame[frameHdrSize:]

	switch pdu[0] {
	case pduServiceAttributeRsp, pduServiceSearchAttributeRsp:
	default:
		logger.Debugf("sdp: dev %d ignoring pdu 0x%02X", d.ID(), pdu[0])
		return
	}

	plen := int(binary.BigEndian.Uint16(pdu[3:5]))
	if plen != len(pdu[pduHdrSize:]) || plen < 3 {
		logger.Warnf("sdp: dev %d bad pdu length %d", d.ID(), plen)
		return
	}

	// byte count(2) + attribute bytes + continuation state(1+n)
	body := pdu[pduHdrSize:]
	count := int(binary.BigEndian.Uint16(body[0:2]))
	if count > len(body)-3 {
		logger.Warnf("sdp: dev %d attribute count %d overruns pdu", d.ID(), count)
		return
	}
	attrs := body[2 : 2+count]
	contLen := int(body[2+count])

	c.mu.Lock()
	id := int32(d.ID())
	if len(c.bufs[id])+len(attrs) <= recordBufSize {
		c.bufs[id] = append(c.bufs[id], attrs...)
	} else {
		logger.Warnf("sdp: dev %d record buffer full, truncating", d.ID())
	}
	c.mu.Unlock()

	if contLen == 0 {
		d.MarkSDPPending()
	}
}

// Parse resolves the device type from the session's accumulated
// records. Sessions without a recognizable PnP record fall back to the
// generic HID tables.
func (c *Classifier) Parse(data *adapter.Data) adapter.DevType {
	c.mu.Lock()
	b := c.bufs[data.DevID]
	delete(c.bufs, data.DevID)
	c.mu.Unlock()

	if len(b) == 0 {
		return data.DevType
	}

	vid, vok := findUint16Attr(b, attrVendorID)
	pid, pok := findUint16Attr(b, attrProductID)
	if !vok || !pok {
		logger.Debugf("sdp: dev %d records carry no pnp ids", data.DevID)
		return adapter.TypeHIDGeneric
	}

	t := DeviceType(vid, pid)
	logger.Infof("sdp: dev %d vid 0x%04X pid 0x%04X type %d", data.DevID, vid, pid, t)
	return t
}

// findUint16Attr scans the raw attribute bytes for the data element
// pair "uint16 attr id, uint16 value". A structural walk buys nothing
// here; the ids searched for never appear as values of other
// attributes in HID records.
func findUint16Attr(b []byte, attr uint16) (uint16, bool) {
	for i := 0; i+6 <= len(b); i++ {
		if b[i] != deUint16 || binary.BigEndian.Uint16(b[i+1:i+3]) != attr {
			continue
		}
		if b[i+3] != deUint16 {
			continue
		}
		return binary.BigEndian.Uint16(b[i+4 : i+6]), true
	}
	return 0, false
}

// DeviceType maps PnP vendor/product ids to a mapping-table type.
func DeviceType(vid, pid uint16) adapter.DevType {
	switch vid {
	case 0x054C: // Sony
		switch pid {
		case 0x05C4, 0x09CC: // DS4 v1/v2
			return adapter.TypePS4
		}
	case 0x045E: // Microsoft
		switch pid {
		case 0x02E0, 0x02FD, 0x0B00, 0x0B05, 0x0B13: // XB1 S / Elite 2 / Series
			return adapter.TypeXB1
		case 0x0B0C:
			return adapter.TypeXB1Adaptive
		}
	case 0x057E: // Nintendo
		switch pid {
		case 0x2009: // Switch Pro Controller
			return adapter.TypeSwitch
		}
	}
	return adapter.TypeHIDGeneric
}
