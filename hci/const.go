package hci

import "time"

// HCI packet indicator types.
const (
	pktTypeCommand uint8 = 0x01
	pktTypeACLData uint8 = 0x02
	pktTypeSCOData uint8 = 0x03
	pktTypeEvent   uint8 = 0x04
	pktTypeVendor  uint8 = 0xFF
)

// txqWaitMarker tags a synthetic delay entry on the transmit queue.
// 0xFF never occurs as the first byte of a real outbound packet since
// the host only sends command and ACL packets.
const txqWaitMarker uint8 = 0xFF

// Packet boundary flags of an HCI ACL data packet, bits 12..13 of the
// handle field [Vol 2, Part E, 5.4.2].
const (
	aclFlagStartNoFlush = 0x00 // host to controller start
	aclFlagCont         = 0x01 // continuing fragment
	aclFlagStart        = 0x02 // controller to host start
)

// aclHandle strips the boundary/broadcast flag bits off a raw handle
// field, leaving the connection handle proper.
func aclHandle(h uint16) uint16 {
	return h & 0x0FFF
}

// aclFlags extracts the packet boundary flags of a raw handle field.
func aclFlags(h uint16) uint16 {
	return (h >> 12) & 0x3
}

// L2CAP fixed channel ids.
const (
	cidSignal uint16 = 0x0001 // BR/EDR connection-management signaling
	cidATT    uint16 = 0x0004 // attribute protocol
)

// Header sizes inside a framed ACL packet (H4 indicator already
// stripped).
const (
	aclHdrSize   = 4
	l2capHdrSize = 4
)

// HID transaction headers on the control/interrupt channels.
const (
	hidDataInput  = 0xA1
	hidDataOutput = 0xA2
)

const (
	// devMax is the fixed device session pool size.
	devMax = 7
	// fragBufSize bounds one reassembled logical frame.
	fragBufSize = 1024
	// txQueueSize bounds the outbound packet FIFO.
	txQueueSize = 64
)

// Device session flag bits. Independent, not mutually exclusive.
const (
	devFlagFound = iota
	devFlagSDPData
	devFlagHIDIntrReady
	devFlagAuthenticating
	devFlagEncrypted
)

// Host flag bits.
const (
	hostFlagDisconnInhibit = iota
)

const (
	housekeepingTick   = 10 * time.Millisecond
	disconnInhibitTime = 2 * time.Second

	// gateTimeout re-arms the ready gate when the controller never
	// acknowledges a command. Responses are normally immediate, a
	// stall here indicates a controller problem.
	gateTimeout = 3 * time.Second
)

// HCI disconnect reason: remote user terminated connection.
const reasonRemoteUserTerminated = 0x13
