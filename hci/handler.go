package hci

import "github.com/Alkhymia/BlueRetro/adapter"

// The protocol handlers below are collaborators of the packet router.
// The host ships working defaults for the HID input path; signaling,
// SDP and ATT are injected by the application via options.

// SignalingHandler handles L2CAP connection-management signaling
// (channel setup/teardown negotiation) for one session. Implementations
// own the session's channel fields; once the HID interrupt channel is
// negotiated they must call d.MarkHIDIntrReady so the housekeeping loop
// can trigger HID init when the device type resolves.
type SignalingHandler interface {
	HandleSignaling(d *Dev, frame []byte)
}

// SDPHandler consumes SDP channel traffic for one session. It is
// expected to accumulate record data into the session's adapter slot
// and mark the session SDP-data-pending for the housekeeping loop.
type SDPHandler interface {
	HandleSDP(d *Dev, frame []byte)
}

// HIDHandler consumes HID control/interrupt channel traffic and starts
// report mode once the device type is known.
type HIDHandler interface {
	HandleHID(d *Dev, frame []byte)
	HIDInit(d *Dev)
}

// ATTHandler serves attribute-protocol requests. Connection-less ATT
// traffic with no resolvable session is directed at the config session.
type ATTHandler interface {
	HandleATT(d *Dev, frame []byte)
}

// SDPParser turns accumulated SDP record data into a device type.
type SDPParser interface {
	Parse(data *adapter.Data) adapter.DevType
}

type nopSignaling struct{}

func (nopSignaling) HandleSignaling(d *Dev, frame []byte) {
	logger.Debugf("sig: unhandled signaling frame for dev %d", d.ID())
}

type nopSDP struct{}

func (nopSDP) HandleSDP(d *Dev, frame []byte) {
	d.SetFlag(devFlagSDPData)
}

type nopATT struct{}

func (nopATT) HandleATT(d *Dev, frame []byte) {
	logger.Debug("att: dropping frame, no handler")
}

type nopSDPParser struct{}

func (nopSDPParser) Parse(data *adapter.Data) adapter.DevType {
	return data.DevType
}

// defaultHID feeds DATA input transactions into the bridge path.
type defaultHID struct {
	h *Host
}

func (x defaultHID) HandleHID(d *Dev, frame []byte) {
	payload := frame[aclHdrSize+l2capHdrSize:]
	if len(payload) < 2 {
		return
	}
	if payload[0] == hidDataInput {
		x.h.Bridge(d, payload[1], payload[2:])
	}
}

func (x defaultHID) HIDInit(d *Dev) {
	logger.Infof("hid: init dev %d type %d", d.ID(), d.Type)
}
