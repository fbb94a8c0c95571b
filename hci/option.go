package hci

import (
	"time"

	"github.com/pkg/errors"

	"github.com/Alkhymia/BlueRetro/adapter"
)

// The host implements blueretro.HostOption. Collaborator setters accept
// interface{} and assert the concrete handler types defined here.

func (h *Host) SetTransportH4Uart(path string) error {
	h.transport.h4uart = &transportH4Uart{path: path}
	return nil
}

func (h *Host) SetTransportHCISocket(id int) error {
	h.transport.socket = &transportHCISocket{id: id}
	return nil
}

func (h *Host) SetKeysFile(path string) error {
	h.keysPath = path
	return nil
}

func (h *Host) SetBDAddrFile(path string) error {
	h.bdaddrPath = path
	return nil
}

func (h *Host) SetDeviceName(name string) error {
	if len(name) > 248 {
		return errors.New("device name too long")
	}
	h.name = name
	return nil
}

func (h *Host) SetClassOfDevice(cod uint32) error {
	h.cod = cod
	return nil
}

func (h *Host) SetSignalingHandler(v interface{}) error {
	s, ok := v.(SignalingHandler)
	if !ok {
		return errors.New("not a hci.SignalingHandler")
	}
	h.sig = s
	return nil
}

func (h *Host) SetSDPHandler(v interface{}) error {
	s, ok := v.(SDPHandler)
	if !ok {
		return errors.New("not a hci.SDPHandler")
	}
	h.sdp = s
	return nil
}

func (h *Host) SetHIDHandler(v interface{}) error {
	s, ok := v.(HIDHandler)
	if !ok {
		return errors.New("not a hci.HIDHandler")
	}
	h.hid = s
	return nil
}

func (h *Host) SetATTHandler(v interface{}) error {
	s, ok := v.(ATTHandler)
	if !ok {
		return errors.New("not a hci.ATTHandler")
	}
	h.att = s
	return nil
}

func (h *Host) SetSDPParser(v interface{}) error {
	p, ok := v.(SDPParser)
	if !ok {
		return errors.New("not a hci.SDPParser")
	}
	h.sdpParse = p
	return nil
}

func (h *Host) SetAdapterBridge(v interface{}) error {
	b, ok := v.(adapter.Bridge)
	if !ok {
		return errors.New("not an adapter.Bridge")
	}
	h.bridge = b
	return nil
}

func (h *Host) SetFeedbackSource(src <-chan []byte) error {
	h.feedback = src
	return nil
}

func (h *Host) SetFeedbackAutoOff(ms int) error {
	if ms < 0 {
		return errors.New("negative feedback auto-off")
	}
	h.fbAutoOff = time.Duration(ms) * time.Millisecond
	return nil
}

func (h *Host) SetDisconnectPoll(poll func() bool) error {
	h.disconnPoll = poll
	return nil
}

func (h *Host) SetErrorHandler(handler func(error)) error {
	h.errorHandler = handler
	return nil
}
