package blueretro

// HostOption is the interface a host implements to accept configuration
// options. Collaborator setters take interface{} and are type-asserted by
// the host, which keeps this package free of core imports.
type HostOption interface {
	SetTransportH4Uart(path string) error
	SetTransportHCISocket(id int) error
	SetKeysFile(path string) error
	SetBDAddrFile(path string) error
	SetDeviceName(name string) error
	SetClassOfDevice(cod uint32) error
	SetSignalingHandler(h interface{}) error
	SetSDPHandler(h interface{}) error
	SetHIDHandler(h interface{}) error
	SetATTHandler(h interface{}) error
	SetSDPParser(p interface{}) error
	SetAdapterBridge(b interface{}) error
	SetFeedbackSource(src <-chan []byte) error
	SetFeedbackAutoOff(ms int) error
	SetDisconnectPoll(poll func() bool) error
	SetErrorHandler(handler func(error)) error
}

// An Option is a configuration function, which configures the host.
type Option func(HostOption) error

// OptTransportH4Uart sets the H4 serial device carrying HCI traffic.
func OptTransportH4Uart(path string) Option {
	return func(opt HostOption) error {
		return opt.SetTransportH4Uart(path)
	}
}

// OptTransportHCISocket sets a raw HCI socket device id as the transport.
func OptTransportHCISocket(id int) Option {
	return func(opt HostOption) error {
		return opt.SetTransportHCISocket(id)
	}
}

// OptKeysFile sets the link key table backing file.
func OptKeysFile(path string) Option {
	return func(opt HostOption) error {
		return opt.SetKeysFile(path)
	}
}

// OptBDAddrFile sets the optional 6-byte address override file.
func OptBDAddrFile(path string) Option {
	return func(opt HostOption) error {
		return opt.SetBDAddrFile(path)
	}
}

// OptDeviceName sets the local name written during bring-up.
func OptDeviceName(name string) Option {
	return func(opt HostOption) error {
		return opt.SetDeviceName(name)
	}
}

// OptClassOfDevice sets the class of device written during bring-up.
func OptClassOfDevice(cod uint32) Option {
	return func(opt HostOption) error {
		return opt.SetClassOfDevice(cod)
	}
}

// OptSignalingHandler sets the L2CAP connection-management handler.
func OptSignalingHandler(h interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetSignalingHandler(h)
	}
}

// OptSDPHandler sets the SDP channel handler.
func OptSDPHandler(h interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetSDPHandler(h)
	}
}

// OptHIDHandler sets the HID control/interrupt channel handler.
func OptHIDHandler(h interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetHIDHandler(h)
	}
}

// OptATTHandler sets the attribute protocol handler for the config session.
func OptATTHandler(h interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetATTHandler(h)
	}
}

// OptSDPParser sets the SDP record parser run by the housekeeping loop.
func OptSDPParser(p interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetSDPParser(p)
	}
}

// OptAdapterBridge sets the report translation capability.
func OptAdapterBridge(b interface{}) Option {
	return func(opt HostOption) error {
		return opt.SetAdapterBridge(b)
	}
}

// OptFeedbackSource sets the rumble/led feedback input queue.
func OptFeedbackSource(src <-chan []byte) Option {
	return func(opt HostOption) error {
		return opt.SetFeedbackSource(src)
	}
}

// OptFeedbackAutoOff stops feedback output after ms milliseconds
// without a refresh from the feedback source. 0 disables the cutoff.
func OptFeedbackAutoOff(ms int) Option {
	return func(opt HostOption) error {
		return opt.SetFeedbackAutoOff(ms)
	}
}

// OptDisconnectPoll sets the "disconnect all" control input poll. The
// function reports true while the input is pressed (active low already
// resolved by the caller).
func OptDisconnectPoll(poll func() bool) Option {
	return func(opt HostOption) error {
		return opt.SetDisconnectPoll(poll)
	}
}

// OptErrorHandler sets the asynchronous error callback.
func OptErrorHandler(handler func(error)) Option {
	return func(opt HostOption) error {
		return opt.SetErrorHandler(handler)
	}
}
