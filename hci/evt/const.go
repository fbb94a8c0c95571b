package evt

// BR/EDR HCI event codes handled by the host.
const (
	InquiryCompleteCode            = 0x01
	ConnectionCompleteCode         = 0x03
	ConnectionRequestCode          = 0x04
	DisconnectionCompleteCode      = 0x05
	AuthenticationCompleteCode     = 0x06
	RemoteNameReqCompleteCode      = 0x07
	CommandCompleteCode            = 0x0E
	CommandStatusCode              = 0x0F
	HardwareErrorCode              = 0x10
	NumberOfCompletedPacketsCode   = 0x13
	ModeChangeCode                 = 0x14
	PINCodeRequestCode             = 0x16
	LinkKeyRequestCode             = 0x17
	LinkKeyNotifyCode              = 0x18
	MaxSlotsChangeCode             = 0x1B
	IOCapabilityRequestCode        = 0x31
	UserConfirmationRequestCode    = 0x33
	SimplePairingCompleteCode      = 0x36
)

// Event payload types. Each event is its raw parameter block.
type (
	ConnectionComplete       []byte
	ConnectionRequest        []byte
	DisconnectionComplete    []byte
	AuthenticationComplete   []byte
	RemoteNameReqComplete    []byte
	CommandComplete          []byte
	CommandStatus            []byte
	HardwareError            []byte
	NumberOfCompletedPackets []byte
	PINCodeRequest           []byte
	LinkKeyRequest           []byte
	LinkKeyNotify            []byte
)
