package cmd

// Inquiry implements Inquiry (0x01|0x0001) [Vol 2, Part E, 7.1.1]
type Inquiry struct {
	LAP           [3]byte
	InquiryLength uint8
	NumResponses  uint8
}

func (c *Inquiry) OpCode() int { return opCode(ogfLinkCtl, 0x0001) }

func (c *Inquiry) Len() int { return 5 }

func (c *Inquiry) Marshal(b []byte) error { return marshal(c, b) }

// CreateConnection implements Create Connection (0x01|0x0005) [Vol 2, Part E, 7.1.5]
type CreateConnection struct {
	BDADDR                 [6]byte
	PacketType             uint16
	PageScanRepetitionMode uint8
	Reserved               uint8
	ClockOffset            uint16
	AllowRoleSwitch        uint8
}

func (c *CreateConnection) OpCode() int { return opCode(ogfLinkCtl, 0x0005) }

func (c *CreateConnection) Len() int { return 13 }

func (c *CreateConnection) Marshal(b []byte) error { return marshal(c, b) }

// Disconnect implements Disconnect (0x01|0x0006) [Vol 2, Part E, 7.1.6]
type Disconnect struct {
	ConnectionHandle uint16
	Reason           uint8
}

func (c *Disconnect) OpCode() int { return opCode(ogfLinkCtl, 0x0006) }

func (c *Disconnect) Len() int { return 3 }

func (c *Disconnect) Marshal(b []byte) error { return marshal(c, b) }

// AcceptConnectionRequest implements Accept Connection Request
// (0x01|0x0009) [Vol 2, Part E, 7.1.8]
type AcceptConnectionRequest struct {
	BDADDR [6]byte
	Role   uint8
}

func (c *AcceptConnectionRequest) OpCode() int { return opCode(ogfLinkCtl, 0x0009) }

func (c *AcceptConnectionRequest) Len() int { return 7 }

func (c *AcceptConnectionRequest) Marshal(b []byte) error { return marshal(c, b) }

// RejectConnectionRequest implements Reject Connection Request
// (0x01|0x000A) [Vol 2, Part E, 7.1.9]
type RejectConnectionRequest struct {
	BDADDR [6]byte
	Reason uint8
}

func (c *RejectConnectionRequest) OpCode() int { return opCode(ogfLinkCtl, 0x000A) }

func (c *RejectConnectionRequest) Len() int { return 7 }

func (c *RejectConnectionRequest) Marshal(b []byte) error { return marshal(c, b) }

// LinkKeyRequestReply implements Link Key Request Reply (0x01|0x000B)
// [Vol 2, Part E, 7.1.10]
type LinkKeyRequestReply struct {
	BDADDR  [6]byte
	LinkKey [16]byte
}

func (c *LinkKeyRequestReply) OpCode() int { return opCode(ogfLinkCtl, 0x000B) }

func (c *LinkKeyRequestReply) Len() int { return 22 }

func (c *LinkKeyRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// LinkKeyRequestNegativeReply implements Link Key Request Negative Reply
// (0x01|0x000C) [Vol 2, Part E, 7.1.11]
type LinkKeyRequestNegativeReply struct {
	BDADDR [6]byte
}

func (c *LinkKeyRequestNegativeReply) OpCode() int { return opCode(ogfLinkCtl, 0x000C) }

func (c *LinkKeyRequestNegativeReply) Len() int { return 6 }

func (c *LinkKeyRequestNegativeReply) Marshal(b []byte) error { return marshal(c, b) }

// PINCodeRequestReply implements PIN Code Request Reply (0x01|0x000D)
// [Vol 2, Part E, 7.1.12]
type PINCodeRequestReply struct {
	BDADDR        [6]byte
	PINCodeLength uint8
	PINCode       [16]byte
}

func (c *PINCodeRequestReply) OpCode() int { return opCode(ogfLinkCtl, 0x000D) }

func (c *PINCodeRequestReply) Len() int { return 23 }

func (c *PINCodeRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// AuthenticationRequested implements Authentication Requested
// (0x01|0x0011) [Vol 2, Part E, 7.1.15]
type AuthenticationRequested struct {
	ConnectionHandle uint16
}

func (c *AuthenticationRequested) OpCode() int { return opCode(ogfLinkCtl, 0x0011) }

func (c *AuthenticationRequested) Len() int { return 2 }

func (c *AuthenticationRequested) Marshal(b []byte) error { return marshal(c, b) }

// RemoteNameRequest implements Remote Name Request (0x01|0x0019)
// [Vol 2, Part E, 7.1.19]
type RemoteNameRequest struct {
	BDADDR                 [6]byte
	PageScanRepetitionMode uint8
	Reserved               uint8
	ClockOffset            uint16
}

func (c *RemoteNameRequest) OpCode() int { return opCode(ogfLinkCtl, 0x0019) }

func (c *RemoteNameRequest) Len() int { return 10 }

func (c *RemoteNameRequest) Marshal(b []byte) error { return marshal(c, b) }
