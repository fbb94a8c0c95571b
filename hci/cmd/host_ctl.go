package cmd

// SetEventMask implements Set Event Mask (0x03|0x0001) [Vol 2, Part E, 7.3.1]
type SetEventMask struct {
	EventMask uint64
}

func (c *SetEventMask) OpCode() int { return opCode(ogfHostCtl, 0x0001) }

func (c *SetEventMask) Len() int { return 8 }

func (c *SetEventMask) Marshal(b []byte) error { return marshal(c, b) }

// Reset implements Reset (0x03|0x0003) [Vol 2, Part E, 7.3.2]
type Reset struct{}

func (c *Reset) OpCode() int { return opCode(ogfHostCtl, 0x0003) }

func (c *Reset) Len() int { return 0 }

func (c *Reset) Marshal(b []byte) error { return marshal(c, b) }

// WriteLocalName implements Write Local Name (0x03|0x0013) [Vol 2, Part E, 7.3.11]
type WriteLocalName struct {
	LocalName [248]byte
}

func (c *WriteLocalName) OpCode() int { return opCode(ogfHostCtl, 0x0013) }

func (c *WriteLocalName) Len() int { return 248 }

func (c *WriteLocalName) Marshal(b []byte) error { return marshal(c, b) }

// WriteScanEnable implements Write Scan Enable (0x03|0x001A) [Vol 2, Part E, 7.3.18]
type WriteScanEnable struct {
	ScanEnable uint8
}

func (c *WriteScanEnable) OpCode() int { return opCode(ogfHostCtl, 0x001A) }

func (c *WriteScanEnable) Len() int { return 1 }

func (c *WriteScanEnable) Marshal(b []byte) error { return marshal(c, b) }

// WriteAuthenticationEnable implements Write Authentication Enable
// (0x03|0x0020) [Vol 2, Part E, 7.3.24]
type WriteAuthenticationEnable struct {
	AuthenticationEnable uint8
}

func (c *WriteAuthenticationEnable) OpCode() int { return opCode(ogfHostCtl, 0x0020) }

func (c *WriteAuthenticationEnable) Len() int { return 1 }

func (c *WriteAuthenticationEnable) Marshal(b []byte) error { return marshal(c, b) }

// WriteClassOfDevice implements Write Class of Device (0x03|0x0024)
// [Vol 2, Part E, 7.3.26]
type WriteClassOfDevice struct {
	ClassOfDevice [3]byte
}

func (c *WriteClassOfDevice) OpCode() int { return opCode(ogfHostCtl, 0x0024) }

func (c *WriteClassOfDevice) Len() int { return 3 }

func (c *WriteClassOfDevice) Marshal(b []byte) error { return marshal(c, b) }
