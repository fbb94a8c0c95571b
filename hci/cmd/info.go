package cmd

// ReadBufferSize implements Read Buffer Size (0x04|0x0005) [Vol 2, Part E, 7.4.5]
type ReadBufferSize struct{}

func (c *ReadBufferSize) OpCode() int { return opCode(ogfInfo, 0x0005) }

func (c *ReadBufferSize) Len() int { return 0 }

func (c *ReadBufferSize) Marshal(b []byte) error { return marshal(c, b) }

// ReadBufferSizeRP returns the command's return parameters.
type ReadBufferSizeRP struct {
	Status                           uint8
	HCACLDataPacketLength            uint16
	HCSynchronousDataPacketLength    uint8
	HCTotalNumACLDataPackets         uint16
	HCTotalNumSynchronousDataPackets uint16
}

func (c *ReadBufferSizeRP) Unmarshal(b []byte) error { return unmarshal(c, b) }

// ReadBDADDR implements Read BD_ADDR (0x04|0x0009) [Vol 2, Part E, 7.4.6]
type ReadBDADDR struct{}

func (c *ReadBDADDR) OpCode() int { return opCode(ogfInfo, 0x0009) }

func (c *ReadBDADDR) Len() int { return 0 }

func (c *ReadBDADDR) Marshal(b []byte) error { return marshal(c, b) }

// ReadBDADDRRP returns the command's return parameters.
type ReadBDADDRRP struct {
	Status uint8
	BDADDR [6]byte
}

func (c *ReadBDADDRRP) Unmarshal(b []byte) error { return unmarshal(c, b) }

// VendorWriteBDAddr implements the Broadcom Write_BD_ADDR vendor command
// (0x3F|0x0006), used to program the address override at bring-up.
type VendorWriteBDAddr struct {
	BDADDR [6]byte
}

func (c *VendorWriteBDAddr) OpCode() int { return opCode(ogfVendor, 0x0006) }

func (c *VendorWriteBDAddr) Len() int { return 6 }

func (c *VendorWriteBDAddr) Marshal(b []byte) error { return marshal(c, b) }
