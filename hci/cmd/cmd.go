// Package cmd provides the BR/EDR HCI commands used by the host. Each
// command exposes OpCode, Len and Marshal; response parameter blocks
// expose Unmarshal.
package cmd

import (
	"bytes"
	"encoding/binary"
)

// Opcode group fields.
const (
	ogfLinkCtl = 0x01
	ogfHostCtl = 0x03
	ogfInfo    = 0x04
	ogfVendor  = 0x3F
)

func opCode(ogf, ocf int) int {
	return ogf<<10 | ocf
}

func marshal(c interface{}, b []byte) error {
	buf := bytes.NewBuffer(b[:0])
	return binary.Write(buf, binary.LittleEndian, c)
}

func unmarshal(c interface{}, b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, c)
}

// Name builds the zero-padded 248-byte local name block.
func Name(s string) [248]byte {
	var n [248]byte
	copy(n[:], s)
	return n
}
