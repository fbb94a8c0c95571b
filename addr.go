package blueretro

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Alkhymia/BlueRetro/sliceops"
)

// Addr represents a remote device address (BD_ADDR).
type Addr interface {
	String() string
	Bytes() []byte
}

// NewAddr creates an Addr from its string form, e.g. "00:11:22:33:44:55".
func NewAddr(s string) Addr {
	return addr(strings.ToLower(s))
}

// NewWireAddr creates an Addr from the 6 little-endian bytes carried on
// the HCI wire.
func NewWireAddr(b [6]byte) Addr {
	bb := sliceops.SwapBuf(b[:])
	ss := make([]string, 0, 6)
	for _, v := range bb {
		ss = append(ss, fmt.Sprintf("%02x", v))
	}
	return addr(strings.Join(ss, ":"))
}

type addr string

func (a addr) String() string {
	return string(a)
}

func (a addr) Bytes() []byte {
	hexStr := strings.Replace(a.String(), ":", "", -1)

	out, err := hex.DecodeString(hexStr)
	if err != nil {
		GetLogger().Error("error decoding address:", err, a.String())
	}

	return out
}
