//go:build !linux
// +build !linux

package socket

import (
	"fmt"
	"io"
)

// Socket is only available on Linux.
type Socket struct{ io.ReadWriteCloser }

// NewSocket is a dummy function for non-Linux platforms.
func NewSocket(id int) (*Socket, error) {
	return nil, fmt.Errorf("hci socket only available on linux")
}
