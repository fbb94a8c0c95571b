package hci

import (
	"io"

	"github.com/pkg/errors"

	"github.com/Alkhymia/BlueRetro/hci/h4"
	"github.com/Alkhymia/BlueRetro/hci/socket"
)

type transportH4Uart struct {
	path string
}

type transportHCISocket struct {
	id int
}

type transport struct {
	h4uart *transportH4Uart
	socket *transportHCISocket
}

func getTransport(t transport) (io.ReadWriteCloser, error) {
	switch {
	case t.socket != nil:
		return socket.NewSocket(t.socket.id)

	case t.h4uart != nil:
		so := h4.DefaultSerialOptions()
		so.PortName = t.h4uart.path
		return h4.NewSerial(so)

	default:
		return nil, errors.New("no valid transport found")
	}
}
