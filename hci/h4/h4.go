// Package h4 implements the HCI UART transport (H4): HCI frames with a
// one-byte packet indicator over a serial line.
package h4

import (
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"

	blueretro "github.com/Alkhymia/BlueRetro"
)

const rxQueueSize = 64

var logger = blueretro.GetLogger()

type h4 struct {
	sp  io.ReadWriteCloser
	rmu sync.Mutex
	wmu sync.Mutex

	frame *frame

	rxQueue chan []byte

	done chan int
	cmu  sync.Mutex
}

// DefaultSerialOptions returns the options expected by most HCI UART
// radios: 115200 8N1 with hardware flow control.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:          115200,
		DataBits:          8,
		StopBits:          1,
		RTSCTSFlowControl: true,
	}
}

// NewSerial opens the serial port and returns an H4 framed transport.
func NewSerial(opts serial.OpenOptions) (io.ReadWriteCloser, error) {
	// force these, the frame assembler depends on short reads
	opts.MinimumReadSize = 0
	opts.InterCharacterTimeout = 100

	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "can't open serial port")
	}

	h := &h4{
		sp:      sp,
		done:    make(chan int),
		rxQueue: make(chan []byte, rxQueueSize),
	}
	h.frame = newFrame(h.rxQueue)

	go h.rxLoop()

	return h, nil
}

func (h *h4) Read(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.rmu.Lock()
	defer h.rmu.Unlock()

	var n int
	select {
	case t := <-h.rxQueue:
		if len(p) < len(t) {
			return 0, errors.New("buffer too small")
		}
		n = copy(p, t)

	case <-time.After(time.Second):
		// read timeout, not an error
		return 0, nil
	}

	// check if we are still open since the read could take a while
	if !h.isOpen() {
		return 0, io.EOF
	}
	return n, nil
}

func (h *h4) Write(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	n, err := h.sp.Write(p)

	return n, errors.Wrap(err, "can't write h4")
}

func (h *h4) Close() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	select {
	case <-h.done:
		return nil

	default:
		close(h.done)
		h.rmu.Lock()
		err := h.sp.Close()
		h.rmu.Unlock()

		return errors.Wrap(err, "can't close h4")
	}
}

func (h *h4) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return h.sp != nil
	}
}

func (h *h4) rxLoop() {
	tmp := make([]byte, 512)
	for {
		select {
		case <-h.done:
			logger.Debug("h4: rxLoop done")
			return
		default:
		}

		n, err := h.sp.Read(tmp)
		if err != nil || n == 0 {
			continue
		}

		h.frame.Assemble(tmp[:n])
	}
}
