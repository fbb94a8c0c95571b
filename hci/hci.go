// Package hci implements the Bluetooth HID host core: the HCI/L2CAP
// packet router, ACL fragment reassembler, device session table and
// the flow-controlled transmit queue.
package hci

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	blueretro "github.com/Alkhymia/BlueRetro"
	"github.com/Alkhymia/BlueRetro/adapter"
	"github.com/Alkhymia/BlueRetro/hci/bond"
	"github.com/Alkhymia/BlueRetro/hci/cmd"
	"github.com/Alkhymia/BlueRetro/hci/evt"
)

var logger = blueretro.GetLogger()

// Command ...
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

type handlerFn func(b []byte) error

// NewHost returns a HID host bound to no transport yet; call Init to
// open the controller and start the loops.
func NewHost(opts ...blueretro.Option) (*Host, error) {
	h := &Host{
		evth: map[int]handlerFn{},

		devs: newDevTable(),
		frag: &reassembler{},
		txq:  newTxQueue(),
		gate: newReadyGate(),

		name:       "BlueRetro",
		cod:        0x000508, // peripheral, gamepad
		keysPath:   "linkkeys.bin",
		bdaddrPath: "bdaddr.bin",

		done:      make(chan bool),
		sktRxChan: make(chan []byte, 16),
		fbOff:     make(chan int, devMax),
	}
	h.cfg = &Dev{id: -1}

	h.sig = nopSignaling{}
	h.sdp = nopSDP{}
	h.att = nopATT{}
	h.hid = defaultHID{h: h}
	h.sdpParse = nopSDPParser{}
	h.bridge = adapter.NewTableBridge(nil)

	if err := h.Option(opts...); err != nil {
		return nil, errors.Wrap(err, "can't set options")
	}

	return h, nil
}

// Host is the HID host. One instance owns the device session table,
// the reassembly buffer, the link-key ring and the transmit queue.
type Host struct {
	transport transport
	skt       io.ReadWriteCloser

	keysPath   string
	bdaddrPath string
	name       string
	cod        uint32

	// inbound event dispatch
	evth map[int]handlerFn

	devs *DevTable
	cfg  *Dev // config/listening session for connection-less ATT

	frag *reassembler
	txq  *txQueue
	gate *readyGate

	flags uint32 // hostFlag bits

	keys *bond.Store

	sig      SignalingHandler
	sdp      SDPHandler
	hid      HIDHandler
	att      ATTHandler
	sdpParse SDPParser
	bridge   adapter.Bridge

	feedback    <-chan []byte
	fbAutoOff   time.Duration
	fbOff       chan int
	disconnPoll func() bool

	// device identity and controller buffer info
	addr           [6]byte
	bdaddrOverride *[6]byte
	bufSize        int
	bufCnt         int

	errorHandler func(error)
	err          error

	muClose sync.Mutex
	done    chan bool

	sktRxChan chan []byte
}

// Option sets the options specified.
func (h *Host) Option(opts ...blueretro.Option) error {
	var err error
	for _, opt := range opts {
		err = opt(h)
		if err != nil {
			return err
		}
	}
	return err
}

// Init opens the controller transport, loads persisted identity and
// keys, starts the receive, transmit, housekeeping and feedback loops
// and runs controller bring-up. A bring-up failure is fatal.
func (h *Host) Init() error {
	h.evth[evt.ConnectionRequestCode] = h.handleConnectionRequest
	h.evth[evt.ConnectionCompleteCode] = h.handleConnectionComplete
	h.evth[evt.DisconnectionCompleteCode] = h.handleDisconnectionComplete
	h.evth[evt.AuthenticationCompleteCode] = h.handleAuthenticationComplete
	h.evth[evt.CommandCompleteCode] = h.handleCommandComplete
	h.evth[evt.CommandStatusCode] = h.handleCommandStatus
	h.evth[evt.HardwareErrorCode] = h.handleHardwareError
	h.evth[evt.NumberOfCompletedPacketsCode] = h.handleNumberOfCompletedPackets
	h.evth[evt.PINCodeRequestCode] = h.handlePINCodeRequest
	h.evth[evt.LinkKeyRequestCode] = h.handleLinkKeyRequest
	h.evth[evt.LinkKeyNotifyCode] = h.handleLinkKeyNotify

	var err error
	h.skt, err = getTransport(h.transport)
	if err != nil {
		return errors.Wrap(err, "can't open controller transport")
	}

	h.keys = bond.NewStore(h.keysPath)
	h.loadBDAddrOverride()

	go h.sktReadLoop()
	go h.sktProcessLoop()
	go h.txDrainLoop()
	go h.housekeepingLoop()
	if h.feedback != nil {
		go h.feedbackLoop()
	}

	// the controller accepts the first command right after open
	h.gate.Set()

	return h.bringUp()
}

// Close requests shutdown of all loops and the transport.
func (h *Host) Close() error {
	h.muClose.Lock()
	defer h.muClose.Unlock()

	select {
	case <-h.done:
		// already closed
	default:
		close(h.done)
	}

	return nil
}

// Error returns the terminal error, if any.
func (h *Host) Error() error {
	return h.err
}

// Addr returns the controller's public address as read at bring-up.
func (h *Host) Addr() blueretro.Addr {
	return blueretro.NewWireAddr(h.addr)
}

// Devices returns the session table.
func (h *Host) Devices() *DevTable {
	return h.devs
}

// Keys returns the link-key store.
func (h *Host) Keys() *bond.Store {
	return h.keys
}

func (h *Host) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *Host) loadBDAddrOverride() {
	if h.bdaddrPath == "" {
		return
	}

	b, err := os.ReadFile(h.bdaddrPath)
	if os.IsNotExist(err) {
		logger.Info("hci: no bdaddr override, using controller address")
		return
	}
	if err != nil {
		logger.Error("hci: can't read bdaddr override: ", err)
		return
	}
	if len(b) < 6 {
		logger.Errorf("hci: bdaddr override too short: %d bytes", len(b))
		return
	}

	var a [6]byte
	copy(a[:], b)
	// The controller derives its public address at a fixed +2 offset
	// from the programmed base value; compensate so the address on the
	// air matches the file.
	a[5] -= 2
	h.bdaddrOverride = &a
	logger.Info("hci: using bdaddr override")
}

func (h *Host) bringUp() error {
	logger.Info("hci reset")

	seq := []Command{&cmd.Reset{}}
	if h.bdaddrOverride != nil {
		seq = append(seq, &cmd.VendorWriteBDAddr{BDADDR: *h.bdaddrOverride})
	}
	seq = append(seq,
		&cmd.ReadBDADDR{},
		&cmd.ReadBufferSize{},
		&cmd.SetEventMask{EventMask: 0x3DBFF807FFFBFFFF},
		&cmd.WriteClassOfDevice{ClassOfDevice: codBytes(h.cod)},
		&cmd.WriteLocalName{LocalName: cmd.Name(h.name)},
		&cmd.WriteScanEnable{ScanEnable: 0x03}, // inquiry + page scan
	)

	for _, c := range seq {
		if err := h.SendCmd(c); err != nil {
			return errors.Wrap(err, "controller bring-up failed")
		}
	}
	return nil
}

func codBytes(cod uint32) [3]byte {
	return [3]byte{byte(cod), byte(cod >> 8), byte(cod >> 16)}
}

// SendCmd marshals a command packet and queues it for transmit. The
// drain loop enforces one outstanding command at a time.
func (h *Host) SendCmd(c Command) error {
	b := make([]byte, 4+c.Len())
	b[0] = pktTypeCommand
	b[1] = byte(c.OpCode())
	b[2] = byte(c.OpCode() >> 8)
	b[3] = byte(c.Len())
	if err := c.Marshal(b[4:]); err != nil {
		return errors.Wrap(err, "can't marshal cmd")
	}

	return h.txq.Enqueue(b)
}

// SendACL queues one complete L2CAP frame for the session on the given
// remote channel id.
func (h *Host) SendACL(d *Dev, dcid uint16, payload []byte) error {
	b := make([]byte, 1+aclHdrSize+l2capHdrSize+len(payload))
	b[0] = pktTypeACLData
	binary.LittleEndian.PutUint16(b[1:3], d.ACLHandle|uint16(aclFlagStartNoFlush)<<12)
	binary.LittleEndian.PutUint16(b[3:5], uint16(l2capHdrSize+len(payload)))
	binary.LittleEndian.PutUint16(b[5:7], uint16(len(payload)))
	binary.LittleEndian.PutUint16(b[7:9], dcid)
	copy(b[9:], payload)

	return h.txq.Enqueue(b)
}

// SendHIDOutput transmits a device-specific output report (rumble,
// leds) on the session's HID interrupt channel.
func (h *Host) SendHIDOutput(d *Dev, report []byte) error {
	b := make([]byte, 1+len(report))
	b[0] = hidDataOutput
	copy(b[1:], report)
	return h.SendACL(d, d.IntrChan.DCID, b)
}

// QueueWait queues a synthetic delay between outbound packets.
func (h *Host) QueueWait(ms uint8) error {
	return h.txq.EnqueueWait(ms)
}

// Disconnect asks the controller to drop the session's link. The slot
// is reclaimed when the disconnection complete event arrives.
func (h *Host) Disconnect(d *Dev) error {
	return h.SendCmd(&cmd.Disconnect{
		ConnectionHandle: d.ACLHandle,
		Reason:           reasonRemoteUserTerminated,
	})
}

// DisconnectAll drops every active session.
func (h *Host) DisconnectAll() {
	h.devs.ForEachActive(func(d *Dev) {
		if err := h.Disconnect(d); err != nil {
			logger.Warn("hci: ", err)
		}
	})
}

func (h *Host) cleanup() {
	if h.skt != nil {
		h.skt.Close()
	}
	h.devs.ForEachActive(func(d *Dev) {
		h.devs.Reset(d)
	})
}

// sktReadLoop pulls raw frames off the transport into the rx channel.
func (h *Host) sktReadLoop() {
	defer close(h.sktRxChan)

	b := make([]byte, 4096)

	for {
		n, err := h.skt.Read(b)

		switch {
		case n == 0 && err == nil:
			// read timeout
			select {
			case <-h.done:
				return
			default:
				continue
			}

		// callers depend on detecting io.EOF, don't wrap it.
		case err == io.EOF:
			h.err = err
			return

		case err != nil:
			h.err = fmt.Errorf("skt read error: %v", err)
			return

		default:
			p := make([]byte, n)
			copy(p, b)
			h.sktRxChan <- p
		}
	}
}

// sktProcessLoop performs the full parse/route/dispatch for every
// received frame. Protocol anomalies are logged and the frame dropped;
// HCI redelivery is the remote stack's responsibility.
func (h *Host) sktProcessLoop() {
	defer h.cleanup()
	defer h.dispatchError(h.err)

	for {
		var p []byte
		var ok bool

		select {
		case <-h.done:
			h.err = io.EOF
			return

		case p, ok = <-h.sktRxChan:
			if !ok {
				logger.Debug("hci: socket rx closed")
				if h.err == nil {
					h.err = io.EOF
				}
				return
			}
		}

		if err := h.handlePkt(p); err != nil {
			logger.Error("hci: skt: ", err)
		}
	}
}

// txDrainLoop is the only writer to the transport's send path. It
// blocks on the ready gate before every send, enforcing one
// outstanding command at a time.
func (h *Host) txDrainLoop() {
	for {
		select {
		case <-h.done:
			return
		case <-h.gate.ch:
		case <-time.After(gateTimeout):
			// a response should have re-armed the gate long ago
			logger.Warn("hci: ready gate timeout, re-arming")
		}

		select {
		case <-h.done:
			return
		case p := <-h.txq.ch:
			if p[0] == txqWaitMarker {
				// synthetic delay entry, send credit stays armed
				time.Sleep(time.Duration(p[1]) * time.Millisecond)
				h.gate.Set()
				continue
			}

			if _, err := h.skt.Write(p); err != nil {
				h.dispatchError(errors.Wrap(err, "can't send packet"))
				continue
			}
			if p[0] == pktTypeACLData {
				// data credit returns as soon as the transport took
				// the frame; command credit returns on command
				// complete/status.
				h.gate.Set()
			}
		}
	}
}

// housekeepingLoop runs the per-tick chores: the disconnect switch and
// post-discovery per-device work. It only mutates session fields the
// receive context does not concurrently write (type, pending flag).
func (h *Host) housekeepingLoop() {
	t := time.NewTicker(housekeepingTick)
	defer t.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-t.C:
		}

		h.housekeep()
	}
}

// housekeep is one tick of the housekeeping loop.
func (h *Host) housekeep() {
	if h.disconnPoll != nil && h.disconnPoll() && !testBit(&h.flags, hostFlagDisconnInhibit) {
		setBit(&h.flags, hostFlagDisconnInhibit)
		logger.Info("hci: disconnect switch pressed, dropping all devices")
		h.DisconnectAll()

		// inhibit re-trigger for a while, self-clearing
		time.AfterFunc(disconnInhibitTime, func() {
			logger.Debug("hci: disconnect switch re-armed")
			clearBit(&h.flags, hostFlagDisconnInhibit)
		})
	}

	h.devs.ForEachActive(func(d *Dev) {
		if !d.TestFlag(devFlagSDPData) {
			return
		}

		data := h.devs.Data(d.ID())
		if newType := h.sdpParse.Parse(data); newType != d.Type {
			d.Type = newType
			data.DevType = newType
			logger.Infof("hci: dev %d resolved type %d", d.ID(), newType)
			if d.TestFlag(devFlagHIDIntrReady) {
				h.hid.HIDInit(d)
			}
		}
		d.ClearFlag(devFlagSDPData)
	})
}

func (h *Host) handlePkt(b []byte) error {
	if len(b) == 0 {
		return errors.New("empty packet")
	}

	// Strip the packet indicator and pass down the rest.
	t, b := b[0], b[1:]
	switch t {
	case pktTypeACLData:
		return h.handleACL(b)
	case pktTypeEvent:
		return h.handleEvt(b)

	case pktTypeCommand:
		return fmt.Errorf("unmanaged cmd: % X", b)
	case pktTypeSCOData:
		return fmt.Errorf("unsupported sco packet: % X", b)
	case pktTypeVendor:
		return fmt.Errorf("unsupported vendor packet: % X", b)
	default:
		return fmt.Errorf("invalid packet: 0x%02X % X", t, b)
	}
}

// handleACL pushes the packet through the reassembler and routes the
// complete logical frame by L2CAP channel id. First match wins.
func (h *Host) handleACL(b []byte) error {
	frame := h.frag.process(b)
	if frame == nil {
		return nil
	}

	handle := binary.LittleEndian.Uint16(frame[0:2])
	cid := binary.LittleEndian.Uint16(frame[6:8])

	d := h.devs.FindByHandle(handle)
	if d == nil {
		// connection-less attribute traffic targets the config session
		if cid == cidATT {
			h.att.HandleATT(h.cfg, frame)
			return nil
		}
		logger.Warnf("acl: no session for handle 0x%04X cid 0x%04X, dropping", aclHandle(handle), cid)
		return nil
	}

	switch {
	case cid == cidSignal:
		h.sig.HandleSignaling(d, frame)
	case cid == d.SDPTxChan.SCID || cid == d.SDPRxChan.SCID:
		h.sdp.HandleSDP(d, frame)
	case cid == d.CtrlChan.SCID || cid == d.IntrChan.SCID:
		h.hid.HandleHID(d, frame)
	default:
		logger.Warnf("acl: dev %d unmatched cid 0x%04X, dropping", d.ID(), cid)
	}
	return nil
}

func (h *Host) handleEvt(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("runt event packet: % X", b)
	}
	code, plen := int(b[0]), int(b[1])
	if plen != len(b[2:]) {
		return fmt.Errorf("invalid event packet: % X", b)
	}

	if f := h.evth[code]; f != nil {
		return f(b[2:])
	}
	if code == 0xFF { // ignore vendor events
		return nil
	}
	logger.Debugf("hci: unsupported event 0x%02X", code)
	return nil
}

func (h *Host) handleConnectionRequest(b []byte) error {
	e := evt.ConnectionRequest(b)
	addr, err := e.BDADDRWErr()
	if err != nil {
		return errors.Wrap(err, "connection request")
	}

	d := h.devs.FindByAddr(addr)
	if d == nil {
		d = h.devs.AllocateNew()
		if d == nil {
			logger.Warn("hci: device pool exhausted, rejecting connection")
			return h.SendCmd(&cmd.RejectConnectionRequest{BDADDR: addr, Reason: 0x0D})
		}
		d.RemoteBDAddr = addr
		d.SetFlag(devFlagFound)
	}

	logger.Infof("hci: dev %d connection request from %s", d.ID(), d.Addr())
	return h.SendCmd(&cmd.AcceptConnectionRequest{BDADDR: addr, Role: 0x00})
}

func (h *Host) handleConnectionComplete(b []byte) error {
	e := evt.ConnectionComplete(b)
	addr := e.BDADDR()
	d := h.devs.FindByAddr(addr)

	if e.Status() != 0x00 {
		logger.Warnf("hci: connection failed, status 0x%02X", e.Status())
		if d != nil {
			h.devs.Reset(d)
		}
		return nil
	}

	if d == nil {
		d = h.devs.AllocateNew()
		if d == nil {
			logger.Warn("hci: no free device slot, ignoring connection")
			return nil
		}
		d.RemoteBDAddr = addr
		d.SetFlag(devFlagFound)
	}

	d.ACLHandle = aclHandle(e.ConnectionHandle())
	d.SetFlag(devFlagAuthenticating)
	logger.Infof("hci: dev %d connected, handle 0x%04X addr %s", d.ID(), d.ACLHandle, d.Addr())

	// replay legacy pairing; the controller answers with a link key
	// request that we serve from the bond store
	return h.SendCmd(&cmd.AuthenticationRequested{ConnectionHandle: d.ACLHandle})
}

func (h *Host) handleDisconnectionComplete(b []byte) error {
	e := evt.DisconnectionComplete(b)
	d := h.devs.FindByHandle(e.ConnectionHandle())
	if d == nil {
		logger.Debugf("hci: disconnection for unknown handle 0x%04X", e.ConnectionHandle())
		return nil
	}

	logger.Infof("hci: dev %d disconnected, reason 0x%02X", d.ID(), e.Reason())
	h.devs.Reset(d)
	return nil
}

func (h *Host) handleAuthenticationComplete(b []byte) error {
	e := evt.AuthenticationComplete(b)
	d := h.devs.FindByHandle(e.ConnectionHandle())
	if d == nil {
		return nil
	}

	d.ClearFlag(devFlagAuthenticating)
	if e.Status() != 0x00 {
		logger.Warnf("hci: dev %d authentication failed, status 0x%02X", d.ID(), e.Status())
		return nil
	}

	d.SetFlag(devFlagEncrypted)
	logger.Infof("hci: dev %d authenticated", d.ID())
	return nil
}

func (h *Host) handleCommandComplete(b []byte) error {
	e := evt.CommandComplete(b)
	if e.NumHCICommandPackets() > 0 {
		h.gate.Set()
	}

	opcode := int(e.CommandOpcode())
	switch opcode {
	case 0x0000:
		// NOP, flow control purpose only [Vol 2, Part E, 4.4]
		return nil

	case (&cmd.ReadBDADDR{}).OpCode():
		rp := cmd.ReadBDADDRRP{}
		if err := rp.Unmarshal(e.ReturnParameters()); err != nil {
			return errors.Wrap(err, "read bdaddr")
		}
		h.addr = rp.BDADDR
		logger.Info("hci: controller address ", blueretro.NewWireAddr(rp.BDADDR))

	case (&cmd.ReadBufferSize{}).OpCode():
		rp := cmd.ReadBufferSizeRP{}
		if err := rp.Unmarshal(e.ReturnParameters()); err != nil {
			return errors.Wrap(err, "read buffer size")
		}
		h.bufSize = int(rp.HCACLDataPacketLength)
		h.bufCnt = int(rp.HCTotalNumACLDataPackets)
		logger.Debugf("hci: controller buffers %d x %d bytes", h.bufCnt, h.bufSize)

	default:
		if p := e.ReturnParameters(); len(p) > 0 && p[0] != 0x00 {
			logger.Warnf("hci: command 0x%04X failed, status 0x%02X", opcode, p[0])
		}
	}
	return nil
}

func (h *Host) handleCommandStatus(b []byte) error {
	e := evt.CommandStatus(b)
	if e.NumHCICommandPackets() > 0 {
		h.gate.Set()
	}

	if e.Status() != 0x00 {
		logger.Warnf("hci: command 0x%04X status 0x%02X", e.CommandOpcode(), e.Status())
	}
	return nil
}

func (h *Host) handleHardwareError(b []byte) error {
	e := evt.HardwareError(b)
	err := fmt.Errorf("hci: hardware error 0x%02X", e.Code())
	h.dispatchError(err)
	return nil
}

func (h *Host) handleNumberOfCompletedPackets(b []byte) error {
	// ACL credits are returned per write, not per completion report
	logger.Debugf("hci: number of completed packets: % X", b)
	return nil
}

func (h *Host) handlePINCodeRequest(b []byte) error {
	e := evt.PINCodeRequest(b)
	addr, err := e.BDADDRWErr()
	if err != nil {
		return errors.Wrap(err, "pin code request")
	}

	// legacy pairing fallback pin
	var pin [16]byte
	copy(pin[:], "0000")
	return h.SendCmd(&cmd.PINCodeRequestReply{
		BDADDR:        addr,
		PINCodeLength: 4,
		PINCode:       pin,
	})
}

func (h *Host) handleLinkKeyRequest(b []byte) error {
	e := evt.LinkKeyRequest(b)
	addr, err := e.BDADDRWErr()
	if err != nil {
		return errors.Wrap(err, "link key request")
	}

	key, found := h.keys.Lookup(addr)
	if !found {
		logger.Infof("hci: no stored link key for %s", blueretro.NewWireAddr(addr))
		return h.SendCmd(&cmd.LinkKeyRequestNegativeReply{BDADDR: addr})
	}

	return h.SendCmd(&cmd.LinkKeyRequestReply{BDADDR: addr, LinkKey: key})
}

func (h *Host) handleLinkKeyNotify(b []byte) error {
	e := evt.LinkKeyNotify(b)
	addr, err := e.BDADDRWErr()
	if err != nil {
		return errors.Wrap(err, "link key notify")
	}

	if err := h.keys.Store(addr, e.LinkKey()); err != nil {
		// durability is best effort; the in-memory key still serves
		// this power cycle
		logger.Error("hci: ", err)
	}
	return nil
}

func (h *Host) dispatchError(e error) {
	switch {
	case e == nil:
		// nothing to report
	case h.errorHandler == nil:
		logger.Error(e)
	case !h.isOpen():
		logger.Error("hci closing: ", e)
	default:
		h.errorHandler(e)
	}
}
