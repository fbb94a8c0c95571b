package evt

import (
	"encoding/binary"
	"fmt"
)

func (e ConnectionComplete) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}
func (e ConnectionComplete) ConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}
func (e ConnectionComplete) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 3)
}
func (e ConnectionComplete) LinkTypeWErr() (uint8, error) {
	return getByte(e, 9, 0xff)
}
func (e ConnectionComplete) EncryptionEnabledWErr() (uint8, error) {
	return getByte(e, 10, 0)
}

func (e ConnectionRequest) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 0)
}
func (e ConnectionRequest) ClassOfDeviceWErr() ([3]byte, error) {
	bb, err := getBytes(e, 6, 3)
	if err != nil {
		return [3]byte{}, err
	}
	out := [3]byte{}
	copy(out[:], bb)
	return out, nil
}
func (e ConnectionRequest) LinkTypeWErr() (uint8, error) {
	return getByte(e, 9, 0xff)
}

func (e DisconnectionComplete) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}
func (e DisconnectionComplete) ConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}
func (e DisconnectionComplete) ReasonWErr() (uint8, error) {
	return getByte(e, 3, 0xff)
}

func (e AuthenticationComplete) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}
func (e AuthenticationComplete) ConnectionHandleWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}

func (e RemoteNameReqComplete) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}
func (e RemoteNameReqComplete) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 1)
}
func (e RemoteNameReqComplete) RemoteNameWErr() ([]byte, error) {
	return getBytes(e, 7, -1)
}

func (e CommandComplete) NumHCICommandPacketsWErr() (uint8, error) {
	return getByte(e, 0, 0)
}
func (e CommandComplete) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 1, 0xffff)
}
func (e CommandComplete) ReturnParametersWErr() ([]byte, error) {
	return getBytes(e, 3, -1)
}

func (e CommandStatus) StatusWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}
func (e CommandStatus) NumHCICommandPacketsWErr() (uint8, error) {
	return getByte(e, 1, 0)
}
func (e CommandStatus) CommandOpcodeWErr() (uint16, error) {
	return getUint16LE(e, 2, 0xffff)
}

func (e HardwareError) CodeWErr() (uint8, error) {
	return getByte(e, 0, 0xff)
}

func (e NumberOfCompletedPackets) NumberOfHandlesWErr() (uint8, error) {
	return getByte(e, 0, 0)
}
func (e NumberOfCompletedPackets) ConnectionHandleWErr(i int) (uint16, error) {
	si := 1 + (i * 4)
	return getUint16LE(e, si, 0xffff)
}
func (e NumberOfCompletedPackets) HCNumOfCompletedPacketsWErr(i int) (uint16, error) {
	si := 1 + (i * 4) + 2
	return getUint16LE(e, si, 0)
}

func (e PINCodeRequest) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 0)
}

func (e LinkKeyRequest) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 0)
}

func (e LinkKeyNotify) BDADDRWErr() ([6]byte, error) {
	return getAddr(e, 0)
}
func (e LinkKeyNotify) LinkKeyWErr() ([16]byte, error) {
	bb, err := getBytes(e, 6, 16)
	if err != nil {
		return [16]byte{}, err
	}
	out := [16]byte{}
	copy(out[:], bb)
	return out, nil
}
func (e LinkKeyNotify) KeyTypeWErr() (uint8, error) {
	return getByte(e, 22, 0xff)
}

func getAddr(b []byte, start int) ([6]byte, error) {
	bb, err := getBytes(b, start, 6)
	if err != nil {
		return [6]byte{}, err
	}
	out := [6]byte{}
	copy(out[:], bb)
	return out, nil
}

func getByte(b []byte, i int, def byte) (byte, error) {
	bb, err := getBytes(b, i, 1)
	if err != nil {
		return def, err
	}
	return bb[0], nil
}

// get or default
func getUint16LE(b []byte, i int, def uint16) (uint16, error) {
	bb, err := getBytes(b, i, 2)
	if err != nil {
		return def, err
	}
	return binary.LittleEndian.Uint16(bb), nil
}

func getBytes(bytes []byte, start int, count int) ([]byte, error) {
	if bytes == nil || start >= len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	if count < 0 {
		return bytes[start:], nil
	}

	end := start + count
	// end is non-inclusive
	if end > len(bytes) {
		return nil, fmt.Errorf("index error")
	}

	return bytes[start:end], nil
}
