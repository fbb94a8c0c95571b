package hci

import "sync/atomic"

// Atomic bit operations for the flag words shared across the receive,
// drain and housekeeping contexts.

func setBit(addr *uint32, n uint32) {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old|(1<<n)) {
			return
		}
	}
}

func clearBit(addr *uint32, n uint32) {
	for {
		old := atomic.LoadUint32(addr)
		if atomic.CompareAndSwapUint32(addr, old, old&^(1<<n)) {
			return
		}
	}
}

func testBit(addr *uint32, n uint32) bool {
	return atomic.LoadUint32(addr)&(1<<n) != 0
}
