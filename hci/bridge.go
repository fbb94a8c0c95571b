package hci

import (
	"time"

	"github.com/Alkhymia/BlueRetro/adapter"
)

// Bridge carries one raw input report into the session's generic
// adapter slot and fires the translation capability. The very first
// report of a session is swallowed: many controllers send an
// incomplete initial report, so translation only starts once the
// session is initialized or a report has already been observed.
func (h *Host) Bridge(d *Dev, reportID uint8, data []byte) {
	ad := h.devs.Data(d.id)
	if ad == nil {
		logger.Debugf("bridge: session %d has no data slot, dropping", d.id)
		return
	}

	n := len(data)
	if d.Type == adapter.TypeHIDGeneric {
		l, idx, ok := ad.ReportLen(reportID)
		if !ok {
			logger.Debugf("bridge: dev %d unknown report id 0x%02X, dropping", d.ID(), reportID)
			return
		}
		ad.ReportType = idx
		if int(l) < n {
			n = int(l)
		}
	}
	if n > len(ad.Input) {
		n = len(ad.Input)
	}

	ad.ReportCnt++
	if ad.TestFlag(adapter.FlagInit) || ad.ReportCnt > 1 {
		ad.ReportID = reportID
		ad.DevID = int32(d.id)
		ad.DevType = d.Type
		copy(ad.Input[:], data[:n])
		h.bridge.Bridge(ad)
	}
}

// feedbackLoop blocks on the wired-side feedback queue. Each blob
// carries its owning session index in the first byte; when translation
// reports a change, the fresh output report goes out on the session's
// HID interrupt channel. With an auto-off interval configured, a
// session left in a non-zero state without a refresh is synthesized
// back to zero, so a stalled wired side never leaves rumble running.
func (h *Host) feedbackLoop() {
	// per-session auto-off timers, only this goroutine touches them
	timers := map[int]*time.Timer{}

	for {
		var fb []byte
		var ok bool

		select {
		case <-h.done:
			return
		case fb, ok = <-h.feedback:
			if !ok {
				return
			}
		case id := <-h.fbOff:
			logger.Debugf("fb: auto-off for dev %d", id)
			fb = []byte{byte(id), 0}
		}

		if len(fb) < 2 {
			continue
		}

		d := h.devs.Get(int(fb[0]))
		if d == nil || !d.TestFlag(devFlagFound) {
			logger.Debugf("fb: no session for index %d, dropping", fb[0])
			continue
		}

		if h.fbAutoOff > 0 {
			id := d.ID()
			if t := timers[id]; t != nil {
				t.Stop()
				delete(timers, id)
			}
			if fb[1] != 0 {
				timers[id] = time.AfterFunc(h.fbAutoOff, func() {
					select {
					case h.fbOff <- id:
					default:
					}
				})
			}
		}

		ad := h.devs.Data(d.ID())
		if h.bridge.BridgeFeedback(fb, ad) {
			n := adapter.OutputLen(d.Type)
			if n == 0 {
				continue
			}
			if err := h.SendHIDOutput(d, ad.Output[:n]); err != nil {
				logger.Warn("fb: ", err)
			}
		}
	}
}
