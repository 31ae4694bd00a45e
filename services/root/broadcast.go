package root

import (
	"smartknob-go/types"
	"smartknob-go/x/timex"
)

// broadcastThrottle rate-limits unsolicited state pushes over the serial
// link. A broadcast happens only when the minimum interval has elapsed AND
// something meaningful changed since the last send. A skipped broadcast is
// not queued; it is simply re-evaluated on the next tick.
type broadcastThrottle struct {
	enabled       bool
	threshold     float32 // sub-position delta that counts as movement
	minIntervalMs uint32
	lastSentAtMs  int64
	lastSent      types.KnobState
}

func (b *broadcastThrottle) setRateHz(rateHz uint32) {
	b.minIntervalMs = timex.IntervalMsFromHz(rateHz)
}

func (b *broadcastThrottle) shouldBroadcast(nowMs int64, s types.KnobState) bool {
	if !b.enabled {
		return false
	}
	if nowMs-b.lastSentAtMs < int64(b.minIntervalMs) {
		return false // too soon since last broadcast
	}

	d := s.SubPositionUnit - b.lastSent.SubPositionUnit
	if d < 0 {
		d = -d
	}
	positionChanged := d >= b.threshold
	pressChanged := s.PressNonce != b.lastSent.PressNonce
	configChanged := s.ConfigID != b.lastSent.ConfigID

	return positionChanged || pressChanged || configChanged
}

// markSent records the broadcast; call it together with the actual send so
// the pair stays atomic on the root task's timeline.
func (b *broadcastThrottle) markSent(nowMs int64, s types.KnobState) {
	b.lastSent = s
	b.lastSentAtMs = nowMs
}
