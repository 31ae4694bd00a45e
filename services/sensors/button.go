package sensors

import "smartknob-go/types"

// Virtual button thresholds. The press/release pair forms a hysteresis band
// so a force hovering near the threshold cannot chatter.
const (
	pressThresholdG   = 220
	releaseThresholdG = 120
	longPressMs       = 500
	releaseHoldMs     = 100
)

// strainButton classifies the force stream into virtual button codes. The
// orchestrator's debouncer fires side effects once per distinct code; this
// machine only has to report the correct level each sample.
type strainButton struct {
	pressed     bool
	longFired   bool
	pressedAtMs int64
	releaseCode types.VirtualButtonCode
	releaseAtMs int64
}

func newStrainButton() strainButton { return strainButton{} }

func (b *strainButton) step(nowMs int64, grams float32) types.VirtualButtonCode {
	if b.pressed {
		if grams <= releaseThresholdG {
			b.pressed = false
			b.releaseAtMs = nowMs
			if b.longFired {
				b.releaseCode = types.VirtualButtonLongReleased
			} else {
				b.releaseCode = types.VirtualButtonShortReleased
			}
			return b.releaseCode
		}
		if nowMs-b.pressedAtMs >= longPressMs {
			b.longFired = true
			return types.VirtualButtonLongPressed
		}
		return types.VirtualButtonShortPressed
	}

	if grams >= pressThresholdG {
		b.pressed = true
		b.longFired = false
		b.pressedAtMs = nowMs
		return types.VirtualButtonShortPressed
	}

	// Hold the release code briefly so a slow consumer still observes it.
	if b.releaseCode != types.VirtualButtonIdle && nowMs-b.releaseAtMs < releaseHoldMs {
		return b.releaseCode
	}
	b.releaseCode = types.VirtualButtonIdle
	return types.VirtualButtonIdle
}
