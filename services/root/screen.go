package root

import (
	"math"

	"smartknob-go/types"
	"smartknob-go/x/mathx"
)

// Engagement windows, in milliseconds. Physical interaction (knob motion,
// press) holds the screen awake longer than a non-physical trigger such as
// a proximity detection.
const (
	engagedTimeoutPhysicalMs    = 4000
	engagedTimeoutNonPhysicalMs = 2000
)

// Ambient brightness tracking.
const (
	// Deltas above this snap or decay; at or below it the brightness locks
	// onto the target to keep a stable level under small light variation.
	brightnessSnapDelta = 500
	// Divisor of the per-tick exponential decay toward the ambient target.
	// Asymptotic, never overshoots, slow for small deltas.
	defaultDecayDivisor = 8
)

// extendWake marks the screen engaged and refreshes the wake deadline to
// now+windowMs, but only once more than half of the previous grant has
// elapsed. Rapid repeated triggers inside the half-window are idempotent;
// the deadline is never retracted.
func extendWake(s *types.ScreenState, nowMs, windowMs int64) {
	s.HasBeenEngaged = true
	if s.AwakeUntilMs < nowMs+windowMs/2 {
		s.AwakeUntilMs = nowMs + windowMs
	}
}

// buttonWakeWindow is the grant for a press.
func buttonWakeWindow(set types.ScreenSettings) int64 {
	return mathx.Max(int64(engagedTimeoutPhysicalMs), int64(set.TimeoutMs))
}

// motionWakeWindow is the grant for a detected knob rotation.
func motionWakeWindow(set types.ScreenSettings) int64 {
	return mathx.Max(int64(engagedTimeoutPhysicalMs/2), int64(set.TimeoutMs))
}

// trackAmbientBrightness runs the dimmed-screen half of the brightness
// hysteresis: while not engaged, brightness follows
// target = round(lux_adj * min_bright). Large increases snap immediately;
// large decreases decay by (brightness-target)/divisor per tick; small
// deltas lock onto the target. The engaged/forced-bright half lives in the
// engagement sweep, which also issues the strain power transitions.
func trackAmbientBrightness(s *types.ScreenState, set types.ScreenSettings, luxAdj float32, nowMs int64, divisor uint16) {
	if !set.Dim {
		s.Brightness = set.MaxBright
		return
	}
	if divisor == 0 {
		divisor = defaultDecayDivisor
	}

	target := int32(math.Round(float64(luxAdj) * float64(set.MinBright)))
	target = mathx.Clamp(target, 0, int32(set.MaxBright))
	cur := int32(s.Brightness)
	delta := mathx.Abs(cur - target)

	switch {
	case !s.HasBeenEngaged && delta > brightnessSnapDelta && nowMs > s.AwakeUntilMs:
		if cur < target {
			cur = target
		} else {
			cur -= (cur - target) / int32(divisor)
		}
	case !s.HasBeenEngaged && delta <= brightnessSnapDelta:
		cur = target
	}

	s.Brightness = uint16(mathx.Clamp(cur, 0, int32(set.MaxBright)))
}

// holdMaxBrightness is the no-ambient-sensor fallback: the panel simply
// stays at full brightness when not engaged.
func holdMaxBrightness(s *types.ScreenState, set types.ScreenSettings) {
	if !s.HasBeenEngaged {
		s.Brightness = set.MaxBright
	}
}
