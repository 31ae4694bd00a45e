// Package ramp provides integer level ramps for LED and backlight fades.
package ramp

import "smartknob-go/x/mathx"

// Toward moves cur one increment of at most step toward to and returns the
// new level. step==0 snaps.
func Toward(cur, to, step uint16) uint16 {
	if step == 0 || cur == to {
		return to
	}
	if cur < to {
		return cur + mathx.Min(step, to-cur)
	}
	return cur - mathx.Min(step, cur-to)
}

// Level is a caller-clocked linear fade: Set picks a new target, Step
// advances one frame. Levels settle exactly on the target, never
// overshooting.
type Level struct {
	cur  uint16
	to   uint16
	step uint16
}

// NewLevel builds a fade that moves by step per frame.
func NewLevel(step uint16) *Level {
	return &Level{step: step}
}

// Set retargets the fade. The current level is kept so an in-flight fade
// bends toward the new target instead of restarting.
func (l *Level) Set(to uint16) { l.to = to }

// Snap jumps straight to the target.
func (l *Level) Snap(to uint16) {
	l.cur = to
	l.to = to
}

// Step advances one frame and returns the new level.
func (l *Level) Step() uint16 {
	l.cur = Toward(l.cur, l.to, l.step)
	return l.cur
}

// Current returns the level without advancing.
func (l *Level) Current() uint16 { return l.cur }

// Done reports whether the fade has settled.
func (l *Level) Done() bool { return l.cur == l.to }
