// Package ledring renders the orchestrator's effect selections onto the
// addressable ring. Effects arrive as full replacements through a single
// overwrite slot; the task re-renders every frame so the sweep animations
// advance even when the effect itself does not change.
package ledring

import (
	"context"
	"image/color"
	"time"

	"smartknob-go/types"
	"smartknob-go/x/mathx"
	"smartknob-go/x/ramp"
)

const (
	framePeriod = 33 * time.Millisecond

	// One full lighthouse revolution, in frames.
	lighthousePeriodFrames = 60

	// Trailing pixels behind the lighthouse beam.
	lighthouseTailLen = 2

	// Brightness fade speed for TO_BRIGHTNESS, per frame. Full range in
	// about one second at the frame rate.
	fadeStepPerFrame = 2048
)

// Strip is the output seam. ws2812 satisfies it on MCU builds.
type Strip interface {
	WriteColors(buf []color.RGBA) error
}

// Task drives one ring.
type Task struct {
	strip   Strip
	numLeds int

	effects chan types.EffectSettings

	current types.EffectSettings
	fade    *ramp.Level
	frame   int
	buf     []color.RGBA
}

func New(strip Strip, numLeds int) *Task {
	if strip == nil || numLeds <= 0 {
		panic("ledring: missing strip or led count")
	}
	return &Task{
		strip:   strip,
		numLeds: numLeds,
		effects: make(chan types.EffectSettings, 1),
		fade:    ramp.NewLevel(fadeStepPerFrame),
		buf:     make([]color.RGBA, numLeds),
	}
}

// SetEffect replaces the active effect. Overwrite semantics: only the
// newest pending effect is ever rendered.
func (t *Task) SetEffect(e types.EffectSettings) {
	for {
		select {
		case t.effects <- e:
			return
		default:
			select {
			case <-t.effects:
			default:
			}
		}
	}
}

// Run renders frames until the context is cancelled. On exit the ring is
// blanked.
func (t *Task) Run(ctx context.Context) {
	println("[ledring] starting")

	tick := time.NewTicker(framePeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[ledring] stopping")
			t.apply(types.EffectSettings{Type: types.EffectLedsOff})
			t.render()
			return
		case <-tick.C:
			select {
			case e := <-t.effects:
				t.apply(e)
			default:
			}
			t.render()
			t.frame++
		}
	}
}

// apply installs a new effect. TO_BRIGHTNESS fades toward its level; the
// other effects switch instantly.
func (t *Task) apply(e types.EffectSettings) {
	t.current = e
	switch e.Type {
	case types.EffectToBrightness:
		t.fade.Set(e.Brightness)
	case types.EffectLedsOff:
		t.fade.Snap(0)
	default:
		t.fade.Snap(e.Brightness)
	}
}

func (t *Task) render() {
	renderFrame(t.buf, t.current, t.frame, t.fade.Step())
	if err := t.strip.WriteColors(t.buf); err != nil {
		println("[ledring] write failed:", err.Error())
	}
}

// renderFrame fills buf for one frame of effect e at the faded brightness
// level. Pure so the effect shapes are testable without hardware.
func renderFrame(buf []color.RGBA, e types.EffectSettings, frame int, level uint16) {
	for i := range buf {
		buf[i] = color.RGBA{}
	}

	switch e.Type {
	case types.EffectLedsOff:
		// Already blank.
	case types.EffectToBrightness:
		c := scaleColor(rgbFromUint32(e.MainColor), level)
		start, end := spanBounds(e, len(buf))
		for i := start; i <= end; i++ {
			buf[i] = c
		}
		if e.AccentPixel >= 0 && e.AccentPixel < len(buf) {
			buf[e.AccentPixel] = scaleColor(rgbFromUint32(e.AccentColor), level)
		}
	case types.EffectLighthouse:
		// A single beam sweeping the ring at a fixed revolution rate,
		// with a short dimming tail behind it.
		pos := (frame % lighthousePeriodFrames) * len(buf) / lighthousePeriodFrames
		c := rgbFromUint32(e.MainColor)
		buf[pos] = scaleColor(c, level)
		for i := 1; i <= lighthouseTailLen && i < len(buf); i++ {
			fade := uint16(uint32(i) * 65535 / (lighthouseTailLen + 1))
			tail := (pos - i + len(buf)) % len(buf)
			buf[tail] = scaleColor(c, mathx.LerpU16(level, 0, fade))
		}
	}
}

func spanBounds(e types.EffectSettings, n int) (start, end int) {
	start, end = e.StartPixel, e.EndPixel
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	if end < start {
		end = start
	}
	return start, end
}

// rgbFromUint32 unpacks 0xRRGGBB.
func rgbFromUint32(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}

// scaleColor applies a 16-bit brightness to an 8-bit color.
func scaleColor(c color.RGBA, brightness uint16) color.RGBA {
	b := uint32(brightness)
	return color.RGBA{
		R: uint8(uint32(c.R) * b / 65535),
		G: uint8(uint32(c.G) * b / 65535),
		B: uint8(uint32(c.B) * b / 65535),
		A: 255,
	}
}
