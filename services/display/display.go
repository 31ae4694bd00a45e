// Package display owns the screen collaborator surface the orchestrator
// drives: backlight level, the app registry with its menu navigation, and
// the error flow that takes over navigation until cleared. Pixel rendering
// is out of scope here; apps draw through whatever graphics stack the
// build provides.
package display

import (
	"sync"

	"smartknob-go/services/root"
	"smartknob-go/types"
)

// Backlight is the PWM seam for the panel backlight.
type Backlight interface {
	SetBrightness(v uint16)
}

// Display implements the orchestrator's display contract.
type Display struct {
	mu         sync.Mutex
	apps       *Apps
	backlight  Backlight // optional
	brightness uint16
	activeErr  types.ErrorType
	demo       bool
}

func New(apps *Apps, backlight Backlight) *Display {
	if apps == nil {
		panic("display: missing app registry")
	}
	return &Display{apps: apps, backlight: backlight}
}

// SetBrightness forwards the level to the backlight. The orchestrator only
// calls it on changes, so no diffing happens here.
func (d *Display) SetBrightness(v uint16) {
	d.mu.Lock()
	d.brightness = v
	bl := d.backlight
	d.mu.Unlock()
	if bl != nil {
		bl.SetBrightness(v)
	}
}

// Brightness reports the last pushed level.
func (d *Display) Brightness() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.brightness
}

// Registry returns the app registry as the default input surface.
func (d *Display) Registry() root.InputSurface { return d.apps }

// ActiveError reports the error flow currently owning the screen.
func (d *Display) ActiveError() types.ErrorType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeErr
}

// SetError enters an error flow. While set, the orchestrator suppresses
// navigation so the flow owns all input.
func (d *Display) SetError(e types.ErrorType) {
	d.mu.Lock()
	d.activeErr = e
	d.mu.Unlock()
	if e != types.NoError {
		println("[display] error flow active:", int(e))
	}
}

// ClearError leaves the error flow.
func (d *Display) ClearError() { d.SetError(types.NoError) }

// EnableDemo switches the registry to its demo rotation. Idempotent.
func (d *Display) EnableDemo() {
	d.mu.Lock()
	already := d.demo
	d.demo = true
	d.mu.Unlock()
	if !already {
		println("[display] demo mode enabled")
	}
}
