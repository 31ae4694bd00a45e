package motor

import (
	"sync"

	"smartknob-go/types"
	"smartknob-go/x/mathx"
)

// SimDriver is a software-only motor: it snaps instantly to whatever
// position is fed in and honours the detent profile's position bounds. Host
// builds and the demo entry point use it in place of the FOC loop.
type SimDriver struct {
	mu      sync.Mutex
	cfg     types.KnobConfig
	pos     int32
	sub     float32
	pending bool
	nonce   uint32
}

func NewSimDriver() *SimDriver { return &SimDriver{} }

// Turn feeds a simulated rotation in whole detents.
func (d *SimDriver) Turn(delta int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = mathx.Clamp(d.pos+delta, d.cfg.MinPosition, d.cfg.MaxPosition)
	d.pending = true
}

// Press feeds a simulated press, bumping the sample nonce.
func (d *SimDriver) Press() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nonce++
	d.pending = true
}

func (d *SimDriver) ApplyConfig(cfg types.KnobConfig) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
	d.pos = mathx.Clamp(cfg.Position, cfg.MinPosition, cfg.MaxPosition)
	d.pending = true
}

func (d *SimDriver) PlayHaptic(press, long bool) {
	println("[motor] haptic press:", press, "long:", long)
}

func (d *SimDriver) Calibrate() (CalibrationResult, error) {
	return CalibrationResult{PoleZero: 0, DirectionCW: true}, nil
}

func (d *SimDriver) Poll() (types.KnobState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.pending {
		return types.KnobState{}, false
	}
	d.pending = false
	return types.KnobState{
		CurrentPosition: d.pos,
		SubPositionUnit: d.sub,
		ConfigID:        d.cfg.ID,
		PressNonce:      d.nonce,
	}, true
}
