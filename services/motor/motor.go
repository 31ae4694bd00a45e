// Package motor serializes haptic, calibration and detent-profile requests
// onto the motor control timeline. The torque control loop itself lives
// behind the Driver seam; this task only owns the request queues and the
// persistence of calibration results.
package motor

import (
	"context"
	"time"

	"smartknob-go/config"
	"smartknob-go/types"
)

const (
	pollPeriod     = time.Millisecond
	hapticQueueLen = 4
)

// CalibrationResult is what a completed pole-detection run produces.
type CalibrationResult struct {
	PoleZero    float32
	DirectionCW bool
}

// Driver is the control-loop seam. All methods are called from the motor
// task goroutine only; drivers never need their own locking.
type Driver interface {
	// ApplyConfig installs a new detent profile.
	ApplyConfig(types.KnobConfig)
	// PlayHaptic emits one haptic pulse.
	PlayHaptic(press, long bool)
	// Calibrate runs the blocking pole-detection sequence.
	Calibrate() (CalibrationResult, error)
	// Poll advances the control loop one step and reports a knob sample
	// when the position changed enough to publish.
	Poll() (types.KnobState, bool)
}

type hapticRequest struct {
	press bool
	long  bool
}

// Task owns the motor request mailboxes. Its RunCalibration, PlayHaptic and
// SetConfig methods are safe from any goroutine; everything they request is
// applied on the task's own timeline.
type Task struct {
	driver Driver
	cfg    *config.Configuration
	sink   func(types.KnobState)

	haptics     chan hapticRequest
	calibration chan struct{}
	configs     chan types.KnobConfig
}

// New builds the motor task. sink receives every published knob sample and
// must not block (the root task's OfferKnobState qualifies).
func New(driver Driver, cfg *config.Configuration, sink func(types.KnobState)) *Task {
	if driver == nil || sink == nil {
		panic("motor: missing driver or sink")
	}
	return &Task{
		driver:      driver,
		cfg:         cfg,
		sink:        sink,
		haptics:     make(chan hapticRequest, hapticQueueLen),
		calibration: make(chan struct{}, 1),
		configs:     make(chan types.KnobConfig, 1),
	}
}

// RunCalibration requests a calibration run; duplicates collapse.
func (t *Task) RunCalibration() {
	select {
	case t.calibration <- struct{}{}:
	default:
	}
}

// PlayHaptic queues one haptic pulse. Pulses beyond the small queue are
// dropped; a missed pulse is preferable to a delayed one.
func (t *Task) PlayHaptic(press, long bool) {
	select {
	case t.haptics <- hapticRequest{press: press, long: long}:
	default:
		println("[motor] haptic queue full, pulse dropped")
	}
}

// SetConfig posts a new detent profile with overwrite semantics: only the
// newest pending profile is ever applied.
func (t *Task) SetConfig(cfg types.KnobConfig) {
	for {
		select {
		case t.configs <- cfg:
			return
		default:
			select {
			case <-t.configs:
			default:
			}
		}
	}
}

// Run executes the request loop until the context is cancelled.
func (t *Task) Run(ctx context.Context) {
	println("[motor] starting")

	tick := time.NewTicker(pollPeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[motor] stopping")
			return
		case <-tick.C:
			t.step()
		}
	}
}

// step drains the mailboxes and advances the driver once. Exposed to tests
// through the internal surface only.
func (t *Task) step() {
	select {
	case cfg := <-t.configs:
		t.driver.ApplyConfig(cfg)
	default:
	}

	select {
	case h := <-t.haptics:
		t.driver.PlayHaptic(h.press, h.long)
	default:
	}

	select {
	case <-t.calibration:
		t.runCalibration()
	default:
	}

	if s, ok := t.driver.Poll(); ok {
		t.sink(s)
	}
}

func (t *Task) runCalibration() {
	res, err := t.driver.Calibrate()
	if err != nil {
		println("[motor] calibration failed:", err.Error())
		return
	}
	println("[motor] calibrated, pole zero stored")
	if t.cfg != nil {
		if err := t.cfg.SetMotorCalibration(res.PoleZero, res.DirectionCW); err != nil {
			println("[motor] calibration store failed:", err.Error())
		}
	}
}
