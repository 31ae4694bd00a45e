// Package sensors samples proximity, ambient light and strain at a fixed
// cadence and feeds the aggregate into the orchestrator's sensor queue. The
// hardware lives behind small reader seams so host builds and tests can
// inject fakes.
package sensors

import (
	"context"
	"time"

	"smartknob-go/config"
	"smartknob-go/types"
	"smartknob-go/x/mathx"
	"smartknob-go/x/timex"
)

const (
	samplePeriod = 10 * time.Millisecond

	// Lux above this counts as full daylight when normalising to [0,1].
	luxCeiling = 500.0
)

// ProximityReader yields the latest time-of-flight measurement.
type ProximityReader interface {
	ReadProximity() (types.ProximityState, error)
}

// LuxReader yields the latest ambient light level in lux.
type LuxReader interface {
	ReadLux() (float32, error)
}

// StrainReader yields raw strain counts and controls the sensor's power
// state. PowerUp and PowerDown are only called on state transitions.
type StrainReader interface {
	ReadRaw() (int32, error)
	PowerUp()
	PowerDown()
}

// Task owns the sampling loop. Its control methods (StrainPowerUp,
// StrainPowerDown, FactoryStrainCalibration, WeightMeasurement) are safe
// from any goroutine; the work happens on the sampling timeline.
type Task struct {
	prox   ProximityReader // optional
	lux    LuxReader       // optional
	strain StrainReader    // optional
	cfg    *config.Configuration
	sink   func(types.SensorsSample) bool

	power        chan bool
	calibrations chan float32
	weighings    chan struct{}

	button    strainButton
	powered   bool
	nowMs     func() int64
	lastLux   float32
	lastProx  types.ProximityState
	dropCount int
}

// Options wires a Task. Sink is required; nil readers disable their channel.
type Options struct {
	Proximity ProximityReader
	Lux       LuxReader
	Strain    StrainReader
	Config    *config.Configuration
	Sink      func(types.SensorsSample) bool
	NowMs     func() int64
}

func New(opts Options) *Task {
	if opts.Sink == nil {
		panic("sensors: missing sink")
	}
	t := &Task{
		prox:         opts.Proximity,
		lux:          opts.Lux,
		strain:       opts.Strain,
		cfg:          opts.Config,
		sink:         opts.Sink,
		power:        make(chan bool, 1),
		calibrations: make(chan float32, 1),
		weighings:    make(chan struct{}, 1),
		button:       newStrainButton(),
		nowMs:        opts.NowMs,
	}
	if t.nowMs == nil {
		t.nowMs = timex.NowMs
	}
	return t
}

// StrainPowerUp requests strain sampling to resume. Overwrite semantics:
// only the latest requested power state matters.
func (t *Task) StrainPowerUp() { t.requestPower(true) }

// StrainPowerDown requests strain sampling to pause.
func (t *Task) StrainPowerDown() { t.requestPower(false) }

func (t *Task) requestPower(on bool) {
	for {
		select {
		case t.power <- on:
			return
		default:
			select {
			case <-t.power:
			default:
			}
		}
	}
}

// FactoryStrainCalibration requests a calibration against a known reference
// weight in grams.
func (t *Task) FactoryStrainCalibration(weightGrams float32) {
	select {
	case t.calibrations <- weightGrams:
	default:
	}
}

// WeightMeasurement requests a one-off weight log line.
func (t *Task) WeightMeasurement() {
	select {
	case t.weighings <- struct{}{}:
	default:
	}
}

// Run executes the sampling loop until the context is cancelled.
func (t *Task) Run(ctx context.Context) {
	println("[sensors] starting")

	tick := time.NewTicker(samplePeriod)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[sensors] stopping")
			return
		case <-tick.C:
			t.step(t.nowMs())
		}
	}
}

func (t *Task) step(now int64) {
	select {
	case on := <-t.power:
		t.applyPower(on)
	default:
	}

	select {
	case w := <-t.calibrations:
		t.calibrate(w)
	default:
	}

	select {
	case <-t.weighings:
		println("[sensors] weight:", int(t.grams()), "g")
	default:
	}

	sample := t.read(now)
	if !t.sink(sample) {
		t.dropCount++
		if t.dropCount%100 == 1 {
			println("[sensors] queue full, sample dropped (total", t.dropCount, ")")
		}
	}
}

func (t *Task) applyPower(on bool) {
	if on == t.powered || t.strain == nil {
		return
	}
	t.powered = on
	if on {
		t.strain.PowerUp()
	} else {
		t.strain.PowerDown()
	}
}

// read gathers one sample. A failed reading keeps the previous value for
// that channel; sensors glitch, the loop does not.
func (t *Task) read(now int64) types.SensorsSample {
	if t.prox != nil {
		if p, err := t.prox.ReadProximity(); err == nil {
			t.lastProx = p
		}
	}
	if t.lux != nil {
		if lx, err := t.lux.ReadLux(); err == nil {
			t.lastLux = lx
		}
	}

	grams := t.grams()
	code := t.button.step(now, grams)

	return types.SensorsSample{
		Proximity: t.lastProx,
		Strain: types.StrainState{
			VirtualButtonCode: code,
			RawGrams:          grams,
		},
		Illumination: types.IlluminationState{
			Lux:    t.lastLux,
			LuxAdj: mathx.Clamp(t.lastLux/luxCeiling, 0, 1),
		},
	}
}

// grams converts the raw strain count through the factory scale. Without a
// stored scale the channel reads zero and the virtual button stays idle.
func (t *Task) grams() float32 {
	if t.strain == nil || !t.powered || t.cfg == nil {
		return 0
	}
	raw, err := t.strain.ReadRaw()
	if err != nil {
		return 0
	}
	scale := t.cfg.Get().StrainScale
	if scale == 0 {
		return 0
	}
	return float32(raw) / scale
}

// calibrate derives the scale factor that maps the current raw reading onto
// the reference weight and persists it.
func (t *Task) calibrate(weightGrams float32) {
	if t.strain == nil || weightGrams <= 0 {
		println("[sensors] strain calibration skipped")
		return
	}
	t.applyPower(true)
	raw, err := t.strain.ReadRaw()
	if err != nil {
		println("[sensors] strain calibration read failed:", err.Error())
		return
	}
	scale := float32(raw) / weightGrams
	if t.cfg != nil {
		if err := t.cfg.SaveFactoryStrainCalibration(scale); err != nil {
			println("[sensors] strain calibration store failed:", err.Error())
			return
		}
	}
	println("[sensors] strain calibrated")
}
