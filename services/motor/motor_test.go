package motor

import (
	"testing"

	"smartknob-go/config"
	"smartknob-go/types"
)

type fakeDriver struct {
	configs  []types.KnobConfig
	haptics  []hapticRequest
	calibs   int
	calibRes CalibrationResult
	samples  []types.KnobState
}

func (d *fakeDriver) ApplyConfig(c types.KnobConfig) { d.configs = append(d.configs, c) }
func (d *fakeDriver) PlayHaptic(press, long bool) {
	d.haptics = append(d.haptics, hapticRequest{press, long})
}
func (d *fakeDriver) Calibrate() (CalibrationResult, error) {
	d.calibs++
	return d.calibRes, nil
}
func (d *fakeDriver) Poll() (types.KnobState, bool) {
	if len(d.samples) == 0 {
		return types.KnobState{}, false
	}
	s := d.samples[0]
	d.samples = d.samples[1:]
	return s, true
}

func TestConfigOverwriteKeepsLatest(t *testing.T) {
	drv := &fakeDriver{}
	task := New(drv, nil, func(types.KnobState) {})

	task.SetConfig(types.KnobConfig{ID: "a"})
	task.SetConfig(types.KnobConfig{ID: "b"})
	task.SetConfig(types.KnobConfig{ID: "c"})
	task.step()

	if len(drv.configs) != 1 || drv.configs[0].ID != "c" {
		t.Fatalf("expected only the latest profile applied, got %v", drv.configs)
	}
}

func TestHapticsPlayInOrder(t *testing.T) {
	drv := &fakeDriver{}
	task := New(drv, nil, func(types.KnobState) {})

	task.PlayHaptic(true, false)
	task.PlayHaptic(true, true)
	task.step()
	task.step()

	if len(drv.haptics) != 2 {
		t.Fatalf("expected 2 pulses, got %d", len(drv.haptics))
	}
	if drv.haptics[0].long || !drv.haptics[1].long {
		t.Errorf("pulses out of order: %v", drv.haptics)
	}
}

func TestCalibrationPersistsResult(t *testing.T) {
	cfg := config.New(config.NewMemStore(), nil)
	if err := cfg.Load(); err != nil {
		t.Fatalf("config load: %v", err)
	}

	drv := &fakeDriver{calibRes: CalibrationResult{PoleZero: 1.25, DirectionCW: true}}
	task := New(drv, cfg, func(types.KnobState) {})

	task.RunCalibration()
	task.RunCalibration() // collapses
	task.step()
	task.step()

	if drv.calibs != 1 {
		t.Fatalf("expected one calibration run, got %d", drv.calibs)
	}
	pc := cfg.Get()
	if pc.MotorPoleZero != 1.25 || !pc.MotorDirectionCW {
		t.Errorf("calibration not persisted: %+v", pc)
	}
}

func TestPolledSamplesReachSink(t *testing.T) {
	drv := &fakeDriver{samples: []types.KnobState{
		{CurrentPosition: 1},
		{CurrentPosition: 2},
	}}
	var got []types.KnobState
	task := New(drv, nil, func(s types.KnobState) { got = append(got, s) })

	task.step()
	task.step()
	task.step()

	if len(got) != 2 || got[1].CurrentPosition != 2 {
		t.Fatalf("expected both samples forwarded, got %v", got)
	}
}

func TestSimDriverHonoursBounds(t *testing.T) {
	d := NewSimDriver()
	d.ApplyConfig(types.KnobConfig{ID: "vol", MinPosition: 0, MaxPosition: 3})
	d.Poll() // drain the config-change sample

	d.Turn(10)
	s, ok := d.Poll()
	if !ok || s.CurrentPosition != 3 {
		t.Fatalf("expected clamp to max position 3, got %+v ok=%v", s, ok)
	}

	d.Turn(-10)
	s, _ = d.Poll()
	if s.CurrentPosition != 0 {
		t.Errorf("expected clamp to min position 0, got %d", s.CurrentPosition)
	}

	d.Press()
	s, _ = d.Poll()
	if s.PressNonce != 1 {
		t.Errorf("expected nonce 1 after press, got %d", s.PressNonce)
	}
}
