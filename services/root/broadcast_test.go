package root

import (
	"testing"

	"smartknob-go/types"
)

func TestThrottleIntervalGate(t *testing.T) {
	b := broadcastThrottle{enabled: true, threshold: 0.1}
	b.setRateHz(10)
	if b.minIntervalMs != 100 {
		t.Fatalf("minIntervalMs = %d, want 100", b.minIntervalMs)
	}

	first := types.KnobState{SubPositionUnit: 0.5}
	second := types.KnobState{SubPositionUnit: 1.0}

	if !b.shouldBroadcast(1000, first) {
		t.Fatal("expected broadcast on first movement")
	}
	b.markSent(1000, first)

	// 50 ms later: meaningful delta but inside the interval.
	if b.shouldBroadcast(1050, second) {
		t.Error("expected suppression inside min interval")
	}

	// 150 ms later: same delta, interval elapsed.
	if !b.shouldBroadcast(1150, second) {
		t.Error("expected broadcast after min interval")
	}
}

func TestThrottleChangeGate(t *testing.T) {
	b := broadcastThrottle{enabled: true, threshold: 0.1, minIntervalMs: 100}

	base := types.KnobState{SubPositionUnit: 0.0, PressNonce: 1, ConfigID: "volume"}
	b.markSent(1000, base)

	// No change at all: silent.
	if b.shouldBroadcast(2000, base) {
		t.Error("expected no broadcast without change")
	}

	// Sub-threshold movement: silent.
	small := base
	small.SubPositionUnit = 0.05
	if b.shouldBroadcast(2000, small) {
		t.Error("expected no broadcast below movement threshold")
	}

	moved := base
	moved.SubPositionUnit = -0.2
	if !b.shouldBroadcast(2000, moved) {
		t.Error("expected broadcast on movement (absolute delta)")
	}

	pressed := base
	pressed.PressNonce = 2
	if !b.shouldBroadcast(2000, pressed) {
		t.Error("expected broadcast on press nonce change")
	}

	switched := base
	switched.ConfigID = "lights"
	if !b.shouldBroadcast(2000, switched) {
		t.Error("expected broadcast on config id change")
	}
}

func TestThrottleDisabled(t *testing.T) {
	b := broadcastThrottle{enabled: false, threshold: 0.1, minIntervalMs: 100}
	if b.shouldBroadcast(99999, types.KnobState{SubPositionUnit: 5}) {
		t.Error("disabled throttle must never broadcast")
	}
}
