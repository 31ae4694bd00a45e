package components

import (
	"testing"

	"smartknob-go/errcode"
	"smartknob-go/proto"
	"smartknob-go/types"
)

func knobAt(pos int32) types.AppState {
	return types.AppState{Motor: types.KnobState{CurrentPosition: pos}}
}

func TestToggleFlipsOnPositionChange(t *testing.T) {
	tg := NewToggle("light", "Light", proto.ToggleConfig{})

	up := tg.Update(knobAt(1))
	if !up.Changed || !up.PlayHaptic || !tg.On() {
		t.Fatalf("turn on: %+v on=%v", up, tg.On())
	}
	if up.State != `{"on":true}` {
		t.Errorf("state = %s", up.State)
	}

	up = tg.Update(knobAt(1))
	if up.Changed {
		t.Error("same position must not report a change")
	}

	up = tg.Update(knobAt(0))
	if !up.Changed || tg.On() {
		t.Fatalf("turn off: %+v on=%v", up, tg.On())
	}
	if up.State != `{"on":false}` {
		t.Errorf("state = %s", up.State)
	}
}

func TestToggleKnobConfigTracksState(t *testing.T) {
	tg := NewToggle("light", "Light", proto.ToggleConfig{OnLedHue: 120, OffLedHue: 0, Pressed: true})

	cfg := tg.KnobConfig()
	if cfg.Position != 1 || cfg.LedHue != 120 {
		t.Errorf("on config = %+v", cfg)
	}
	tg.Update(knobAt(0))
	cfg = tg.KnobConfig()
	if cfg.Position != 0 || cfg.LedHue != 0 {
		t.Errorf("off config = %+v", cfg)
	}
	if cfg.MinPosition != 0 || cfg.MaxPosition != 1 {
		t.Errorf("bounds = [%d,%d], want [0,1]", cfg.MinPosition, cfg.MaxPosition)
	}
}

func TestMultipleChoiceSelection(t *testing.T) {
	mc := NewMultipleChoice("mode", "Mode", proto.MultiChoiceConfig{
		Options:      []string{"eco", "comfort", "boost"},
		InitialIndex: 1,
	})

	if idx, label := mc.Selected(); idx != 1 || label != "comfort" {
		t.Fatalf("initial selection = %d %q", idx, label)
	}

	up := mc.Update(knobAt(2))
	if !up.Changed || up.State != `{"index":2,"option":"boost"}` {
		t.Fatalf("select boost: %+v", up)
	}

	// Positions past the end clamp to the last option.
	up = mc.Update(knobAt(9))
	if up.Changed {
		t.Errorf("clamped position must not change the selection: %+v", up)
	}

	cfg := mc.KnobConfig()
	if cfg.MaxPosition != 2 || cfg.Position != 2 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestManagerApplyAndRouting(t *testing.T) {
	var pushed []types.KnobConfig
	m := NewManager(func(c types.KnobConfig) { pushed = append(pushed, c) })

	err := m.Apply(proto.AppComponent{
		ComponentID: "light",
		DisplayName: "Light",
		Type:        proto.ComponentToggle,
		Toggle:      &proto.ToggleConfig{},
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(pushed) != 1 || pushed[0].ID != "light" {
		t.Fatalf("expected the toggle profile pushed, got %v", pushed)
	}

	// The component only owns input once the sample carries its config id.
	if _, ok := m.ActiveSurface("menu"); ok {
		t.Error("component must not own input during the handover window")
	}
	s, ok := m.ActiveSurface("light")
	if !ok {
		t.Fatal("expected the component to own input for its config id")
	}
	up := s.Update(knobAt(1))
	if up.EntityID != "light" {
		t.Errorf("routed update = %+v", up)
	}
}

func TestManagerApplyRejectsBadMessages(t *testing.T) {
	m := NewManager(nil)

	if err := m.Apply(proto.AppComponent{Type: proto.ComponentToggle}); err != errcode.InvalidParams {
		t.Errorf("missing id: %v", err)
	}
	if err := m.Apply(proto.AppComponent{ComponentID: "x", Type: proto.ComponentToggle}); err != errcode.InvalidPayload {
		t.Errorf("missing toggle block: %v", err)
	}
	if err := m.Apply(proto.AppComponent{ComponentID: "x", Type: proto.ComponentType(99)}); err != errcode.UnknownComponent {
		t.Errorf("unknown type: %v", err)
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(nil)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(m.Apply(proto.AppComponent{ComponentID: "a", Type: proto.ComponentToggle, Toggle: &proto.ToggleConfig{}}))
	must(m.Apply(proto.AppComponent{ComponentID: "b", Type: proto.ComponentToggle, Toggle: &proto.ToggleConfig{}}))

	must(m.Activate("a"))
	if _, ok := m.ActiveSurface("a"); !ok {
		t.Fatal("expected a active")
	}

	m.Deactivate()
	if _, ok := m.ActiveSurface("a"); ok {
		t.Fatal("expected no active component after deactivate")
	}

	m.Remove("a")
	if err := m.Activate("a"); err != errcode.UnknownComponent {
		t.Errorf("activate removed: %v", err)
	}
}
