package config

import (
	"testing"

	"smartknob-go/bus"
	"smartknob-go/types"
)

func TestLoadDefaults(t *testing.T) {
	c := New(NewMemStore(), nil)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.IsLoaded() {
		t.Fatal("expected IsLoaded after Load")
	}

	s := c.GetSettings()
	want := types.DefaultSettings()
	if s != want {
		t.Errorf("default settings mismatch:\n got %+v\nwant %+v", s, want)
	}
	if got := c.Get(); got.Version != 0 {
		t.Errorf("expected unwritten persistent config (version 0), got %d", got.Version)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := NewMemStore()
	c := New(store, nil)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := c.GetSettings()
	s.Screen.Dim = false
	s.Screen.TimeoutMs = 12000
	s.LedRing.Beacon.Enabled = false
	s.LedRing.Color = 0xFF00FF
	if err := c.SetSettings(s); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}

	// A fresh Configuration over the same store must see the saved values.
	c2 := New(store, nil)
	if err := c2.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := c2.GetSettings(); got != s {
		t.Errorf("settings round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestPersistentConfigRoundTrip(t *testing.T) {
	store := NewMemStore()
	c := New(store, nil)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := c.SaveFactoryStrainCalibration(1.25); err != nil {
		t.Fatalf("SaveFactoryStrainCalibration: %v", err)
	}
	if err := c.SetMotorCalibration(3.5, true); err != nil {
		t.Fatalf("SetMotorCalibration: %v", err)
	}

	c2 := New(store, nil)
	if err := c2.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	pc := c2.Get()
	if pc.Version == 0 {
		t.Error("expected version bump after first save")
	}
	if pc.StrainScale != 1.25 || pc.MotorPoleZero != 3.5 || !pc.MotorDirectionCW {
		t.Errorf("persistent config mismatch: %+v", pc)
	}
}

func TestOSConfigurationPersistence(t *testing.T) {
	store := NewMemStore()
	c := New(store, nil)
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	c.SaveOSConfigurationInMemory(OSConfiguration{Mode: types.OSModeRunning})
	if got := c.GetOSConfiguration().Mode; got != types.OSModeRunning {
		t.Fatalf("in-memory OS mode = %d", got)
	}

	// In-memory save must not persist.
	c2 := New(store, nil)
	_ = c2.Load()
	if got := c2.GetOSConfiguration().Mode; got != types.OSModeOnboarding {
		t.Errorf("expected default mode after in-memory-only save, got %d", got)
	}

	if err := c.SaveOSConfiguration(OSConfiguration{Mode: types.OSModeRunning}); err != nil {
		t.Fatalf("SaveOSConfiguration: %v", err)
	}
	c3 := New(store, nil)
	_ = c3.Load()
	if got := c3.GetOSConfiguration().Mode; got != types.OSModeRunning {
		t.Errorf("expected persisted RUNNING mode, got %d", got)
	}
}

func TestSettingsChangedEvent(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("config-test")
	sub := conn.Subscribe(TopicEvents)

	c := New(NewMemStore(), b.NewConnection("config"))
	if err := c.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.SetSettings(c.GetSettings()); err != nil {
		t.Fatalf("SetSettings: %v", err)
	}

	m, ok := sub.TryRecv()
	if !ok {
		t.Fatal("expected settings-changed event on the bus")
	}
	ev, ok := m.Payload.(types.Event)
	if !ok || ev.Type != types.EventSettingsChanged {
		t.Errorf("unexpected event payload: %+v", m.Payload)
	}
}

func TestKnobIDFallback(t *testing.T) {
	c := New(NewMemStore(), nil)
	_ = c.Load()
	if id := c.KnobID(); id != "smartknob-dev" {
		t.Errorf("expected development id fallback, got %q", id)
	}
}
