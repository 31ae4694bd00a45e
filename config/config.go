package config

import (
	"sync"

	"smartknob-go/bus"
	"smartknob-go/errcode"
	"smartknob-go/types"
	"smartknob-go/x/timex"

	"github.com/andreyvit/tinyjson"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	settingsFile = "settings.json"
	configFile   = "config.json"
	osModeFile   = "os_mode"
)

// TopicEvents carries types.Event notifications (settings changed,
// configuration saved, strain calibration steps).
var TopicEvents = bus.T("config", "events")

// OSConfiguration is the small operating-mode block kept in its own slot so
// it can be rewritten without touching settings.
type OSConfiguration struct {
	Mode types.OSMode
}

// Configuration owns persisted settings and factory calibration. All access
// goes through the mutex; tasks other than the owner only call the narrow
// getters. The loaded flag doubles as the orchestrator's startup gate.
type Configuration struct {
	mu    sync.Mutex
	store Store
	conn  *bus.Connection // may be nil (tests)

	loaded         bool
	settingsLoaded bool

	settings types.Settings
	config   types.PersistentConfig
	osConfig OSConfiguration
}

// New creates a Configuration bound to a store. conn may be nil; events are
// then dropped.
func New(store Store, conn *bus.Connection) *Configuration {
	return &Configuration{
		store:    store,
		conn:     conn,
		settings: types.DefaultSettings(),
	}
}

// Load reads settings and persistent config from the store, falling back to
// embedded defaults for settings. It is idempotent.
func (c *Configuration) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	raw, ok := c.store.Read(settingsFile)
	if !ok {
		raw = []byte(defaultSettingsJSON)
	}
	if s, err := parseSettings(raw); err == nil {
		c.settings = s
		c.settingsLoaded = true
	} else {
		println("[config] settings parse failed, using defaults:", err.Error())
		c.settings = types.DefaultSettings()
	}

	if raw, ok := c.store.Read(configFile); ok {
		if pc, err := parsePersistent(raw); err == nil {
			c.config = pc
		} else {
			println("[config] persistent config parse failed:", err.Error())
		}
	}

	c.loadOSConfigurationLocked()
	c.loaded = true
	return nil
}

// IsLoaded reports whether Load has completed. The root task polls this at
// startup before entering its steady-state loop.
func (c *Configuration) IsLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Get returns the persistent (factory) configuration.
func (c *Configuration) Get() types.PersistentConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config
}

// GetSettings returns the current user settings.
func (c *Configuration) GetSettings() types.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// SetSettings persists new settings and announces the change.
func (c *Configuration) SetSettings(s types.Settings) error {
	c.mu.Lock()
	c.settings = s
	c.settingsLoaded = true
	err := c.store.Write(settingsFile, marshalSettings(s))
	c.mu.Unlock()
	if err != nil {
		println("[config] settings write failed:", err.Error())
		return &errcode.E{C: errcode.StoreFailed, Op: "SetSettings", Err: err}
	}
	c.publishEvent(types.Event{Type: types.EventSettingsChanged})
	return nil
}

// SaveFactoryStrainCalibration stores the strain scale determined during
// factory calibration and bumps the config version.
func (c *Configuration) SaveFactoryStrainCalibration(scale float32) error {
	c.mu.Lock()
	c.config.StrainScale = scale
	if c.config.Version == 0 {
		c.config.Version = 1
	}
	err := c.store.Write(configFile, marshalPersistent(c.config))
	c.mu.Unlock()
	if err != nil {
		return &errcode.E{C: errcode.StoreFailed, Op: "SaveFactoryStrainCalibration", Err: err}
	}
	c.publishEvent(types.Event{Type: types.EventConfigurationSaved})
	return nil
}

// SetMotorCalibration stores motor calibration results.
func (c *Configuration) SetMotorCalibration(poleZero float32, directionCW bool) error {
	c.mu.Lock()
	c.config.MotorPoleZero = poleZero
	c.config.MotorDirectionCW = directionCW
	if c.config.Version == 0 {
		c.config.Version = 1
	}
	err := c.store.Write(configFile, marshalPersistent(c.config))
	c.mu.Unlock()
	if err != nil {
		return &errcode.E{C: errcode.StoreFailed, Op: "SetMotorCalibration", Err: err}
	}
	c.publishEvent(types.Event{Type: types.EventConfigurationSaved})
	return nil
}

// LoadOSConfiguration (re)reads the operating mode from the store.
func (c *Configuration) LoadOSConfiguration() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadOSConfigurationLocked()
}

func (c *Configuration) loadOSConfigurationLocked() {
	if raw, ok := c.store.Read(osModeFile); ok && len(raw) >= 1 {
		c.osConfig.Mode = types.OSMode(raw[0])
	}
}

// GetOSConfiguration returns the current operating-mode block.
func (c *Configuration) GetOSConfiguration() OSConfiguration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.osConfig
}

// SaveOSConfigurationInMemory updates the mode without persisting it.
func (c *Configuration) SaveOSConfigurationInMemory(os OSConfiguration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.osConfig = os
}

// SaveOSConfiguration updates the mode and persists it.
func (c *Configuration) SaveOSConfiguration(os OSConfiguration) error {
	c.mu.Lock()
	c.osConfig = os
	err := c.store.Write(osModeFile, []byte{byte(os.Mode)})
	c.mu.Unlock()
	if err != nil {
		return &errcode.E{C: errcode.StoreFailed, Op: "SaveOSConfiguration", Err: err}
	}
	return nil
}

// KnobID returns the device identifier, or a fixed development id when the
// factory blob was never written.
func (c *Configuration) KnobID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config.KnobID != "" {
		return c.config.KnobID
	}
	return "smartknob-dev"
}

func (c *Configuration) publishEvent(ev types.Event) {
	if c.conn == nil {
		return
	}
	ev.SentAtMs = timex.NowMs()
	c.conn.Publish(c.conn.NewMessage(TopicEvents, ev, false))
}

// -----------------------------------------------------------------------------
// JSON codec (tinyjson reader, hand-rolled writer)
// -----------------------------------------------------------------------------

func parseSettings(raw []byte) (types.Settings, error) {
	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return types.Settings{}, errcode.InvalidPayload
	}

	s := types.DefaultSettings()
	if sc := obj(m, "screen"); sc != nil {
		s.Screen.Dim = boolOr(sc, "dim", s.Screen.Dim)
		s.Screen.MaxBright = uint16(numOr(sc, "max_bright", float64(s.Screen.MaxBright)))
		s.Screen.MinBright = uint16(numOr(sc, "min_bright", float64(s.Screen.MinBright)))
		s.Screen.TimeoutMs = uint32(numOr(sc, "timeout_ms", float64(s.Screen.TimeoutMs)))
	}
	if lr := obj(m, "led_ring"); lr != nil {
		s.LedRing.Enabled = boolOr(lr, "enabled", s.LedRing.Enabled)
		s.LedRing.Dim = boolOr(lr, "dim", s.LedRing.Dim)
		s.LedRing.MaxBright = uint16(numOr(lr, "max_bright", float64(s.LedRing.MaxBright)))
		s.LedRing.MinBright = uint16(numOr(lr, "min_bright", float64(s.LedRing.MinBright)))
		s.LedRing.Color = uint32(numOr(lr, "color", float64(s.LedRing.Color)))
		if bc := obj(lr, "beacon"); bc != nil {
			s.LedRing.Beacon.Enabled = boolOr(bc, "enabled", s.LedRing.Beacon.Enabled)
			s.LedRing.Beacon.Brightness = uint16(numOr(bc, "brightness", float64(s.LedRing.Beacon.Brightness)))
			s.LedRing.Beacon.Color = uint32(numOr(bc, "color", float64(s.LedRing.Beacon.Color)))
		}
	}
	return s, nil
}

func parsePersistent(raw []byte) (types.PersistentConfig, error) {
	r := tinyjson.Raw(raw)
	val := r.Value()
	r.EnsureEOF()

	m, ok := val.(map[string]any)
	if !ok {
		return types.PersistentConfig{}, errcode.InvalidPayload
	}
	var pc types.PersistentConfig
	pc.Version = uint32(numOr(m, "version", 0))
	pc.MotorPoleZero = float32(numOr(m, "motor_pole_zero", 0))
	pc.MotorDirectionCW = boolOr(m, "motor_direction_cw", false)
	pc.StrainScale = float32(numOr(m, "strain_scale", 0))
	pc.KnobID = strOr(m, "knob_id", "")
	return pc, nil
}

func obj(m map[string]any, k string) map[string]any {
	v, _ := m[k].(map[string]any)
	return v
}

func numOr(m map[string]any, k string, def float64) float64 {
	if v, ok := m[k].(float64); ok {
		return v
	}
	return def
}

func boolOr(m map[string]any, k string, def bool) bool {
	if v, ok := m[k].(bool); ok {
		return v
	}
	return def
}

func strOr(m map[string]any, k string, def string) string {
	if v, ok := m[k].(string); ok {
		return v
	}
	return def
}
