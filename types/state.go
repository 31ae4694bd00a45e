package types

// -----------------------------------------------------------------------------
// Aggregate application state
// -----------------------------------------------------------------------------

// ScreenState tracks wake/dim hysteresis for the display.
// AwakeUntil is a deadline in Unix milliseconds; it is only ever extended,
// never retracted, and expires implicitly once now passes it.
type ScreenState struct {
	AwakeUntilMs   int64  `json:"awake_until_ms"`
	HasBeenEngaged bool   `json:"has_been_engaged"`
	Brightness     uint16 `json:"brightness"`
}

// ProximityState is the latest time-of-flight reading, overwritten wholesale
// on each sensor sample. No history is retained.
type ProximityState struct {
	RangeMM     uint16 `json:"range_mm"`
	RangeStatus uint8  `json:"range_status"`
}

// AppState is the aggregate snapshot owned exclusively by the root task.
// It is mutated once per tick and published to listeners as a value copy.
type AppState struct {
	Screen    ScreenState    `json:"screen"`
	Proximity ProximityState `json:"proximity"`
	Motor     KnobState      `json:"motor"`
	OSMode    OSMode         `json:"os_mode"`
}

// EntityStateUpdate is what the active input surface (app or component)
// reports back after consuming a knob sample.
type EntityStateUpdate struct {
	AppID      string `json:"app_id"`
	EntityID   string `json:"entity_id"`
	State      string `json:"state"` // JSON payload, surface-specific
	Changed    bool   `json:"changed"`
	PlayHaptic bool   `json:"play_haptic"`
}

// -----------------------------------------------------------------------------
// Sensors
// -----------------------------------------------------------------------------

// VirtualButtonCode is the strain-derived press/release state.
type VirtualButtonCode uint8

const (
	VirtualButtonIdle VirtualButtonCode = iota
	VirtualButtonShortPressed
	VirtualButtonLongPressed
	VirtualButtonShortReleased
	VirtualButtonLongReleased
)

type StrainState struct {
	VirtualButtonCode VirtualButtonCode `json:"virtual_button_code"`
	RawGrams          float32           `json:"raw_grams"`
}

type IlluminationState struct {
	Lux    float32 `json:"lux"`
	LuxAdj float32 `json:"lux_adj"` // normalised to [0,1]
}

// SensorsSample is one batch of raw readings from the sensors task.
type SensorsSample struct {
	Proximity    ProximityState    `json:"proximity"`
	Strain       StrainState       `json:"strain"`
	Illumination IlluminationState `json:"illumination"`
}

// -----------------------------------------------------------------------------
// Navigation / OS mode
// -----------------------------------------------------------------------------

type NavigationEvent uint8

const (
	NavigationNone NavigationEvent = iota
	NavigationShort
	NavigationLong
)

type OSMode uint8

const (
	OSModeOnboarding OSMode = iota
	OSModeRunning
)

// -----------------------------------------------------------------------------
// LED ring effects
// -----------------------------------------------------------------------------

type EffectType uint8

const (
	EffectLedsOff EffectType = iota
	EffectToBrightness
	EffectLighthouse
)

// EffectSettings fully describes the ring output for one tick. The root task
// recomputes it unconditionally every tick and pushes a full replacement; the
// ring task never diffs.
type EffectSettings struct {
	Type        EffectType `json:"type"`
	StartPixel  int        `json:"start_pixel"`
	EndPixel    int        `json:"end_pixel"`
	AccentPixel int        `json:"accent_pixel"`
	MainColor   uint32     `json:"main_color"`
	AccentColor uint32     `json:"accent_color"`
	Brightness  uint16     `json:"brightness"`
}
