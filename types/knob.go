package types

// -----------------------------------------------------------------------------
// Knob samples and motor configuration
// -----------------------------------------------------------------------------

// KnobState is one position sample produced by the motor task. It is
// overwritten wholesale on every receive; the orchestrator keeps only the
// latest one and uses it for "has anything changed" comparisons.
type KnobState struct {
	CurrentPosition int32   `json:"current_position"`
	SubPositionUnit float32 `json:"sub_position_unit"`
	ConfigID        string  `json:"config_id"`
	PressNonce      uint32  `json:"press_nonce"`
}

// KnobConfig describes the detent profile the motor task should render.
type KnobConfig struct {
	Position             int32   `json:"position"`
	SubPositionUnit      float32 `json:"sub_position_unit"`
	PositionNonce        uint8   `json:"position_nonce"`
	MinPosition          int32   `json:"min_position"`
	MaxPosition          int32   `json:"max_position"`
	PositionWidthRadians float32 `json:"position_width_radians"`
	DetentStrengthUnit   float32 `json:"detent_strength_unit"`
	EndstopStrengthUnit  float32 `json:"endstop_strength_unit"`
	SnapPoint            float32 `json:"snap_point"`
	ID                   string  `json:"id"`
	IDNonce              uint8   `json:"id_nonce"`
	DetentPositions      []int32 `json:"detent_positions,omitempty"`
	LedHue               int32   `json:"led_hue"`
}

// PersistentConfig holds factory calibration data that survives resets.
// Version 0 means "never written".
type PersistentConfig struct {
	Version          uint32  `json:"version"`
	MotorPoleZero    float32 `json:"motor_pole_zero"`
	MotorDirectionCW bool    `json:"motor_direction_cw"`
	StrainScale      float32 `json:"strain_scale"`
	KnobID           string  `json:"knob_id"`
}

// Knob is the device identity blob sent in reply to a knob-info request.
type Knob struct {
	MacAddress       string            `json:"mac_address"`
	IPAddress        string            `json:"ip_address"`
	PersistentConfig *PersistentConfig `json:"persistent_config,omitempty"`
	Settings         *Settings         `json:"settings,omitempty"`
}
