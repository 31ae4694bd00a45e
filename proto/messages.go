// Package proto defines the message shapes carried over the serial link.
// Framing (COBS, CRC32) lives with the transport, not here.
package proto

import "smartknob-go/types"

// Tag selects the payload variant of a ToSmartknob message.
type Tag uint8

const (
	TagNone Tag = iota
	TagRequestState
	TagSettings
	TagConfig
	TagCommand
	TagStrainCalibration
	TagAppComponent
)

// Command is a payload-free instruction.
type Command uint8

const (
	CommandGetKnobInfo Command = iota
	CommandMotorCalibrate
)

type StrainCalibration struct {
	CalibrationWeight float32 `json:"calibration_weight"`
}

// -----------------------------------------------------------------------------
// Dynamic components
// -----------------------------------------------------------------------------

type ComponentType uint8

const (
	ComponentToggle ComponentType = iota
	ComponentMultiChoice
)

type ToggleConfig struct {
	OnLabel   string `json:"on_label"`
	OffLabel  string `json:"off_label"`
	OnLedHue  int32  `json:"on_led_hue"`
	OffLedHue int32  `json:"off_led_hue"`
	Pressed   bool   `json:"initial_pressed"`
}

type MultiChoiceConfig struct {
	Options             []string `json:"options"`
	InitialIndex        int32    `json:"initial_index"`
	DetentStrengthUnit  float32  `json:"detent_strength_unit"`
	EndstopStrengthUnit float32  `json:"endstop_strength_unit"`
	LedHue              int32    `json:"led_hue"`
}

// AppComponent configures one remote-controlled component. Exactly one of
// the per-type config blocks matches Type.
type AppComponent struct {
	ComponentID string             `json:"component_id"`
	DisplayName string             `json:"display_name"`
	Type        ComponentType      `json:"type"`
	Toggle      *ToggleConfig      `json:"toggle,omitempty"`
	MultiChoice *MultiChoiceConfig `json:"multi_choice,omitempty"`
}

// -----------------------------------------------------------------------------
// Envelopes
// -----------------------------------------------------------------------------

// ToSmartknob is a host-to-knob message. Tag says which pointer is set.
type ToSmartknob struct {
	ProtocolVersion uint8
	Nonce           uint32
	Tag             Tag

	Settings          *types.Settings
	Config            *types.KnobConfig
	Command           Command
	StrainCalibration *StrainCalibration
	AppComponent      *AppComponent
}

type Ack struct {
	Nonce uint32
}

// FromSmartknob is a knob-to-host message.
type FromSmartknob struct {
	ProtocolVersion uint8

	State *types.KnobState
	Knob  *types.Knob
	Ack   *Ack
	Log   string
}
