package types

// -----------------------------------------------------------------------------
// Internal events
// -----------------------------------------------------------------------------

type ErrorType uint8

const (
	NoError ErrorType = iota
	ErrorReset
)

type EventType uint8

const (
	EventNone EventType = iota
	EventResetError
	EventDismissError
	EventResetButtonPressed
	EventResetButtonReleased
	EventConfigurationSaved
	EventSettingsChanged
	EventStrainCalibration
)

// Event is a lightweight notification passed between tasks that do not share
// a direct channel (configuration saves, error flow transitions).
type Event struct {
	Type            EventType `json:"type"`
	Error           ErrorType `json:"error,omitempty"`
	CalibrationStep uint8     `json:"calibration_step,omitempty"`
	SentAtMs        int64     `json:"sent_at_ms"`
}
