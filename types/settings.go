package types

// -----------------------------------------------------------------------------
// User settings (persisted)
// -----------------------------------------------------------------------------

type ScreenSettings struct {
	Dim       bool   `json:"dim"`
	MaxBright uint16 `json:"max_bright"`
	MinBright uint16 `json:"min_bright"`
	TimeoutMs uint32 `json:"timeout_ms"`
}

type BeaconSettings struct {
	Enabled    bool   `json:"enabled"`
	Brightness uint16 `json:"brightness"`
	Color      uint32 `json:"color"`
}

type LedRingSettings struct {
	Enabled   bool           `json:"enabled"`
	Dim       bool           `json:"dim"`
	MaxBright uint16         `json:"max_bright"`
	MinBright uint16         `json:"min_bright"`
	Color     uint32         `json:"color"`
	Beacon    BeaconSettings `json:"beacon"`
}

type Settings struct {
	Screen  ScreenSettings  `json:"screen"`
	LedRing LedRingSettings `json:"led_ring"`
}

// DefaultSettings mirrors the factory defaults burned into the firmware.
func DefaultSettings() Settings {
	return Settings{
		Screen: ScreenSettings{
			Dim:       true,
			MaxBright: 65535,
			MinBright: 19661,
			TimeoutMs: 30000,
		},
		LedRing: LedRingSettings{
			Enabled:   true,
			Dim:       true,
			MaxBright: 65535,
			MinBright: 19661,
			Color:     16754176,
			Beacon: BeaconSettings{
				Enabled:    true,
				Brightness: 19661,
				Color:      16754176,
			},
		},
	}
}
