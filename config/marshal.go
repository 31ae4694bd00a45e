package config

import (
	"strconv"

	"smartknob-go/types"
)

// Hand-rolled writers: allocation-light and identical output on host and MCU
// builds. Field names must stay in sync with the parse side.

func appendKV(b []byte, key string, first bool) []byte {
	if !first {
		b = append(b, ',')
	}
	b = append(b, '"')
	b = append(b, key...)
	return append(b, '"', ':')
}

func appendUint(b []byte, key string, v uint64, first bool) []byte {
	b = appendKV(b, key, first)
	return strconv.AppendUint(b, v, 10)
}

func appendBool(b []byte, key string, v bool, first bool) []byte {
	b = appendKV(b, key, first)
	return strconv.AppendBool(b, v)
}

func appendFloat(b []byte, key string, v float64, first bool) []byte {
	b = appendKV(b, key, first)
	return strconv.AppendFloat(b, v, 'g', -1, 32)
}

func appendString(b []byte, key, v string, first bool) []byte {
	b = appendKV(b, key, first)
	return strconv.AppendQuote(b, v)
}

func marshalSettings(s types.Settings) []byte {
	b := make([]byte, 0, 320)
	b = append(b, '{')

	b = appendKV(b, "screen", true)
	b = append(b, '{')
	b = appendBool(b, "dim", s.Screen.Dim, true)
	b = appendUint(b, "max_bright", uint64(s.Screen.MaxBright), false)
	b = appendUint(b, "min_bright", uint64(s.Screen.MinBright), false)
	b = appendUint(b, "timeout_ms", uint64(s.Screen.TimeoutMs), false)
	b = append(b, '}')

	b = appendKV(b, "led_ring", false)
	b = append(b, '{')
	b = appendBool(b, "enabled", s.LedRing.Enabled, true)
	b = appendBool(b, "dim", s.LedRing.Dim, false)
	b = appendUint(b, "max_bright", uint64(s.LedRing.MaxBright), false)
	b = appendUint(b, "min_bright", uint64(s.LedRing.MinBright), false)
	b = appendUint(b, "color", uint64(s.LedRing.Color), false)
	b = appendKV(b, "beacon", false)
	b = append(b, '{')
	b = appendBool(b, "enabled", s.LedRing.Beacon.Enabled, true)
	b = appendUint(b, "brightness", uint64(s.LedRing.Beacon.Brightness), false)
	b = appendUint(b, "color", uint64(s.LedRing.Beacon.Color), false)
	b = append(b, '}', '}', '}')

	return b
}

func marshalPersistent(c types.PersistentConfig) []byte {
	b := make([]byte, 0, 160)
	b = append(b, '{')
	b = appendUint(b, "version", uint64(c.Version), true)
	b = appendFloat(b, "motor_pole_zero", float64(c.MotorPoleZero), false)
	b = appendBool(b, "motor_direction_cw", c.MotorDirectionCW, false)
	b = appendFloat(b, "strain_scale", float64(c.StrainScale), false)
	b = appendString(b, "knob_id", c.KnobID, false)
	b = append(b, '}')
	return b
}
