// Package components implements the remote-configured input components: a
// host describes a control (toggle, multiple choice) over the serial link,
// the knob renders its detent profile, and rotations map back onto entity
// state updates the host can consume.
package components

import (
	"smartknob-go/services/root"
	"smartknob-go/types"
)

// Component is one remote-configured control. It owns the knob while the
// motor runs its config, so it doubles as an input surface.
type Component interface {
	root.InputSurface
	ID() string
	DisplayName() string
	// KnobConfig returns the detent profile this component wants.
	KnobConfig() types.KnobConfig
}

// stateJSON builds the tiny JSON payloads carried in EntityStateUpdate.
// Keys and values are trusted (component-internal), so no escaping beyond
// strings we generate ourselves.
func stateJSON(pairs ...func([]byte) []byte) string {
	b := make([]byte, 0, 48)
	b = append(b, '{')
	for i, p := range pairs {
		if i > 0 {
			b = append(b, ',')
		}
		b = p(b)
	}
	b = append(b, '}')
	return string(b)
}

func kvBool(key string, v bool) func([]byte) []byte {
	return func(b []byte) []byte {
		b = appendKey(b, key)
		if v {
			return append(b, "true"...)
		}
		return append(b, "false"...)
	}
}

func kvString(key, v string) func([]byte) []byte {
	return func(b []byte) []byte {
		b = appendKey(b, key)
		b = append(b, '"')
		b = append(b, v...)
		return append(b, '"')
	}
}

func kvInt(key string, v int32) func([]byte) []byte {
	return func(b []byte) []byte {
		b = appendKey(b, key)
		return appendInt(b, v)
	}
}

func appendKey(b []byte, key string) []byte {
	b = append(b, '"')
	b = append(b, key...)
	return append(b, '"', ':')
}

func appendInt(b []byte, v int32) []byte {
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	var tmp [11]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return append(b, tmp[i:]...)
}
