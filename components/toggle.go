package components

import (
	"sync"

	"smartknob-go/proto"
	"smartknob-go/types"
)

// Toggle is a two-position switch. Position 0 is off, 1 is on; the snap
// point sits past the midpoint so the knob falls firmly into either state.
type Toggle struct {
	mu   sync.Mutex
	id   string
	name string
	cfg  proto.ToggleConfig
	on   bool
}

// NewToggle builds a fully configured toggle.
func NewToggle(id, name string, cfg proto.ToggleConfig) *Toggle {
	return &Toggle{id: id, name: name, cfg: cfg, on: cfg.Pressed}
}

func (t *Toggle) ID() string          { return t.id }
func (t *Toggle) DisplayName() string { return t.name }

// On reports the current switch state.
func (t *Toggle) On() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.on
}

func (t *Toggle) Update(st types.AppState) types.EntityStateUpdate {
	t.mu.Lock()
	defer t.mu.Unlock()

	on := st.Motor.CurrentPosition > 0
	changed := on != t.on
	t.on = on

	return types.EntityStateUpdate{
		AppID:      t.id,
		EntityID:   t.id,
		State:      stateJSON(kvBool("on", on)),
		Changed:    changed,
		PlayHaptic: changed,
	}
}

func (t *Toggle) HandleNavigationEvent(types.NavigationEvent) {
	// A toggle has no nested navigation.
}

func (t *Toggle) KnobConfig() types.KnobConfig {
	t.mu.Lock()
	defer t.mu.Unlock()

	pos := int32(0)
	hue := t.cfg.OffLedHue
	if t.on {
		pos = 1
		hue = t.cfg.OnLedHue
	}
	return types.KnobConfig{
		ID:                   t.id,
		Position:             pos,
		MinPosition:          0,
		MaxPosition:          1,
		PositionWidthRadians: 1.047, // 60 degrees of travel between the states
		DetentStrengthUnit:   1.5,
		EndstopStrengthUnit:  1,
		SnapPoint:            0.55,
		LedHue:               hue,
	}
}
