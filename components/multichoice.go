package components

import (
	"sync"

	"smartknob-go/proto"
	"smartknob-go/types"
	"smartknob-go/x/mathx"
)

// MultipleChoice is an n-way selector with one detent per option.
type MultipleChoice struct {
	mu       sync.Mutex
	id       string
	name     string
	cfg      proto.MultiChoiceConfig
	selected int32
}

// NewMultipleChoice builds a fully configured selector. An empty option
// list degrades to a single unnamed choice.
func NewMultipleChoice(id, name string, cfg proto.MultiChoiceConfig) *MultipleChoice {
	m := &MultipleChoice{id: id, name: name, cfg: cfg}
	m.selected = mathx.Clamp(cfg.InitialIndex, 0, m.maxIndex())
	return m
}

func (m *MultipleChoice) ID() string          { return m.id }
func (m *MultipleChoice) DisplayName() string { return m.name }

func (m *MultipleChoice) maxIndex() int32 {
	if len(m.cfg.Options) == 0 {
		return 0
	}
	return int32(len(m.cfg.Options) - 1)
}

// Selected reports the current option index and label.
func (m *MultipleChoice) Selected() (int32, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if int(m.selected) < len(m.cfg.Options) {
		return m.selected, m.cfg.Options[m.selected]
	}
	return m.selected, ""
}

func (m *MultipleChoice) Update(st types.AppState) types.EntityStateUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := mathx.Clamp(st.Motor.CurrentPosition, 0, m.maxIndex())
	changed := idx != m.selected
	m.selected = idx

	label := ""
	if int(idx) < len(m.cfg.Options) {
		label = m.cfg.Options[idx]
	}
	return types.EntityStateUpdate{
		AppID:      m.id,
		EntityID:   m.id,
		State:      stateJSON(kvInt("index", idx), kvString("option", label)),
		Changed:    changed,
		PlayHaptic: changed,
	}
}

func (m *MultipleChoice) HandleNavigationEvent(types.NavigationEvent) {}

func (m *MultipleChoice) KnobConfig() types.KnobConfig {
	m.mu.Lock()
	defer m.mu.Unlock()

	detent := m.cfg.DetentStrengthUnit
	if detent == 0 {
		detent = 1
	}
	endstop := m.cfg.EndstopStrengthUnit
	if endstop == 0 {
		endstop = 1
	}
	return types.KnobConfig{
		ID:                   m.id,
		Position:             m.selected,
		MinPosition:          0,
		MaxPosition:          m.maxIndex(),
		PositionWidthRadians: 0.175, // 10 degrees per option
		DetentStrengthUnit:   detent,
		EndstopStrengthUnit:  endstop,
		SnapPoint:            1.1,
		LedHue:               m.cfg.LedHue,
	}
}
