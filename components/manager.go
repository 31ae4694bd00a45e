package components

import (
	"sync"

	"smartknob-go/errcode"
	"smartknob-go/proto"
	"smartknob-go/protocol"
	"smartknob-go/services/root"
	"smartknob-go/types"
)

// Manager tracks the remote-configured components and which one currently
// owns the knob. It satisfies the orchestrator's component-source contract:
// input routes to a component only while the sample's config id names the
// active one.
type Manager struct {
	mu            sync.Mutex
	byID          map[string]Component
	activeID      string
	requestConfig func(types.KnobConfig) // feeds the motor config mailbox
}

// NewManager builds a manager. requestConfig must not block; the
// orchestrator's RequestMotorConfig qualifies.
func NewManager(requestConfig func(types.KnobConfig)) *Manager {
	return &Manager{
		byID:          make(map[string]Component),
		requestConfig: requestConfig,
	}
}

// Apply creates or reconfigures a component from a host message and makes
// it the active one.
func (m *Manager) Apply(ac proto.AppComponent) error {
	if ac.ComponentID == "" {
		return errcode.InvalidParams
	}

	var c Component
	switch ac.Type {
	case proto.ComponentToggle:
		if ac.Toggle == nil {
			return errcode.InvalidPayload
		}
		c = NewToggle(ac.ComponentID, ac.DisplayName, *ac.Toggle)
	case proto.ComponentMultiChoice:
		if ac.MultiChoice == nil {
			return errcode.InvalidPayload
		}
		c = NewMultipleChoice(ac.ComponentID, ac.DisplayName, *ac.MultiChoice)
	default:
		println("[components] unknown component type:", int(ac.Type))
		return errcode.UnknownComponent
	}

	m.mu.Lock()
	m.byID[ac.ComponentID] = c
	m.activeID = ac.ComponentID
	req := m.requestConfig
	m.mu.Unlock()

	println("[components] active:", ac.ComponentID)
	if req != nil {
		req(c.KnobConfig())
	}
	return nil
}

// Activate hands the knob to an existing component.
func (m *Manager) Activate(id string) error {
	m.mu.Lock()
	c, ok := m.byID[id]
	if ok {
		m.activeID = id
	}
	req := m.requestConfig
	m.mu.Unlock()

	if !ok {
		return errcode.UnknownComponent
	}
	if req != nil {
		req(c.KnobConfig())
	}
	return nil
}

// Deactivate releases the knob back to the app registry.
func (m *Manager) Deactivate() {
	m.mu.Lock()
	m.activeID = ""
	m.mu.Unlock()
}

// Remove destroys a component, releasing the knob if it was active.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.byID, id)
	if m.activeID == id {
		m.activeID = ""
	}
	m.mu.Unlock()
}

// ActiveSurface reports the active component, and only when configID shows
// the motor is actually running its profile. During the handover window
// (config requested, motor not yet switched) input stays with the apps.
func (m *Manager) ActiveSurface(configID string) (root.InputSurface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeID == "" || configID != m.activeID {
		return nil, false
	}
	c, ok := m.byID[m.activeID]
	if !ok {
		return nil, false
	}
	return c, true
}

// Bind registers the component message handler. Like the orchestrator's
// handlers it runs on the transport goroutine; Apply is mutex-guarded and
// only pushes into the motor config mailbox.
func (m *Manager) Bind(reg *protocol.Registry) {
	reg.RegisterTagCallback(proto.TagAppComponent, func(msg proto.ToSmartknob) {
		if msg.AppComponent == nil {
			return
		}
		if err := m.Apply(*msg.AppComponent); err != nil {
			println("[components] apply failed:", err.Error())
		}
	})
}

// Get looks up a component by id.
func (m *Manager) Get(id string) (Component, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	return c, ok
}
