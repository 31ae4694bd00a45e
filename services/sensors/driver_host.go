//go:build !(rp2040 || rp2350)

package sensors

import (
	"sync"

	"smartknob-go/types"
)

// HostSensors is the host-build stand-in for the I2C sensor set: values are
// injected programmatically and read back through the same seams the
// hardware readers implement. Tests and the demo entry point use it.
type HostSensors struct {
	mu        sync.Mutex
	prox      types.ProximityState
	lux       float32
	raw       int32
	powered   bool
	powerUps  int
	powerDown int
}

func NewHostSensors() *HostSensors {
	return &HostSensors{prox: types.ProximityState{RangeMM: 65535, RangeStatus: 255}}
}

func (h *HostSensors) SetProximity(p types.ProximityState) {
	h.mu.Lock()
	h.prox = p
	h.mu.Unlock()
}

func (h *HostSensors) SetLux(lux float32) {
	h.mu.Lock()
	h.lux = lux
	h.mu.Unlock()
}

func (h *HostSensors) SetRawStrain(raw int32) {
	h.mu.Lock()
	h.raw = raw
	h.mu.Unlock()
}

func (h *HostSensors) ReadProximity() (types.ProximityState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.prox, nil
}

func (h *HostSensors) ReadLux() (float32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lux, nil
}

func (h *HostSensors) ReadRaw() (int32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.raw, nil
}

func (h *HostSensors) PowerUp() {
	h.mu.Lock()
	h.powered = true
	h.powerUps++
	h.mu.Unlock()
}

func (h *HostSensors) PowerDown() {
	h.mu.Lock()
	h.powered = false
	h.powerDown++
	h.mu.Unlock()
}

// PowerCycles reports how often each transition was requested.
func (h *HostSensors) PowerCycles() (ups, downs int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.powerUps, h.powerDown
}
