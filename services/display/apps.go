package display

import (
	"sync"

	"smartknob-go/types"
)

// App is a screen application. Each app declares the detent profile it
// wants the knob to have while active.
type App interface {
	ID() string
	Update(types.AppState) types.EntityStateUpdate
	HandleNavigation(ev types.NavigationEvent) bool
	KnobConfig() types.KnobConfig
}

// Apps is the registry and menu. A long press toggles between the menu and
// the active app; while the menu is up the knob position selects an app,
// wrapping at both ends, and a short press activates the selection.
type Apps struct {
	mu            sync.Mutex
	list          []App
	active        int
	menuUp        bool
	menuSelection int
	requestConfig func(types.KnobConfig) // optional, feeds the motor mailbox
}

// NewApps builds the registry. requestConfig receives the detent profile of
// whichever surface takes over the knob; nil disables profile switching.
func NewApps(requestConfig func(types.KnobConfig)) *Apps {
	return &Apps{requestConfig: requestConfig}
}

// Add registers an app. The first app added becomes the active one.
func (a *Apps) Add(app App) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.list = append(a.list, app)
}

// Active returns the currently active app, or nil when none is registered.
func (a *Apps) Active() App {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeLocked()
}

func (a *Apps) activeLocked() App {
	if len(a.list) == 0 {
		return nil
	}
	return a.list[a.active]
}

// Update routes a state snapshot to the active app, or tracks the wrapped
// menu selection while the menu is up.
func (a *Apps) Update(st types.AppState) types.EntityStateUpdate {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.menuUp {
		prev := a.menuSelection
		a.menuSelection = wrapIndex(int(st.Motor.CurrentPosition), len(a.list))
		return types.EntityStateUpdate{
			AppID:      "menu",
			Changed:    a.menuSelection != prev,
			PlayHaptic: a.menuSelection != prev,
		}
	}
	if app := a.activeLocked(); app != nil {
		return app.Update(st)
	}
	return types.EntityStateUpdate{}
}

// HandleNavigationEvent implements the menu flow. SHORT inside the menu
// activates the selection; SHORT outside goes to the active app; LONG
// toggles the menu unless the active app consumes it first.
func (a *Apps) HandleNavigationEvent(ev types.NavigationEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch ev {
	case types.NavigationShort:
		if a.menuUp {
			a.menuUp = false
			a.active = a.menuSelection
			a.pushConfigLocked()
			return
		}
		if app := a.activeLocked(); app != nil {
			app.HandleNavigation(ev)
		}
	case types.NavigationLong:
		if !a.menuUp {
			if app := a.activeLocked(); app != nil && app.HandleNavigation(ev) {
				return
			}
		}
		a.menuUp = !a.menuUp
		if a.menuUp {
			a.menuSelection = a.active
			a.pushMenuConfigLocked()
		} else {
			a.pushConfigLocked()
		}
	}
}

func (a *Apps) pushConfigLocked() {
	if a.requestConfig == nil {
		return
	}
	if app := a.activeLocked(); app != nil {
		a.requestConfig(app.KnobConfig())
	}
}

func (a *Apps) pushMenuConfigLocked() {
	if a.requestConfig == nil {
		return
	}
	a.requestConfig(menuKnobConfig(len(a.list), int32(a.active)))
}

// menuKnobConfig is the detent profile for menu browsing: one strong detent
// per app, free-spinning past the ends so the wrap feels continuous.
func menuKnobConfig(n int, position int32) types.KnobConfig {
	if n < 1 {
		n = 1
	}
	return types.KnobConfig{
		ID:                   "menu",
		Position:             position,
		MinPosition:          -2_000_000_000,
		MaxPosition:          2_000_000_000,
		PositionWidthRadians: 0.175,
		DetentStrengthUnit:   1,
		SnapPoint:            1.1,
	}
}

// wrapIndex maps any position onto a valid index, wrapping in both
// directions.
func wrapIndex(pos, n int) int {
	if n <= 0 {
		return 0
	}
	i := pos % n
	if i < 0 {
		i += n
	}
	return i
}
