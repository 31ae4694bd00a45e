package root

import "smartknob-go/types"

// buttonAction is the one-shot side effect set for a virtual button
// transition. The root task applies it: haptic pulse, optional navigation
// event, optional wake extension, press-nonce bump.
type buttonAction struct {
	hapticPress bool // true on press transitions, false on releases
	hapticLong  bool
	nav         types.NavigationEvent
	engage      bool
	press       bool // counts toward the press nonce
}

// buttonDebouncer turns the polled strain code into one-shot transitions.
// The last-played register suppresses re-triggering while the raw code
// persists across ticks; an unrecognized code resets it to idle.
type buttonDebouncer struct {
	lastPlayed types.VirtualButtonCode
}

// step returns the action for code and whether it fired. It fires at most
// once per distinct code value.
func (d *buttonDebouncer) step(code types.VirtualButtonCode) (buttonAction, bool) {
	switch code {
	case types.VirtualButtonShortPressed:
		if d.lastPlayed != code {
			d.lastPlayed = code
			return buttonAction{hapticPress: true, engage: true, press: true}, true
		}
	case types.VirtualButtonLongPressed:
		if d.lastPlayed != code {
			d.lastPlayed = code
			return buttonAction{hapticPress: true, hapticLong: true, nav: types.NavigationLong, engage: true, press: true}, true
		}
	case types.VirtualButtonShortReleased:
		if d.lastPlayed != code {
			d.lastPlayed = code
			return buttonAction{nav: types.NavigationShort}, true
		}
	case types.VirtualButtonLongReleased:
		if d.lastPlayed != code {
			d.lastPlayed = code
			return buttonAction{}, true
		}
	default:
		d.lastPlayed = types.VirtualButtonIdle
	}
	return buttonAction{}, false
}
