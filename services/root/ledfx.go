package root

import "smartknob-go/types"

// effectForState chooses the ring effect for the current tick. Pure function
// of settings and the current screen brightness; recomputed unconditionally
// every tick and pushed as a full replacement.
//
// Three display regimes drive the choreography:
//  1. engaged (brightness above the screen minimum) or dimming disabled:
//     the whole ring fades to its maximum brightness;
//  2. idle at exactly the screen minimum: the whole ring fades to its
//     minimum brightness;
//  3. dimmed below the minimum: a single roaming beacon pixel, or nothing
//     if the beacon is disabled.
func effectForState(set types.Settings, brightness uint16, numLeds int) types.EffectSettings {
	if !set.LedRing.Enabled {
		return types.EffectSettings{Type: types.EffectLedsOff}
	}

	switch {
	case brightness > set.Screen.MinBright || !set.LedRing.Dim:
		return types.EffectSettings{
			Type:        types.EffectToBrightness,
			StartPixel:  0,
			EndPixel:    numLeds - 1,
			AccentPixel: -1,
			MainColor:   set.LedRing.Color,
			AccentColor: set.LedRing.Beacon.Color,
			Brightness:  set.LedRing.MaxBright,
		}
	case brightness == set.Screen.MinBright:
		return types.EffectSettings{
			Type:        types.EffectToBrightness,
			StartPixel:  0,
			EndPixel:    numLeds - 1,
			AccentPixel: -1,
			MainColor:   set.LedRing.Color,
			AccentColor: set.LedRing.Beacon.Color,
			Brightness:  set.LedRing.MinBright,
		}
	case set.LedRing.Beacon.Enabled:
		return types.EffectSettings{
			Type:        types.EffectLighthouse,
			StartPixel:  0,
			EndPixel:    numLeds - 1,
			AccentPixel: -1,
			MainColor:   set.LedRing.Beacon.Color,
			AccentColor: set.LedRing.Color,
			Brightness:  set.LedRing.Beacon.Brightness,
		}
	default:
		return types.EffectSettings{Type: types.EffectLedsOff}
	}
}
