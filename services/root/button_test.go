package root

import (
	"testing"

	"smartknob-go/types"
)

func TestDebouncerFiresOncePerCode(t *testing.T) {
	var d buttonDebouncer

	fired := 0
	for i := 0; i < 3; i++ {
		if _, ok := d.step(types.VirtualButtonShortPressed); ok {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("expected exactly one transition for a held code, got %d", fired)
	}
}

func TestDebouncerDistinctCodesFireEach(t *testing.T) {
	var d buttonDebouncer

	fired := 0
	for _, code := range []types.VirtualButtonCode{
		types.VirtualButtonShortPressed,
		types.VirtualButtonLongPressed,
	} {
		if _, ok := d.step(code); ok {
			fired++
		}
	}
	if fired != 2 {
		t.Errorf("expected two transitions for two distinct codes, got %d", fired)
	}
}

func TestDebouncerActions(t *testing.T) {
	cases := []struct {
		code types.VirtualButtonCode
		want buttonAction
	}{
		{types.VirtualButtonShortPressed, buttonAction{hapticPress: true, engage: true, press: true}},
		{types.VirtualButtonLongPressed, buttonAction{hapticPress: true, hapticLong: true, nav: types.NavigationLong, engage: true, press: true}},
		{types.VirtualButtonShortReleased, buttonAction{nav: types.NavigationShort}},
		{types.VirtualButtonLongReleased, buttonAction{}},
	}
	for _, tc := range cases {
		var d buttonDebouncer
		got, ok := d.step(tc.code)
		if !ok {
			t.Errorf("code %d: expected a transition", tc.code)
			continue
		}
		if got != tc.want {
			t.Errorf("code %d: action = %+v, want %+v", tc.code, got, tc.want)
		}
	}
}

func TestDebouncerUnknownCodeResets(t *testing.T) {
	var d buttonDebouncer

	if _, ok := d.step(types.VirtualButtonShortPressed); !ok {
		t.Fatal("expected first press to fire")
	}
	// Unknown code resets the register; the same press fires again.
	if _, ok := d.step(types.VirtualButtonCode(99)); ok {
		t.Error("unknown code must not fire")
	}
	if d.lastPlayed != types.VirtualButtonIdle {
		t.Errorf("expected reset to idle, got %d", d.lastPlayed)
	}
	if _, ok := d.step(types.VirtualButtonShortPressed); !ok {
		t.Error("expected press to fire again after reset")
	}
}

func TestDebouncerIdleResets(t *testing.T) {
	var d buttonDebouncer
	d.step(types.VirtualButtonShortPressed)
	d.step(types.VirtualButtonIdle)
	if _, ok := d.step(types.VirtualButtonShortPressed); !ok {
		t.Error("expected press to fire again after idle")
	}
}
