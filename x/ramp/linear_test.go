package ramp

import "testing"

func TestTowardStepsAndSettles(t *testing.T) {
	cases := []struct {
		cur, to, step, want uint16
	}{
		{0, 100, 30, 30},
		{90, 100, 30, 100},
		{100, 0, 30, 70},
		{10, 0, 30, 0},
		{50, 50, 30, 50},
		{0, 100, 0, 100}, // zero step snaps
	}
	for _, c := range cases {
		if got := Toward(c.cur, c.to, c.step); got != c.want {
			t.Errorf("Toward(%d, %d, %d) = %d, want %d", c.cur, c.to, c.step, got, c.want)
		}
	}
}

func TestLevelFadeUpAndRetarget(t *testing.T) {
	l := NewLevel(100)
	l.Set(250)

	if got := l.Step(); got != 100 {
		t.Fatalf("first step = %d", got)
	}
	if got := l.Step(); got != 200 {
		t.Fatalf("second step = %d", got)
	}

	// Retarget mid-fade: bends from the current level.
	l.Set(0)
	if got := l.Step(); got != 100 {
		t.Fatalf("after retarget = %d", got)
	}
	l.Step()
	if !l.Done() || l.Current() != 0 {
		t.Errorf("expected settled at 0, got %d done=%v", l.Current(), l.Done())
	}
}

func TestLevelSnap(t *testing.T) {
	l := NewLevel(1)
	l.Snap(65535)
	if l.Current() != 65535 || !l.Done() {
		t.Errorf("snap: current=%d done=%v", l.Current(), l.Done())
	}
}
