package ledring

import (
	"image/color"
	"testing"

	"smartknob-go/types"
)

type fakeStrip struct {
	frames [][]color.RGBA
}

func (s *fakeStrip) WriteColors(buf []color.RGBA) error {
	frame := make([]color.RGBA, len(buf))
	copy(frame, buf)
	s.frames = append(s.frames, frame)
	return nil
}

func litPixels(buf []color.RGBA) []int {
	var lit []int
	for i, c := range buf {
		if c.R != 0 || c.G != 0 || c.B != 0 {
			lit = append(lit, i)
		}
	}
	return lit
}

func TestOffBlanksEverything(t *testing.T) {
	buf := make([]color.RGBA, 8)
	buf[3] = color.RGBA{R: 255}
	renderFrame(buf, types.EffectSettings{Type: types.EffectLedsOff}, 0, 0)
	if lit := litPixels(buf); lit != nil {
		t.Fatalf("pixels still lit: %v", lit)
	}
}

func TestToBrightnessFillsSpan(t *testing.T) {
	buf := make([]color.RGBA, 8)
	renderFrame(buf, types.EffectSettings{
		Type:        types.EffectToBrightness,
		StartPixel:  2,
		EndPixel:    5,
		AccentPixel: -1,
		MainColor:   0xFF0000,
	}, 0, 65535)

	lit := litPixels(buf)
	if len(lit) != 4 || lit[0] != 2 || lit[3] != 5 {
		t.Fatalf("lit pixels = %v, want [2 3 4 5]", lit)
	}
	if buf[2].R != 255 || buf[2].G != 0 || buf[2].B != 0 {
		t.Errorf("pixel color = %+v, want full red", buf[2])
	}
}

func TestToBrightnessScalesWithLevel(t *testing.T) {
	buf := make([]color.RGBA, 4)
	renderFrame(buf, types.EffectSettings{
		Type:        types.EffectToBrightness,
		StartPixel:  0,
		EndPixel:    3,
		AccentPixel: -1,
		MainColor:   0xFFFFFF,
	}, 0, 32768)
	if buf[0].R > 128 || buf[0].R < 126 {
		t.Errorf("half level red = %d, want ~127", buf[0].R)
	}
}

func TestAccentPixelOverridesSpan(t *testing.T) {
	buf := make([]color.RGBA, 8)
	renderFrame(buf, types.EffectSettings{
		Type:        types.EffectToBrightness,
		StartPixel:  0,
		EndPixel:    7,
		AccentPixel: 4,
		MainColor:   0x00FF00,
		AccentColor: 0x0000FF,
	}, 0, 65535)
	if buf[4].B != 255 || buf[4].G != 0 {
		t.Errorf("accent pixel = %+v, want full blue", buf[4])
	}
	if buf[3].G != 255 {
		t.Errorf("span pixel = %+v, want full green", buf[3])
	}
}

func TestLighthouseSweeps(t *testing.T) {
	e := types.EffectSettings{
		Type:      types.EffectLighthouse,
		MainColor: 0xFFFFFF,
	}
	buf := make([]color.RGBA, 12)

	seen := map[int]bool{}
	for frame := 0; frame < lighthousePeriodFrames; frame++ {
		renderFrame(buf, e, frame, 65535)
		lit := litPixels(buf)
		if len(lit) != 1+lighthouseTailLen {
			t.Fatalf("frame %d: %d pixels lit, want %d", frame, len(lit), 1+lighthouseTailLen)
		}
		head := brightestPixel(buf)
		tail := (head - 1 + len(buf)) % len(buf)
		if buf[tail].R >= buf[head].R {
			t.Fatalf("frame %d: tail pixel %d not dimmer than head %d", frame, tail, head)
		}
		seen[head] = true
	}
	if len(seen) != 12 {
		t.Errorf("beam visited %d of 12 pixels over one revolution", len(seen))
	}
}

func brightestPixel(buf []color.RGBA) int {
	best := 0
	for i, c := range buf {
		if c.R > buf[best].R {
			best = i
		}
	}
	return best
}

func TestSetEffectOverwrites(t *testing.T) {
	strip := &fakeStrip{}
	task := New(strip, 8)

	task.SetEffect(types.EffectSettings{Type: types.EffectToBrightness, EndPixel: 7, MainColor: 0xFF0000, Brightness: 65535})
	task.SetEffect(types.EffectSettings{Type: types.EffectLedsOff})

	// Drain the slot the way the run loop does and render.
	select {
	case e := <-task.effects:
		task.apply(e)
	default:
	}
	task.render()

	if len(strip.frames) != 1 {
		t.Fatalf("frames written = %d", len(strip.frames))
	}
	if lit := litPixels(strip.frames[0]); lit != nil {
		t.Errorf("expected the newer (off) effect, lit = %v", lit)
	}
}

func TestBrightnessFadesInOverFrames(t *testing.T) {
	strip := &fakeStrip{}
	task := New(strip, 4)

	task.apply(types.EffectSettings{
		Type:        types.EffectToBrightness,
		StartPixel:  0,
		EndPixel:    3,
		AccentPixel: -1,
		MainColor:   0xFFFFFF,
		Brightness:  65535,
	})

	task.render()
	first := strip.frames[0][0].R
	for i := 0; i < 64; i++ {
		task.render()
	}
	last := strip.frames[len(strip.frames)-1][0].R

	if first >= last {
		t.Fatalf("expected a rising fade, first=%d last=%d", first, last)
	}
	if last != 255 {
		t.Errorf("fade should settle at full, got %d", last)
	}
	if !task.fade.Done() {
		t.Error("fade should report settled")
	}
}
