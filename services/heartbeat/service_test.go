package heartbeat

import (
	"context"
	"testing"
	"time"

	"smartknob-go/bus"
	"smartknob-go/config"
)

func TestBeatCarriesKnobIDAndSequence(t *testing.T) {
	cfg := config.New(config.NewMemStore(), nil)
	if err := cfg.Load(); err != nil {
		t.Fatalf("config load: %v", err)
	}

	b := bus.NewBus(4)
	sub := b.NewConnection("test").SubscribeQ(Topic, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := New(cfg).Start(ctx, b.NewConnection("heartbeat")); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(3 * time.Second)
	select {
	case m := <-sub.Channel():
		beat := m.Payload.(Beat)
		if beat.KnobID != "smartknob-dev" {
			t.Errorf("knob id = %q", beat.KnobID)
		}
		if beat.SeqNo == 0 {
			t.Error("sequence must start at 1")
		}
	case <-deadline:
		t.Fatal("no beat within 3 s")
	}
}
