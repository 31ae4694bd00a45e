// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

func recvOne(t *testing.T, sub *Subscription) *Message {
	t.Helper()
	select {
	case got := <-sub.Channel():
		return got
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("root", "state"))

	conn.Publish(conn.NewMessage(T("root", "state"), "hello", false))

	got := recvOne(t, sub)
	if got.Payload.(string) != "hello" {
		t.Errorf("expected payload 'hello', got %v", got.Payload)
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "settings"), "persist", true))

	sub := conn.Subscribe(T("config", "settings"))

	got := recvOne(t, sub)
	if got.Payload.(string) != "persist" {
		t.Errorf("expected retained payload 'persist', got %v", got.Payload)
	}
}

func TestOverwriteMailbox(t *testing.T) {
	// Queue length 1: a slow consumer must only ever see the latest value.
	b := NewBus(8)
	conn := b.NewConnection("test")

	sub := conn.SubscribeQ(T("root", "state"), 1)

	for i := 0; i < 5; i++ {
		conn.Publish(conn.NewMessage(T("root", "state"), i, false))
	}

	got := recvOne(t, sub)
	if got.Payload.(int) != 4 {
		t.Errorf("expected latest payload 4, got %v", got.Payload)
	}
	if _, ok := sub.TryRecv(); ok {
		t.Error("expected mailbox to be empty after reading the snapshot")
	}
}

func TestTryRecvEmpty(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")
	sub := conn.Subscribe(T("a"))

	if _, ok := sub.TryRecv(); ok {
		t.Error("expected empty poll to miss")
	}

	conn.Publish(conn.NewMessage(T("a"), "x", false))
	if m, ok := sub.TryRecv(); !ok || m.Payload.(string) != "x" {
		t.Errorf("expected to poll 'x', got %v ok=%v", m, ok)
	}
}

func TestUnsubscribePrunes(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("a", "b", "c"))
	sub.Unsubscribe()

	// Publishing to the pruned path must not panic or deliver.
	conn.Publish(conn.NewMessage(T("a", "b", "c"), "x", false))

	if len(b.root.children) != 0 {
		t.Errorf("expected trie to be pruned, got %d children", len(b.root.children))
	}
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("k"), "v", true))
	conn.Publish(conn.NewMessage(T("k"), nil, true)) // nil payload clears

	sub := conn.Subscribe(T("k"))
	if _, ok := sub.TryRecv(); ok {
		t.Error("expected no retained delivery after clear")
	}
}
