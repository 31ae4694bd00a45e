package root

import (
	"sync"
	"testing"

	"smartknob-go/types"
)

func TestNotifierAppliesOnLoopTick(t *testing.T) {
	var got []types.OSMode
	n := NewNotifier(func(m types.OSMode) { got = append(got, m) })

	n.RequestUpdate(types.OSModeRunning)
	if len(got) != 0 {
		t.Fatal("callback must not run before LoopTick")
	}

	n.LoopTick()
	if len(got) != 1 || got[0] != types.OSModeRunning {
		t.Fatalf("expected one applied value, got %v", got)
	}

	// Empty mailbox: LoopTick is a no-op.
	n.LoopTick()
	if len(got) != 1 {
		t.Error("LoopTick with empty mailbox must not re-apply")
	}
}

func TestNotifierBurstCollapsesToLatest(t *testing.T) {
	var got []int
	n := NewNotifier(func(v int) { got = append(got, v) })

	for i := 0; i < 10; i++ {
		n.RequestUpdate(i)
	}
	n.LoopTick()

	if len(got) != 1 || got[0] != 9 {
		t.Fatalf("expected only the latest value 9, got %v", got)
	}
}

func TestNotifierNeverBlocks(t *testing.T) {
	n := NewNotifier(func(int) {})

	// Writers from many goroutines with no reader must all return.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				n.RequestUpdate(g*1000 + i)
			}
		}(g)
	}
	wg.Wait()

	n.LoopTick() // applies some latest value; must not panic or hang
}
