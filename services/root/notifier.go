package root

// Notifier is a single-slot configuration mailbox. RequestUpdate may be
// called from any goroutine (protocol callbacks, UI handlers) and never
// blocks: a pending value that was not yet applied is silently replaced, so
// bursts collapse to the most recent request. LoopTick runs on the root
// task's goroutine once per tick and applies the pending value, if any, via
// the bound callback; the callback therefore needs no locking of its own.
type Notifier[T any] struct {
	pending chan T
	notify  func(T)
}

// NewNotifier constructs a notifier fully bound to its callback.
func NewNotifier[T any](notify func(T)) *Notifier[T] {
	return &Notifier[T]{
		pending: make(chan T, 1),
		notify:  notify,
	}
}

// RequestUpdate overwrites the pending slot with v. Last writer wins.
func (n *Notifier[T]) RequestUpdate(v T) {
	for {
		select {
		case n.pending <- v:
			return
		default:
			// Slot occupied: discard the stale value and retry.
			select {
			case <-n.pending:
			default:
			}
		}
	}
}

// LoopTick applies a pending value on the caller's timeline. A request made
// between ticks is visible on the very next tick.
func (n *Notifier[T]) LoopTick() {
	select {
	case v := <-n.pending:
		if n.notify != nil {
			n.notify(v)
		}
	default:
	}
}
