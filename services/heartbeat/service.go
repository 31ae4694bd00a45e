// Package heartbeat publishes a periodic liveness beat on the bus so bench
// tooling can see the firmware is alive and which device it is.
package heartbeat

import (
	"context"
	"time"

	"smartknob-go/bus"
	"smartknob-go/config"
	"smartknob-go/x/timex"
)

// Topic carries Beat payloads, retained so a late subscriber sees the
// last one immediately.
var Topic = bus.T("heartbeat")

var topicInterval = bus.T("heartbeat", "interval")

// Beat is one liveness sample.
type Beat struct {
	KnobID   string
	UptimeMs int64
	SeqNo    uint32
}

type Service struct {
	cfg *config.Configuration
}

func New(cfg *config.Configuration) *Service { return &Service{cfg: cfg} }

// Start launches the beat loop.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	ivSub := conn.SubscribeQ(topicInterval, 1)
	defer conn.Unsubscribe(ivSub)

	startMs := timex.NowMs()
	seq := uint32(0)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[heartbeat] stopping")
			return
		case <-tick.C:
			seq++
			conn.Publish(conn.NewMessage(Topic, Beat{
				KnobID:   s.cfg.KnobID(),
				UptimeMs: timex.NowMs() - startMs,
				SeqNo:    seq,
			}, true))
		case m := <-ivSub.Channel():
			if secs, ok := m.Payload.(int); ok && secs > 0 {
				tick.Reset(time.Duration(secs) * time.Second)
				println("[heartbeat] interval set to", secs, "seconds")
			}
		}
	}
}
