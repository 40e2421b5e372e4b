package trace

import (
	"context"
	"strconv"
	"time"
)

// Heartbeat emits a liveness event every interval while a long render or
// watch session runs. A heartbeat with no span end after it points at a
// stuck file.
type Heartbeat struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHeartbeat starts beating into tracer. It returns nil when tracing is
// off or interval is not positive; Stop on nil is fine.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{cancel: cancel, done: make(chan struct{})}
	go h.loop(ctx, tracer, interval)
	return h
}

func (h *Heartbeat) loop(ctx context.Context, tracer Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	started := time.Now()
	for beat := 1; ; beat++ {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
				Extra:  map[string]string{"uptime": now.Sub(started).Round(time.Millisecond).String()},
			})
		}
	}
}

// Stop ends the heartbeat and waits for the goroutine. Safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}
