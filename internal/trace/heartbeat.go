package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits periodic liveness events. Heartbeats without span ends
// in between point at a unit stuck in a pass.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	done     sync.WaitGroup
}

// StartHeartbeat starts the ticker goroutine. It returns nil when tracing is
// off or interval is not positive; Stop on nil is fine.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, interval: interval, stop: make(chan struct{})}
	h.done.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.done.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	gid := goroutineID()
	for n := 1; ; n++ {
		select {
		case now := <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
