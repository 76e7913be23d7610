package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a periodic event so a run stuck in a unit initializer or a
// class-object builder still shows progress in the trace.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t records nothing or every <= 0; Stop on
// nil is a no-op.
func StartHeartbeat(t Tracer, every time.Duration) *Heartbeat {
	if t == nil || t.Level() == LevelOff || every <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, every)
	return h
}

func (h *Heartbeat) loop(t Tracer, every time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	start := time.Now()
	for beat := 1; ; beat++ {
		select {
		case now := <-ticker.C:
			t.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
				Extra:  map[string]string{"elapsed": now.Sub(start).Round(time.Millisecond).String()},
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the loop and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
