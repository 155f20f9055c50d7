package observability

import (
	"context"
	"sync"
)

// Collector records events in memory. Callers that need to act on the
// warnings a protocol raised (for example to print a summary after
// construction) attach one alongside their log sink.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *Collector) OnEvent(ctx context.Context, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of every recorded event.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Warnings returns the recorded events at warning severity or above.
func (c *Collector) Warnings() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, e := range c.events {
		if e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards all recorded events.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
