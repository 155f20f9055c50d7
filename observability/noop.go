package observability

import "context"

// NoOpObserver discards all events. Protocols built without an observer
// use it so setters can always report unconditionally.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
