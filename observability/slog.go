package observability

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// leadingKeys are the Data keys protocol warnings carry, rendered first and
// in this order so a replaced input reads as "field value default".
var leadingKeys = []string{"protocol_id", "field", "value", "default", "reason"}

// SlogObserver emits events to a slog.Logger. The event type becomes the
// log message and the event timestamp becomes the record time. Data keys
// are flattened into top-level attributes: the warning keys first, then
// the rest sorted.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver that emits to the given logger.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	handler := o.logger.Handler()
	if !handler.Enabled(ctx, level) {
		return
	}

	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	r := slog.NewRecord(ts, level, string(event.Type), 0)
	r.AddAttrs(slog.String("source", event.Source))
	r.AddAttrs(dataAttrs(event.Data)...)

	_ = handler.Handle(ctx, r)
}

func dataAttrs(data map[string]any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(data))
	for _, k := range leadingKeys {
		if v, ok := data[k]; ok {
			attrs = append(attrs, slog.Any(k, v))
		}
	}

	rest := make([]string, 0, len(data))
	for k := range data {
		if !slices.Contains(leadingKeys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	for _, k := range rest {
		attrs = append(attrs, slog.Any(k, data[k]))
	}
	return attrs
}
