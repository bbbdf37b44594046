package logging

import (
	"context"
	"log/slog"
)

// Scope reports where the server currently is in a match.
type Scope interface {
	MapName() string
	Round() int
	Site() string
}

// ContextProvider returns attributes stamped on every record.
type ContextProvider func() []slog.Attr

// MatchAttrs stamps records with the current map, plus the round once one
// has started and the bombsite once it is picked.
func MatchAttrs(s Scope) ContextProvider {
	return func() []slog.Attr {
		attrs := []slog.Attr{slog.String("map", s.MapName())}
		if round := s.Round(); round > 0 {
			attrs = append(attrs, slog.Int("round", round))
		}
		if site := s.Site(); site != "" {
			attrs = append(attrs, slog.String("site", site))
		}
		return attrs
	}
}

// ContextHandler adds the provider's attributes to each record before passing
// it on. A key the record already carries is not stamped again, so a handler
// logging the map it is switching to keeps its own value.
type ContextHandler struct {
	next     slog.Handler
	provider ContextProvider
}

// NewContextHandler wraps next. A nil provider adds nothing.
func NewContextHandler(next slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{next: next, provider: provider}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.next.Handle(ctx, r)
	}
	present := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})
	for _, a := range h.provider() {
		if !present[a.Key] {
			r.AddAttrs(a)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewContextHandler(h.next.WithAttrs(attrs), h.provider)
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return NewContextHandler(h.next.WithGroup(name), h.provider)
}
