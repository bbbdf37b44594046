package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// MessageWriter is the part of *gelf.Writer the handler needs.
type MessageWriter interface {
	WriteMessage(m *gelf.Message) error
}

// GelfHandler is a slog.Handler that forwards records to Graylog.
type GelfHandler struct {
	mu       *sync.Mutex
	w        MessageWriter
	level    slog.Leveler
	host     string
	facility string
	extra    map[string]interface{}
	prefix   string
}

// NewGelfHandler wraps w. Records below level are dropped.
func NewGelfHandler(w MessageWriter, level slog.Leveler, facility string) *GelfHandler {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &GelfHandler{
		mu:       &sync.Mutex{},
		w:        w,
		level:    level,
		host:     host,
		facility: facility,
	}
}

// DialGraylog opens a UDP GELF writer to addr and wraps it in a handler.
// The returned writer must be closed on shutdown.
func DialGraylog(addr, level string) (*GelfHandler, *gelf.Writer, error) {
	w, err := gelf.NewWriter(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to graylog at %s: %w", addr, err)
	}
	return NewGelfHandler(w, parseLevel(level), InstrumentationName), w, nil
}

// syslogLevel maps slog levels onto the syslog severities GELF expects.
func syslogLevel(l slog.Level) int32 {
	switch {
	case l >= slog.LevelError:
		return 3
	case l >= slog.LevelWarn:
		return 4
	case l >= slog.LevelInfo:
		return 6
	default:
		return 7
	}
}

func (h *GelfHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func addAttr(extra map[string]interface{}, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	extra[prefix+a.Key] = a.Value.Resolve().String()
}

func (h *GelfHandler) Handle(_ context.Context, r slog.Record) error {
	extra := make(map[string]interface{}, len(h.extra)+r.NumAttrs())
	for k, v := range h.extra {
		extra[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(extra, h.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	msg := &gelf.Message{
		Version:  "1.1",
		Host:     h.host,
		Short:    r.Message,
		TimeUnix: float64(ts.UnixNano()) / float64(time.Second),
		Level:    syslogLevel(r.Level),
		Facility: h.facility,
		Extra:    extra,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w.WriteMessage(msg)
}

func (h *GelfHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.extra = make(map[string]interface{}, len(h.extra)+len(attrs))
	for k, v := range h.extra {
		c.extra[k] = v
	}
	for _, a := range attrs {
		addAttr(c.extra, h.prefix, a)
	}
	return &c
}

func (h *GelfHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}
