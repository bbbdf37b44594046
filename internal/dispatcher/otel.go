package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/GL1TCH1337/cs2-retakes/internal/dispatcher"

// instruments are the per-command counters and timings. The global meter is
// a no-op until an SDK provider is installed.
type instruments struct {
	processed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments() (*instruments, error) {
	m := otel.Meter(instrumentationName)
	ins := &instruments{}

	var err error
	if ins.processed, err = m.Int64Counter("dispatcher.events.processed",
		metric.WithDescription("Host commands handled")); err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}
	if ins.failed, err = m.Int64Counter("dispatcher.events.failed",
		metric.WithDescription("Host commands whose handler returned an error")); err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	if ins.duration, err = m.Float64Histogram("dispatcher.events.duration",
		metric.WithDescription("Time spent in the handler"), metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	return ins, nil
}

func (ins *instruments) wrap(command string, h HandlerFunc) HandlerFunc {
	attrs := metric.WithAttributes(attribute.String("command", command))
	return func(e Event) (any, error) {
		start := time.Now()
		result, err := h(e)

		ctx := context.Background()
		ins.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
		ins.processed.Add(ctx, 1, attrs)
		if err != nil {
			ins.failed.Add(ctx, 1, attrs)
		}
		return result, err
	}
}
