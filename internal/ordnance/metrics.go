package ordnance

import (
	"context"
	"fmt"

	"github.com/GL1TCH1337/cs2-retakes/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/GL1TCH1337/cs2-retakes/internal/ordnance"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// metrics counts scheduling and dispatch outcomes. Uses the global meter
// provider, which is a no-op unless one has been installed.
type metrics struct {
	scheduled metric.Int64Counter
	skipped   metric.Int64Counter
	spawned   metric.Int64Counter
	failed    metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)

	out.scheduled, err = m.Int64Counter("ordnance.scheduled",
		metric.WithDescription("Ordnance entries scheduled for a round"))
	if err != nil {
		return nil, fmt.Errorf("creating scheduled counter: %w", err)
	}
	out.skipped, err = m.Int64Counter("ordnance.skipped",
		metric.WithDescription("Ordnance entries skipped by the player cap"))
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}
	out.spawned, err = m.Int64Counter("ordnance.spawned",
		metric.WithDescription("Ordnance entities created"))
	if err != nil {
		return nil, fmt.Errorf("creating spawned counter: %w", err)
	}
	out.failed, err = m.Int64Counter("ordnance.failed",
		metric.WithDescription("Ordnance dispatches abandoned"))
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	return &out, nil
}

func entryAttrs(o core.Ordnance) metric.AddOption {
	return metric.WithAttributes(
		attribute.String("site", o.Site.String()),
		attribute.String("team", o.Team.String()),
		attribute.String("type", o.Type.String()),
	)
}

func (m *metrics) add(c metric.Int64Counter, o core.Ordnance) {
	if m == nil || c == nil {
		return
	}
	c.Add(context.Background(), 1, entryAttrs(o))
}
